package insurance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Plan is immutable reference data. Eligibility is the half-open band [MinTripValue, MaxTripValue)
// over the reservation cost.
type Plan struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	PricePercent decimal.Decimal `json:"pricePercent"`
	MinTripValue decimal.Decimal `json:"minTripValue"`
	MaxTripValue decimal.Decimal `json:"maxTripValue"`
	Benefits     []string        `json:"benefits"`
	TermsURL     string          `json:"termsUrl"`
}

func (p Plan) Covers(reservationCost decimal.Decimal) bool {
	return reservationCost.GreaterThanOrEqual(p.MinTripValue) && reservationCost.LessThan(p.MaxTripValue)
}

func (p Plan) overlaps(o Plan) bool {
	return p.MinTripValue.LessThan(o.MaxTripValue) && o.MinTripValue.LessThan(p.MaxTripValue)
}

type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
