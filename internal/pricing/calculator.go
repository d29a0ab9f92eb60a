package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"rental/internal/insurance"
)

type CurrencyScale int32

const DefaultCurrencyScale CurrencyScale = 2

var ErrInvalidDateRange = errors.New("check-out must be after check-in")

// ServiceFeeRate is the fixed platform surcharge applied to the reservation cost.
var ServiceFeeRate = decimal.RequireFromString("0.10")

var hundred = decimal.NewFromInt(100)

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(int32(DefaultCurrencyScale))
}

// ReservationCost is pricePerNight x nights. Dates are compared at day granularity.
func ReservationCost(pricePerNight decimal.Decimal, checkIn, checkOut time.Time) (decimal.Decimal, error) {
	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return decimal.Zero, ErrInvalidDateRange
	}
	return round(pricePerNight.Mul(decimal.NewFromInt(int64(nights)))), nil
}

func ServiceFee(reservationCost decimal.Decimal) decimal.Decimal {
	return round(reservationCost.Mul(ServiceFeeRate))
}

// InsuranceCost charges plan.PricePercent of the reservation cost. A nil plan costs nothing.
// The percent is taken as given; plan data is validated by the catalog.
func InsuranceCost(reservationCost decimal.Decimal, plan *insurance.Plan) decimal.Decimal {
	if plan == nil {
		return decimal.Zero
	}
	return round(reservationCost.Mul(plan.PricePercent).Div(hundred))
}

// TotalCost sums already-rounded components; it never rounds again so that a later
// insurance attachment only adds its own delta.
func TotalCost(reservationCost, serviceFee, insuranceCost decimal.Decimal) decimal.Decimal {
	return reservationCost.Add(serviceFee).Add(insuranceCost)
}

// EligiblePlan is the plan offered for reservationCost together with its premium.
// A band match whose premium rounds to zero is not offered: an attached plan
// always costs at least one cent.
func EligiblePlan(catalog insurance.Catalog, reservationCost decimal.Decimal) (*insurance.Plan, decimal.Decimal, bool) {
	plan, ok := catalog.FindEligible(reservationCost)
	if !ok {
		return nil, decimal.Zero, false
	}
	cost := InsuranceCost(reservationCost, plan)
	if !cost.IsPositive() {
		return nil, decimal.Zero, false
	}
	return plan, cost, true
}
