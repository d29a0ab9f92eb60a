package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"rental/internal/insurance"
)

// Quote is the checkout price breakdown for a stay before a booking exists.
type Quote struct {
	Nights          int
	PricePerNight   decimal.Decimal
	ReservationCost decimal.Decimal
	ServiceFee      decimal.Decimal
	InsuranceCost   decimal.Decimal
	TotalCost       decimal.Decimal

	// EligiblePlan is offered whenever the reservation cost falls in a band,
	// whether or not the guest opted in.
	EligiblePlan *insurance.Plan
	// InsurancePlanID is set only when insurance was requested and a plan is eligible.
	InsurancePlanID string
}

func NewQuote(pricePerNight decimal.Decimal, checkIn, checkOut time.Time, catalog insurance.Catalog, withInsurance bool) (Quote, error) {
	reservation, err := ReservationCost(pricePerNight, checkIn, checkOut)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		Nights:          Nights(checkIn, checkOut),
		PricePerNight:   pricePerNight,
		ReservationCost: reservation,
		ServiceFee:      ServiceFee(reservation),
		InsuranceCost:   decimal.Zero,
	}

	if plan, cost, ok := EligiblePlan(catalog, reservation); ok {
		q.EligiblePlan = plan
		if withInsurance {
			q.InsuranceCost = cost
			q.InsurancePlanID = plan.ID
		}
	}

	q.TotalCost = TotalCost(q.ReservationCost, q.ServiceFee, q.InsuranceCost)
	return q, nil
}
