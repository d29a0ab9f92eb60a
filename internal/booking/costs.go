package booking

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CostBreakdown is the priced components of a booking. Total is always the
// sum of the components, so the only way to get one is NewCostBreakdown or
// WithInsurance.
type CostBreakdown struct {
	reservation decimal.Decimal
	serviceFee  decimal.Decimal
	insurance   decimal.Decimal
}

// NewCostBreakdown rejects negative components and an insurance cost that does
// not agree with whether a plan is attached.
func NewCostBreakdown(reservation, serviceFee, insurance decimal.Decimal, insurancePlanID string) (CostBreakdown, error) {
	if reservation.IsNegative() || serviceFee.IsNegative() || insurance.IsNegative() {
		return CostBreakdown{}, fmt.Errorf("%w: negative component", ErrInconsistentCosts)
	}
	if insurance.IsPositive() != (insurancePlanID != "") {
		return CostBreakdown{}, fmt.Errorf("%w: insurance cost %s with plan %q", ErrInconsistentCosts, insurance, insurancePlanID)
	}
	return CostBreakdown{reservation: reservation, serviceFee: serviceFee, insurance: insurance}, nil
}

func (c CostBreakdown) Reservation() decimal.Decimal { return c.reservation }
func (c CostBreakdown) ServiceFee() decimal.Decimal  { return c.serviceFee }
func (c CostBreakdown) Insurance() decimal.Decimal   { return c.insurance }

func (c CostBreakdown) Total() decimal.Decimal {
	return c.reservation.Add(c.serviceFee).Add(c.insurance)
}

// WithInsurance keeps reservation and service fee as they are and sets the insurance component.
func (c CostBreakdown) WithInsurance(cost decimal.Decimal, planID string) (CostBreakdown, error) {
	return NewCostBreakdown(c.reservation, c.serviceFee, cost, planID)
}
