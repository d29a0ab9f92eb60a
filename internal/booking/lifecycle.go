package booking

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rental/internal/insurance"
	"rental/internal/pricing"
)

// IsCompleted reports a confirmed trip whose check-out day is before today.
func IsCompleted(b Booking, today time.Time) bool {
	return b.Status == StatusConfirmed && pricing.StartOfDay(b.CheckOut).Before(pricing.StartOfDay(today))
}

// IsOngoing reports a confirmed trip that has started and not yet completed.
func IsOngoing(b Booking, today time.Time) bool {
	if b.Status != StatusConfirmed || IsCompleted(b, today) {
		return false
	}
	return !pricing.StartOfDay(today).Before(pricing.StartOfDay(b.CheckIn))
}

// Cancel moves a confirmed booking to its cancelled state. Costs are left untouched.
func Cancel(b Booking, by Canceller, reason string, now time.Time) (Booking, error) {
	to, err := by.status()
	if err != nil {
		return Booking{}, err
	}
	if !CanTransition(b.Status, to) {
		return Booking{}, ErrAlreadyCancelled
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Booking{}, ErrReasonRequired
	}
	if IsCompleted(b, now) {
		return Booking{}, ErrTripCompleted
	}

	b.Status = to
	b.CancellationReason = reason
	b.UpdatedAt = now
	return b, nil
}

// AttachInsurance adds plan to a booking inside the insurance window. Only the
// insurance component (and so the total) changes.
func AttachInsurance(b Booking, plan *insurance.Plan, catalog insurance.Catalog, now time.Time) (Booking, error) {
	if !CanAddInsuranceAfterBooking(b, now) {
		return Booking{}, ErrInsuranceWindowClosed
	}
	if plan == nil {
		return Booking{}, ErrPlanNotEligible
	}
	eligible, premium, ok := pricing.EligiblePlan(catalog, b.Costs.Reservation())
	if !ok || eligible.ID != plan.ID {
		return Booking{}, ErrPlanNotEligible
	}

	costs, err := b.Costs.WithInsurance(premium, eligible.ID)
	if err != nil {
		return Booking{}, err
	}

	b.Costs = costs
	b.InsurancePlanID = eligible.ID
	b.UpdatedAt = now
	return b, nil
}

type RefundSummary struct {
	BookingID string
	Amount    decimal.Decimal
	Costs     CostBreakdown
}

// Refund summarises what a cancelled booking gives back: the full total.
// Confirmed bookings refund nothing.
func Refund(b Booking) RefundSummary {
	out := RefundSummary{BookingID: b.ID, Amount: decimal.Zero, Costs: b.Costs}
	if b.Status.IsCancelled() {
		out.Amount = b.Costs.Total()
	}
	return out
}
