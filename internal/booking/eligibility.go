package booking

import (
	"time"

	"rental/internal/pricing"
)

// CanAddInsuranceAfterBooking is true while the booking is confirmed, uninsured,
// and today is strictly before the check-in day. A same-day check-in has no window.
func CanAddInsuranceAfterBooking(b Booking, today time.Time) bool {
	if b.Status != StatusConfirmed || b.InsurancePlanID != "" {
		return false
	}
	return pricing.StartOfDay(today).Before(pricing.StartOfDay(b.CheckIn))
}

// DaysRemainingToAddInsurance counts whole days from today to the last day of the
// window (the day before check-in), floored at 0. It is display-only: 0 with an
// open window means today is the last day.
func DaysRemainingToAddInsurance(b Booking, today time.Time) int {
	lastDay := pricing.StartOfDay(b.CheckIn).AddDate(0, 0, -1)
	n := pricing.DaysBetween(today, lastDay)
	if n < 0 {
		return 0
	}
	return n
}
