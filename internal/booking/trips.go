package booking

import (
	"fmt"
	"sort"
	"time"

	"rental/internal/insurance"
	"rental/internal/pricing"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterCancelled Filter = "cancelled"
)

func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "":
		return FilterAll, nil
	case FilterAll, FilterCompleted, FilterCancelled:
		return Filter(s), nil
	default:
		return "", fmt.Errorf("unknown filter: %s", s)
	}
}

type tripCategory int

const (
	categoryUpcoming tripCategory = iota
	categoryCompleted
	categoryCancelled
)

func categorize(b Booking, today time.Time) tripCategory {
	switch {
	case b.Status.IsCancelled():
		return categoryCancelled
	case IsCompleted(b, today):
		return categoryCompleted
	default:
		return categoryUpcoming
	}
}

// SortTrips orders upcoming and ongoing trips first by check-in ascending, then
// completed and cancelled trips by check-in descending.
func SortTrips(bookings []Booking, today time.Time) {
	sort.SliceStable(bookings, func(i, j int) bool {
		ci, cj := categorize(bookings[i], today), categorize(bookings[j], today)
		if ci != cj {
			return ci < cj
		}
		if ci == categoryUpcoming {
			return bookings[i].CheckIn.Before(bookings[j].CheckIn)
		}
		return bookings[i].CheckIn.After(bookings[j].CheckIn)
	})
}

func FilterTrips(bookings []Booking, f Filter, today time.Time) []Booking {
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		switch f {
		case FilterCompleted:
			if categorize(b, today) != categoryCompleted {
				continue
			}
		case FilterCancelled:
			if categorize(b, today) != categoryCancelled {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

// Trip is the trip-detail view with the flags derived for today.
type Trip struct {
	Booking

	Completed                   bool
	Ongoing                     bool
	CanAddInsurance             bool
	DaysRemainingToAddInsurance int

	// Plan is the attached plan; EligiblePlan is what the reservation cost qualifies for.
	Plan         *insurance.Plan
	EligiblePlan *insurance.Plan
}

func NewTrip(b Booking, catalog insurance.Catalog, today time.Time) Trip {
	t := Trip{
		Booking:         b,
		Completed:       IsCompleted(b, today),
		Ongoing:         IsOngoing(b, today),
		CanAddInsurance: CanAddInsuranceAfterBooking(b, today),
	}
	if t.CanAddInsurance {
		t.DaysRemainingToAddInsurance = DaysRemainingToAddInsurance(b, today)
	}
	if b.InsurancePlanID != "" {
		t.Plan, _ = catalog.Lookup(b.InsurancePlanID)
	}
	t.EligiblePlan, _, _ = pricing.EligiblePlan(catalog, b.Costs.Reservation())
	return t
}
