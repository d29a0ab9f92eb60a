package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"rental/internal/events"
	"rental/internal/insurance"
	"rental/internal/pricing"
	"rental/internal/property"
)

// Manager runs the booking lifecycle against a Store. Every check happens before
// the store is written; store errors are returned wrapped and never retried.
type Manager struct {
	Store      Store
	Properties property.Lookup
	Plans      insurance.Source
	// MaxGuests of 0 means no upper bound.
	MaxGuests int
	Log       *logrus.Entry
}

type CreateInput struct {
	PropertyID      string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	InsurancePlanID string
}

func (m *Manager) property(ctx context.Context, id string) (property.Property, error) {
	p, err := m.Properties.Get(ctx, id)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return property.Property{}, fmt.Errorf("property %s: %w", id, ErrNotFound)
		}
		return property.Property{}, fmt.Errorf("get property %s: %w", id, err)
	}
	return p, nil
}

func (m *Manager) catalog(ctx context.Context) (insurance.Catalog, error) {
	cat, err := m.Plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load insurance catalog: %w", err)
	}
	return cat, nil
}

func (m *Manager) get(ctx context.Context, id string) (Booking, error) {
	b, err := m.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Booking{}, fmt.Errorf("booking %s: %w", id, ErrNotFound)
		}
		return Booking{}, fmt.Errorf("get booking %s: %w", id, err)
	}
	return b, nil
}

// Quote prices a stay at a property. Insurance is priced only when withInsurance is set.
func (m *Manager) Quote(ctx context.Context, propertyID string, checkIn, checkOut time.Time, withInsurance bool) (pricing.Quote, error) {
	p, err := m.property(ctx, propertyID)
	if err != nil {
		return pricing.Quote{}, err
	}
	cat, err := m.catalog(ctx)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.NewQuote(p.PricePerNight, checkIn, checkOut, cat, withInsurance)
}

func (m *Manager) CreateBooking(ctx context.Context, requester string, in CreateInput, now time.Time) (Booking, error) {
	if requester == "" {
		return Booking{}, ErrUnauthenticated
	}
	if m.MaxGuests > 0 && in.Guests > m.MaxGuests {
		inputErr := newInputError()
		inputErr.addError("guests", fmt.Sprintf("must be at most %d", m.MaxGuests))
		return Booking{}, inputErr
	}

	p, err := m.property(ctx, in.PropertyID)
	if err != nil {
		return Booking{}, err
	}
	cat, err := m.catalog(ctx)
	if err != nil {
		return Booking{}, err
	}

	var plan *insurance.Plan
	if in.InsurancePlanID != "" {
		var ok bool
		if plan, ok = cat.Lookup(in.InsurancePlanID); !ok {
			return Booking{}, ErrPlanNotEligible
		}
	}

	b, err := NewBooking(p, StayParams{CheckIn: in.CheckIn, CheckOut: in.CheckOut, Guests: in.Guests}, plan, cat, requester, now)
	if err != nil {
		return Booking{}, err
	}

	e := events.Event{
		EventType:  events.BookingCreated,
		Summary:    "Booking confirmed",
		Actor:      requester,
		OccurredAt: now,
		Data: map[string]any{
			"propertyId":      b.PropertyID,
			"nights":          b.Nights(),
			"totalCost":       b.Costs.Total().StringFixed(2),
			"insurancePlanId": b.InsurancePlanID,
		},
	}
	if err := m.Store.Create(ctx, b, e); err != nil {
		return Booking{}, fmt.Errorf("create booking: %w", err)
	}

	m.entry(b.ID, requester).WithField("total", b.Costs.Total().StringFixed(2)).Info("booking created")
	return b, nil
}

// CancelBooking cancels on behalf of the guest who owns the booking or the host of its property.
func (m *Manager) CancelBooking(ctx context.Context, requester, id string, by Canceller, reason string, now time.Time) (Booking, RefundSummary, error) {
	if requester == "" {
		return Booking{}, RefundSummary{}, ErrUnauthenticated
	}
	cur, err := m.get(ctx, id)
	if err != nil {
		return Booking{}, RefundSummary{}, err
	}

	switch by {
	case ByGuest:
		if cur.UserID != requester {
			return Booking{}, RefundSummary{}, ErrForbidden
		}
	case ByHost:
		p, err := m.property(ctx, cur.PropertyID)
		if err != nil {
			return Booking{}, RefundSummary{}, err
		}
		if p.HostID != requester {
			return Booking{}, RefundSummary{}, ErrForbidden
		}
	default:
		return Booking{}, RefundSummary{}, fmt.Errorf("unknown canceller: %s", by)
	}

	b, err := m.Store.Mutate(ctx, id, func(b Booking) (Booking, events.Event, error) {
		next, err := Cancel(b, by, reason, now)
		if err != nil {
			return Booking{}, events.Event{}, err
		}
		return next, events.Event{
			EventType:  events.BookingCancelled,
			Summary:    "Booking cancelled by " + string(by),
			Actor:      requester,
			OccurredAt: now,
			Data: map[string]any{
				"to":     next.Status,
				"reason": next.CancellationReason,
				"refund": Refund(next).Amount.StringFixed(2),
			},
		}, nil
	})
	if err != nil {
		return Booking{}, RefundSummary{}, m.wrapMutate("cancel", id, err)
	}

	m.entry(id, requester).WithField("status", b.Status).Info("booking cancelled")
	return b, Refund(b), nil
}

// AddInsurance attaches planID to the requester's booking.
func (m *Manager) AddInsurance(ctx context.Context, requester, id, planID string, now time.Time) (Booking, error) {
	if requester == "" {
		return Booking{}, ErrUnauthenticated
	}
	cur, err := m.get(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if cur.UserID != requester {
		return Booking{}, ErrForbidden
	}

	cat, err := m.catalog(ctx)
	if err != nil {
		return Booking{}, err
	}
	// Unknown ids reach AttachInsurance as nil so a closed window is reported first.
	plan, _ := cat.Lookup(planID)

	b, err := m.Store.Mutate(ctx, id, func(b Booking) (Booking, events.Event, error) {
		next, err := AttachInsurance(b, plan, cat, now)
		if err != nil {
			return Booking{}, events.Event{}, err
		}
		return next, events.Event{
			EventType:  events.InsuranceAdded,
			Summary:    "Insurance added",
			Actor:      requester,
			OccurredAt: now,
			Data: map[string]any{
				"insurancePlanId": next.InsurancePlanID,
				"insuranceCost":   next.Costs.Insurance().StringFixed(2),
				"totalCost":       next.Costs.Total().StringFixed(2),
			},
		}, nil
	})
	if err != nil {
		return Booking{}, m.wrapMutate("add insurance", id, err)
	}

	m.entry(id, requester).WithField("plan", b.InsurancePlanID).Info("insurance added")
	return b, nil
}

// Trips lists the requester's bookings in "my trips" order.
func (m *Manager) Trips(ctx context.Context, requester string, f Filter, now time.Time) ([]Booking, error) {
	if requester == "" {
		return nil, ErrUnauthenticated
	}
	list, err := m.Store.ListByUser(ctx, requester)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	out := FilterTrips(list, f, now)
	SortTrips(out, now)
	return out, nil
}

// Trip returns the detail view. Guests see their own bookings, hosts see bookings of their properties.
func (m *Manager) Trip(ctx context.Context, requester, id string, now time.Time) (Trip, error) {
	b, err := m.authorizedView(ctx, requester, id)
	if err != nil {
		return Trip{}, err
	}
	cat, err := m.catalog(ctx)
	if err != nil {
		return Trip{}, err
	}
	return NewTrip(b, cat, now), nil
}

func (m *Manager) PropertyBookings(ctx context.Context, requester, propertyID string) ([]Booking, error) {
	if requester == "" {
		return nil, ErrUnauthenticated
	}
	p, err := m.property(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p.HostID != requester {
		return nil, ErrForbidden
	}
	list, err := m.Store.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list property bookings: %w", err)
	}
	return list, nil
}

func (m *Manager) Events(ctx context.Context, requester, id string) ([]events.Event, error) {
	if _, err := m.authorizedView(ctx, requester, id); err != nil {
		return nil, err
	}
	list, err := m.Store.Events(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list booking events: %w", err)
	}
	return list, nil
}

func (m *Manager) authorizedView(ctx context.Context, requester, id string) (Booking, error) {
	if requester == "" {
		return Booking{}, ErrUnauthenticated
	}
	b, err := m.get(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if b.UserID == requester {
		return b, nil
	}
	p, err := m.property(ctx, b.PropertyID)
	if err != nil {
		return Booking{}, err
	}
	if p.HostID != requester {
		return Booking{}, ErrForbidden
	}
	return b, nil
}

// wrapMutate leaves lifecycle errors as they are so callers can match them.
func (m *Manager) wrapMutate(op, id string, err error) error {
	if isLifecycleError(err) {
		return err
	}
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	return fmt.Errorf("%s booking %s: %w", op, id, err)
}

func isLifecycleError(err error) bool {
	for _, target := range []error{
		ErrAlreadyCancelled, ErrReasonRequired, ErrTripCompleted,
		ErrInsuranceWindowClosed, ErrPlanNotEligible,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (m *Manager) entry(bookingID, requester string) *logrus.Entry {
	log := m.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return log.WithFields(logrus.Fields{"booking": bookingID, "requester": requester})
}
