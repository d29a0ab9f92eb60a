package booking

import (
	"context"

	"rental/internal/events"
)

// MutateFunc derives the next state of a booking and the event recording the change.
// Returning an error aborts the mutation with nothing written.
type MutateFunc func(b Booking) (Booking, events.Event, error)

// Store persists bookings and their event log. Get and Mutate return ErrNotFound
// for unknown ids. Mutate serializes concurrent changes to the same booking.
type Store interface {
	Create(ctx context.Context, b Booking, e events.Event) error
	Get(ctx context.Context, id string) (Booking, error)
	Mutate(ctx context.Context, id string, fn MutateFunc) (Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	ListByProperty(ctx context.Context, propertyID string) ([]Booking, error)
	Events(ctx context.Context, bookingID string) ([]events.Event, error)
}
