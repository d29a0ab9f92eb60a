package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental/internal/events"
)

func TestMemoryStore_MutateErrorWritesNothing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	b := Booking{ID: "b1", UserID: "u1", PropertyID: "p1", Status: StatusConfirmed}
	require.NoError(t, s.Create(ctx, b, events.Event{EventType: events.BookingCreated}))
	assert.Error(t, s.Create(ctx, b, events.Event{}), "duplicate ids are rejected")

	boom := errors.New("boom")
	_, err := s.Mutate(ctx, "b1", func(b Booking) (Booking, events.Event, error) {
		b.Status = StatusCancelledByGuest
		return b, events.Event{EventType: events.BookingCancelled}, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)

	evs, err := s.Events(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.NotEmpty(t, evs[0].ID)

	_, err = s.Mutate(ctx, "missing", func(b Booking) (Booking, events.Event, error) { return b, events.Event{}, nil })
	assert.ErrorIs(t, err, ErrNotFound)
}
