package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"rental/internal/events"
)

// MemoryStore keeps bookings in process. Used by STORE=memory and tests.
type MemoryStore struct {
	mu       sync.Mutex
	bookings map[string]Booking
	events   map[string][]events.Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookings: make(map[string]Booking),
		events:   make(map[string][]events.Event),
	}
}

func (s *MemoryStore) Create(_ context.Context, b Booking, e events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[b.ID]; ok {
		return fmt.Errorf("booking %s already exists", b.ID)
	}
	s.bookings[b.ID] = b
	s.appendEvent(b.ID, e)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return Booking{}, ErrNotFound
	}
	return b, nil
}

func (s *MemoryStore) Mutate(_ context.Context, id string, fn MutateFunc) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.bookings[id]
	if !ok {
		return Booking{}, ErrNotFound
	}
	next, e, err := fn(cur)
	if err != nil {
		return Booking{}, err
	}
	s.bookings[id] = next
	s.appendEvent(id, e)
	return next, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]Booking, error) {
	return s.list(func(b Booking) bool { return b.UserID == userID }), nil
}

func (s *MemoryStore) ListByProperty(_ context.Context, propertyID string) ([]Booking, error) {
	return s.list(func(b Booking) bool { return b.PropertyID == propertyID }), nil
}

func (s *MemoryStore) Events(_ context.Context, bookingID string) ([]events.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]events.Event, len(s.events[bookingID]))
	copy(out, s.events[bookingID])
	return out, nil
}

func (s *MemoryStore) list(keep func(Booking) bool) []Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Booking
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CheckIn.Equal(out[j].CheckIn) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CheckIn.Before(out[j].CheckIn)
	})
	return out
}

// appendEvent expects s.mu to be held.
func (s *MemoryStore) appendEvent(bookingID string, e events.Event) {
	if e.EventType == "" {
		return
	}
	e.ID = uuid.NewString()
	e.BookingID = bookingID
	s.events[bookingID] = append(s.events[bookingID], e)
}
