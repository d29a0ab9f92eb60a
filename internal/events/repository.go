package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	BookingCreated   = "BOOKING_CREATED"
	BookingCancelled = "BOOKING_CANCELLED"
	InsuranceAdded   = "INSURANCE_ADDED"
)

type Event struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"bookingId"`
	EventType  string    `json:"eventType"`
	Summary    string    `json:"summary"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

// Insert appends e to the booking log inside tx. ID is assigned by the database.
func Insert(ctx context.Context, tx pgx.Tx, e Event) error {
	var data *string
	if e.Data != nil {
		b, err := json.Marshal(e.Data)
		if err != nil {
			return err
		}
		s := string(b)
		data = &s
	}
	const q = `
INSERT INTO booking_events (booking_id, event_type, summary, actor, occurred_at, data)
VALUES ($1, $2, $3, $4, $5, CAST($6 AS jsonb))
`
	_, err := tx.Exec(ctx, q, e.BookingID, e.EventType, e.Summary, e.Actor, e.OccurredAt, data)
	return err
}
