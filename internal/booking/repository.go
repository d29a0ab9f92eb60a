package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"rental/internal/events"
	"rental/pkg/db"
)

// Repository is the Postgres Store.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const bookingColumns = `
id, user_id, property_id, COALESCE(insurance_plan_id, ''), check_in, check_out, guests,
reservation_cost::text, service_fee::text, insurance_cost::text, total_cost::text,
status, COALESCE(cancellation_reason, ''), created_at, updated_at
`

func (r *Repository) Create(ctx context.Context, b Booking, e events.Event) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		const q = `
INSERT INTO bookings (
  id, user_id, property_id, insurance_plan_id, check_in, check_out, guests,
  reservation_cost, service_fee, insurance_cost, total_cost,
  status, cancellation_reason, created_at, updated_at
) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), $14, $15)
`
		if _, err := tx.Exec(ctx, q,
			b.ID, b.UserID, b.PropertyID, b.InsurancePlanID, b.CheckIn, b.CheckOut, b.Guests,
			b.Costs.Reservation().StringFixed(2), b.Costs.ServiceFee().StringFixed(2), b.Costs.Insurance().StringFixed(2), b.Costs.Total().StringFixed(2),
			string(b.Status), b.CancellationReason, b.CreatedAt, b.UpdatedAt,
		); err != nil {
			return err
		}
		e.BookingID = b.ID
		return events.Insert(ctx, tx, e)
	})
}

func (r *Repository) Get(ctx context.Context, id string) (Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, ErrNotFound
	}
	return b, err
}

func (r *Repository) Mutate(ctx context.Context, id string, fn MutateFunc) (Booking, error) {
	var out Booking
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
		cur, err := scanBooking(tx.QueryRow(ctx, q, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		next, e, err := fn(cur)
		if err != nil {
			return err
		}

		const upd = `
UPDATE bookings
SET insurance_plan_id = NULLIF($2, ''),
    insurance_cost = $3,
    total_cost = $4,
    status = $5,
    cancellation_reason = NULLIF($6, ''),
    updated_at = $7
WHERE id = $1
`
		if _, err := tx.Exec(ctx, upd,
			id, next.InsurancePlanID, next.Costs.Insurance().StringFixed(2), next.Costs.Total().StringFixed(2),
			string(next.Status), next.CancellationReason, next.UpdatedAt,
		); err != nil {
			return err
		}
		if e.EventType != "" {
			e.BookingID = id
			if err := events.Insert(ctx, tx, e); err != nil {
				return err
			}
		}
		out = next
		return nil
	})
	if err != nil {
		return Booking{}, err
	}
	return out, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY check_in ASC, created_at ASC`
	return r.list(ctx, q, userID)
}

func (r *Repository) ListByProperty(ctx context.Context, propertyID string) ([]Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE property_id = $1 ORDER BY check_in ASC, created_at ASC`
	return r.list(ctx, q, propertyID)
}

func (r *Repository) Events(ctx context.Context, bookingID string) ([]events.Event, error) {
	return events.ListByBooking(ctx, r.db, bookingID)
}

func (r *Repository) list(ctx context.Context, q string, arg string) ([]Booking, error) {
	rows, err := r.db.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	var status string
	var reservation, fee, ins, total string
	if err := row.Scan(
		&b.ID, &b.UserID, &b.PropertyID, &b.InsurancePlanID, &b.CheckIn, &b.CheckOut, &b.Guests,
		&reservation, &fee, &ins, &total,
		&status, &b.CancellationReason, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return Booking{}, err
	}

	st, err := ParseStatus(status)
	if err != nil {
		return Booking{}, err
	}
	b.Status = st

	amounts := make([]decimal.Decimal, 0, 4)
	for _, s := range []string{reservation, fee, ins, total} {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Booking{}, fmt.Errorf("booking %s: %w", b.ID, err)
		}
		amounts = append(amounts, d)
	}
	costs, err := NewCostBreakdown(amounts[0], amounts[1], amounts[2], b.InsurancePlanID)
	if err != nil {
		return Booking{}, fmt.Errorf("booking %s: %w", b.ID, err)
	}
	if !costs.Total().Equal(amounts[3]) {
		return Booking{}, fmt.Errorf("booking %s: %w: stored total %s != %s", b.ID, ErrInconsistentCosts, amounts[3], costs.Total())
	}
	b.Costs = costs
	return b, nil
}
