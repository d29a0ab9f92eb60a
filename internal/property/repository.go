package property

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, id string) (Property, error) {
	const q = `
SELECT id, host_id, title, location, price_per_night::text
FROM properties
WHERE id = $1
`
	var p Property
	var rate string
	if err := r.db.QueryRow(ctx, q, id).Scan(&p.ID, &p.HostID, &p.Title, &p.Location, &rate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, ErrNotFound
		}
		return Property{}, err
	}
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return Property{}, fmt.Errorf("property %s: price_per_night: %w", id, err)
	}
	p.PricePerNight = d
	return p, nil
}
