package insurance

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// List returns plans in catalog order (position, then id).
func (r *Repository) List(ctx context.Context) (Catalog, error) {
	const q = `
SELECT id, name, price_percent::text, min_trip_value::text, max_trip_value::text,
       COALESCE(benefits, ''), COALESCE(terms_url, '')
FROM insurance_plans
ORDER BY position ASC, id ASC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out Catalog
	for rows.Next() {
		var p Plan
		var pct, minV, maxV, benefits string
		if err := rows.Scan(&p.ID, &p.Name, &pct, &minV, &maxV, &benefits, &p.TermsURL); err != nil {
			return nil, err
		}
		if p.PricePercent, err = decimal.NewFromString(pct); err != nil {
			return nil, err
		}
		if p.MinTripValue, err = decimal.NewFromString(minV); err != nil {
			return nil, err
		}
		if p.MaxTripValue, err = decimal.NewFromString(maxV); err != nil {
			return nil, err
		}
		p.Benefits = splitBenefits(benefits)
		out = append(out, p)
	}
	return out, rows.Err()
}

// Benefits are stored pipe-separated.
func splitBenefits(s string) []string {
	out := []string{}
	for _, b := range strings.Split(s, "|") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
