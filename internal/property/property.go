package property

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("property not found")

type Property struct {
	ID            string          `json:"id"`
	HostID        string          `json:"hostId"`
	Title         string          `json:"title"`
	Location      string          `json:"location"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
}

// Lookup is the read-only view of listings the booking core depends on.
type Lookup interface {
	Get(ctx context.Context, id string) (Property, error)
}
