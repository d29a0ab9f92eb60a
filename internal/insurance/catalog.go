package insurance

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Catalog is the ordered plan list. Order matters: it breaks ties between overlapping bands.
type Catalog []Plan

// List lets a fixed catalog act as a Source.
func (c Catalog) List(context.Context) (Catalog, error) {
	return c, nil
}

// FindEligible returns the first plan, in catalog order, whose band contains reservationCost.
func (c Catalog) FindEligible(reservationCost decimal.Decimal) (*Plan, bool) {
	for i := range c {
		if c[i].Covers(reservationCost) {
			p := c[i]
			return &p, true
		}
	}
	return nil, false
}

func (c Catalog) Lookup(id string) (*Plan, bool) {
	for i := range c {
		if c[i].ID == id {
			p := c[i]
			return &p, true
		}
	}
	return nil, false
}

// Overlap names two plans whose bands intersect. First precedes Second in catalog order,
// so First wins eligibility for the shared range.
type Overlap struct {
	First  string
	Second string
}

func (o Overlap) String() string {
	return fmt.Sprintf("%s overlaps %s", o.First, o.Second)
}

func (c Catalog) Overlaps() []Overlap {
	var out []Overlap
	for i := 0; i < len(c); i++ {
		for j := i + 1; j < len(c); j++ {
			if c[i].overlaps(c[j]) {
				out = append(out, Overlap{First: c[i].ID, Second: c[j].ID})
			}
		}
	}
	return out
}

// Validate enforces the structural catalog contract:
// - ids are present and unique
// - every band is non-empty (min < max) and min >= 0
// - every price percent is > 0
//
// Overlapping bands are not a structural error; see Overlaps.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c))
	for _, p := range c {
		if p.ID == "" {
			return ValidationError{Code: "PLAN_ID_MISSING", Message: "insurance plan id is required"}
		}
		if seen[p.ID] {
			return ValidationError{Code: "PLAN_ID_DUPLICATE", Message: fmt.Sprintf("duplicate insurance plan id %q", p.ID)}
		}
		seen[p.ID] = true

		if p.MinTripValue.IsNegative() {
			return ValidationError{Code: "PLAN_BAND_INVALID", Message: fmt.Sprintf("plan %q: minTripValue must be >= 0", p.ID)}
		}
		if !p.MinTripValue.LessThan(p.MaxTripValue) {
			return ValidationError{Code: "PLAN_BAND_INVALID", Message: fmt.Sprintf("plan %q: minTripValue must be < maxTripValue", p.ID)}
		}
		if p.PricePercent.LessThanOrEqual(decimal.Zero) {
			return ValidationError{Code: "PLAN_PERCENT_INVALID", Message: fmt.Sprintf("plan %q: pricePercent must be > 0", p.ID)}
		}
	}
	return nil
}

// DefaultCatalog mirrors the seed migration so the memory store and dev tools price identically.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			ID:           "basic",
			Name:         "Basic Trip Protection",
			PricePercent: decimal.RequireFromString("6"),
			MinTripValue: decimal.RequireFromString("100"),
			MaxTripValue: decimal.RequireFromString("400"),
			Benefits:     []string{"Trip cancellation up to 50% of trip cost", "24/7 travel assistance"},
			TermsURL:     "https://example.com/insurance/basic-terms",
		},
		{
			ID:           "standard",
			Name:         "Standard Trip Protection",
			PricePercent: decimal.RequireFromString("5"),
			MinTripValue: decimal.RequireFromString("400"),
			MaxTripValue: decimal.RequireFromString("1000"),
			Benefits:     []string{"Trip cancellation up to 100% of trip cost", "Trip interruption", "24/7 travel assistance"},
			TermsURL:     "https://example.com/insurance/standard-terms",
		},
		{
			ID:           "premium",
			Name:         "Premium Trip Protection",
			PricePercent: decimal.RequireFromString("4.5"),
			MinTripValue: decimal.RequireFromString("1000"),
			MaxTripValue: decimal.RequireFromString("10000"),
			Benefits:     []string{"Cancel for any reason (75% refund)", "Trip interruption", "Emergency medical coverage", "24/7 travel assistance"},
			TermsURL:     "https://example.com/insurance/premium-terms",
		},
	}
}
