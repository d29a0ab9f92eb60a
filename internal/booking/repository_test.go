package booking

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow hands back values in bookingColumns order.
type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.vals))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.vals[i].(string)
		case *int:
			*p = r.vals[i].(int)
		case *time.Time:
			*p = r.vals[i].(time.Time)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

func storedRow(planID, reservation, fee, ins, total, status, reason string) fakeRow {
	created := time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC)
	return fakeRow{vals: []any{
		"b-1", "guest-1", "prop-1", planID,
		time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC), 2,
		reservation, fee, ins, total,
		status, reason, created, created,
	}}
}

func TestScanBooking(t *testing.T) {
	b, err := scanBooking(storedRow("standard", "500.00", "50.00", "25.00", "575.00", "confirmed", ""))
	require.NoError(t, err)
	assert.Equal(t, "b-1", b.ID)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, "standard", b.InsurancePlanID)
	assert.Equal(t, "575.00", b.Costs.Total().StringFixed(2))
	assert.Equal(t, 5, b.Nights())

	b, err = scanBooking(storedRow("", "500.00", "50.00", "0.00", "550.00", "cancelled-by-host", "flooding"))
	require.NoError(t, err)
	assert.Equal(t, StatusCancelledByHost, b.Status)
	assert.Equal(t, "flooding", b.CancellationReason)
}

func TestScanBooking_RejectsInconsistentRows(t *testing.T) {
	cases := map[string]fakeRow{
		"total is not the sum":        storedRow("", "500.00", "50.00", "0.00", "560.00", "confirmed", ""),
		"plan without insurance":      storedRow("standard", "500.00", "50.00", "0.00", "550.00", "confirmed", ""),
		"insurance without plan":      storedRow("", "500.00", "50.00", "25.00", "575.00", "confirmed", ""),
		"negative reservation amount": storedRow("", "-500.00", "50.00", "0.00", "-450.00", "confirmed", ""),
	}
	for name, row := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := scanBooking(row)
			assert.ErrorIs(t, err, ErrInconsistentCosts)
		})
	}
}

func TestScanBooking_RowErrors(t *testing.T) {
	_, err := scanBooking(fakeRow{err: pgx.ErrNoRows})
	assert.True(t, errors.Is(err, pgx.ErrNoRows))

	_, err = scanBooking(storedRow("", "500.00", "50.00", "0.00", "550.00", "pending", ""))
	assert.Error(t, err)

	_, err = scanBooking(storedRow("", "five hundred", "50.00", "0.00", "550.00", "confirmed", ""))
	assert.Error(t, err)
}
