package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"rental/internal/insurance"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestReservationCost_BasicStay(t *testing.T) {
	got, err := ReservationCost(decimal.RequireFromString("100"), mustDate(t, "2024-08-10"), mustDate(t, "2024-08-15"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("expected 500, got %s", got)
	}
}

func TestReservationCost_RejectsEmptyOrInvertedRange(t *testing.T) {
	rate := decimal.RequireFromString("100")
	day := mustDate(t, "2024-08-10")

	if _, err := ReservationCost(rate, day, day); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("same day: expected ErrInvalidDateRange, got %v", err)
	}
	if _, err := ReservationCost(rate, day, day.AddDate(0, 0, -1)); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("inverted: expected ErrInvalidDateRange, got %v", err)
	}
	// Same calendar day at different hours is still zero nights.
	if _, err := ReservationCost(rate, day.Add(2*time.Hour), day.Add(20*time.Hour)); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("intra-day: expected ErrInvalidDateRange, got %v", err)
	}
}

func TestReservationCost_RoundTripsNights(t *testing.T) {
	checkIn := mustDate(t, "2024-02-25")
	for _, rate := range []string{"1", "49.99", "100", "333.33", "1250.5"} {
		for nights := 1; nights <= 40; nights++ {
			p := decimal.RequireFromString(rate)
			cost, err := ReservationCost(p, checkIn, checkIn.AddDate(0, 0, nights))
			if err != nil {
				t.Fatalf("rate %s nights %d: %v", rate, nights, err)
			}
			back := cost.Div(p).Round(0).IntPart()
			if back != int64(nights) {
				t.Fatalf("rate %s: expected %d nights back, got %d (cost %s)", rate, nights, back, cost)
			}
		}
	}
}

func TestServiceFee_IsTenPercentRounded(t *testing.T) {
	cases := map[string]string{
		"500":    "50",
		"333.33": "33.33",
		"0.05":   "0.01",
		"123.45": "12.35",
	}
	for in, want := range cases {
		got := ServiceFee(decimal.RequireFromString(in))
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("fee(%s): expected %s, got %s", in, want, got)
		}
	}
}

func TestInsuranceCost(t *testing.T) {
	res := decimal.RequireFromString("500")
	if got := InsuranceCost(res, nil); !got.IsZero() {
		t.Fatalf("nil plan: expected 0, got %s", got)
	}
	plan := &insurance.Plan{ID: "standard", PricePercent: decimal.NewFromInt(5)}
	if got := InsuranceCost(res, plan); !got.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected 25, got %s", got)
	}
	// Percent outside any sensible range is taken as given.
	odd := &insurance.Plan{ID: "odd", PricePercent: decimal.NewFromInt(150)}
	if got := InsuranceCost(res, odd); !got.Equal(decimal.NewFromInt(750)) {
		t.Fatalf("expected 750, got %s", got)
	}
}

func TestTotalCost_IsExactSum(t *testing.T) {
	got := TotalCost(decimal.RequireFromString("333.33"), decimal.RequireFromString("33.33"), decimal.RequireFromString("16.67"))
	if !got.Equal(decimal.RequireFromString("383.33")) {
		t.Fatalf("expected 383.33, got %s", got)
	}
}

func TestNewQuote_WithoutInsurance(t *testing.T) {
	q, err := NewQuote(decimal.NewFromInt(100), mustDate(t, "2024-08-10"), mustDate(t, "2024-08-15"), insurance.DefaultCatalog(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Nights != 5 || !q.ReservationCost.Equal(decimal.NewFromInt(500)) || !q.ServiceFee.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected quote %+v", q)
	}
	if !q.InsuranceCost.IsZero() || !q.TotalCost.Equal(decimal.NewFromInt(550)) {
		t.Fatalf("expected total 550 without insurance, got %s (+%s)", q.TotalCost, q.InsuranceCost)
	}
	if q.EligiblePlan == nil || q.EligiblePlan.ID != "standard" {
		t.Fatalf("expected standard plan to be offered, got %+v", q.EligiblePlan)
	}
	if q.InsurancePlanID != "" {
		t.Fatalf("insurance was not requested, got plan %q", q.InsurancePlanID)
	}
}

func TestNewQuote_WithInsurance(t *testing.T) {
	catalog := insurance.Catalog{{
		ID:           "mid",
		PricePercent: decimal.NewFromInt(5),
		MinTripValue: decimal.NewFromInt(400),
		MaxTripValue: decimal.NewFromInt(1000),
	}}
	q, err := NewQuote(decimal.NewFromInt(100), mustDate(t, "2024-08-10"), mustDate(t, "2024-08-15"), catalog, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.InsurancePlanID != "mid" || !q.InsuranceCost.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected mid plan at 25, got %q at %s", q.InsurancePlanID, q.InsuranceCost)
	}
	if !q.TotalCost.Equal(decimal.NewFromInt(575)) {
		t.Fatalf("expected total 575, got %s", q.TotalCost)
	}
}

func TestNewQuote_NoEligiblePlan(t *testing.T) {
	q, err := NewQuote(decimal.NewFromInt(10), mustDate(t, "2024-08-10"), mustDate(t, "2024-08-12"), insurance.DefaultCatalog(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.EligiblePlan != nil || q.InsurancePlanID != "" || !q.InsuranceCost.IsZero() {
		t.Fatalf("expected no insurance below the lowest band, got %+v", q)
	}
	if !q.TotalCost.Equal(decimal.NewFromInt(22)) {
		t.Fatalf("expected 22, got %s", q.TotalCost)
	}
}

func TestDaysBetween(t *testing.T) {
	a := mustDate(t, "2024-02-28")
	if got := DaysBetween(a, mustDate(t, "2024-03-01")); got != 2 {
		t.Fatalf("leap year: expected 2, got %d", got)
	}
	if got := DaysBetween(mustDate(t, "2024-03-01"), a); got != -2 {
		t.Fatalf("expected -2, got %d", got)
	}
	if got := DaysBetween(a.Add(23*time.Hour), a.AddDate(0, 0, 1)); got != 1 {
		t.Fatalf("time of day must not matter, got %d", got)
	}
}

func TestEligiblePlan_SkipsPremiumThatRoundsToZero(t *testing.T) {
	micro := insurance.Catalog{{
		ID:           "micro",
		PricePercent: decimal.RequireFromString("0.5"),
		MinTripValue: decimal.Zero,
		MaxTripValue: decimal.NewFromInt(100),
	}}

	if p, cost, ok := EligiblePlan(micro, decimal.RequireFromString("0.50")); ok || p != nil || !cost.IsZero() {
		t.Fatalf("expected no plan for a 0.00 premium, got %v %s %v", p, cost, ok)
	}

	p, cost, ok := EligiblePlan(micro, decimal.NewFromInt(2))
	if !ok || p.ID != "micro" {
		t.Fatalf("expected micro plan, got %v %v", p, ok)
	}
	if cost.StringFixed(2) != "0.01" {
		t.Fatalf("expected 0.01 premium, got %s", cost.StringFixed(2))
	}

	q, err := NewQuote(decimal.RequireFromString("0.50"), mustDate(t, "2024-08-10"), mustDate(t, "2024-08-11"), micro, true)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.EligiblePlan != nil || q.InsurancePlanID != "" || !q.InsuranceCost.IsZero() {
		t.Fatalf("quote must not offer a free plan: %+v", q)
	}
}
