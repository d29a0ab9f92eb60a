package insurance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

func plan(id, min, max, pct string) Plan {
	return Plan{
		ID:           id,
		PricePercent: decimal.RequireFromString(pct),
		MinTripValue: decimal.RequireFromString(min),
		MaxTripValue: decimal.RequireFromString(max),
	}
}

func TestFindEligible_HalfOpenBandEdges(t *testing.T) {
	cat := DefaultCatalog()
	cases := []struct {
		cost string
		want string
	}{
		{"99.99", ""},
		{"100", "basic"},
		{"399.99", "basic"},
		{"400", "standard"},
		{"999.99", "standard"},
		{"1000", "premium"},
		{"9999.99", "premium"},
		{"10000", ""},
	}
	for _, tc := range cases {
		p, ok := cat.FindEligible(decimal.RequireFromString(tc.cost))
		if tc.want == "" {
			if ok {
				t.Fatalf("cost %s: expected no plan, got %s", tc.cost, p.ID)
			}
			continue
		}
		if !ok || p.ID != tc.want {
			t.Fatalf("cost %s: expected %s, got %+v", tc.cost, tc.want, p)
		}
	}
}

func TestFindEligible_OverlapResolvesToFirstInOrder(t *testing.T) {
	cat := Catalog{
		plan("wide", "0", "1000", "3"),
		plan("narrow", "400", "600", "5"),
	}
	p, ok := cat.FindEligible(decimal.NewFromInt(500))
	if !ok || p.ID != "wide" {
		t.Fatalf("expected wide to win, got %+v", p)
	}

	reversed := Catalog{cat[1], cat[0]}
	p, ok = reversed.FindEligible(decimal.NewFromInt(500))
	if !ok || p.ID != "narrow" {
		t.Fatalf("expected narrow to win when listed first, got %+v", p)
	}
}

func TestFindEligible_ReturnsCopy(t *testing.T) {
	cat := DefaultCatalog()
	p, _ := cat.FindEligible(decimal.NewFromInt(500))
	p.Name = "changed"
	if cat[1].Name == "changed" {
		t.Fatalf("catalog must not be mutated through the returned plan")
	}
}

func TestOverlaps(t *testing.T) {
	if got := DefaultCatalog().Overlaps(); len(got) != 0 {
		t.Fatalf("default catalog must not overlap, got %v", got)
	}
	cat := Catalog{
		plan("a", "0", "500", "5"),
		plan("b", "400", "1000", "5"),
		plan("c", "1000", "2000", "5"),
	}
	got := cat.Overlaps()
	if len(got) != 1 || got[0] != (Overlap{First: "a", Second: "b"}) {
		t.Fatalf("expected a overlaps b only, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultCatalog().Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}

	cases := map[string]struct {
		cat  Catalog
		code string
	}{
		"missing id":   {Catalog{plan("", "0", "10", "5")}, "PLAN_ID_MISSING"},
		"duplicate id": {Catalog{plan("a", "0", "10", "5"), plan("a", "10", "20", "5")}, "PLAN_ID_DUPLICATE"},
		"inverted":     {Catalog{plan("a", "10", "10", "5")}, "PLAN_BAND_INVALID"},
		"negative min": {Catalog{plan("a", "-1", "10", "5")}, "PLAN_BAND_INVALID"},
		"zero percent": {Catalog{plan("a", "0", "10", "0")}, "PLAN_PERCENT_INVALID"},
	}
	for name, tc := range cases {
		err := tc.cat.Validate()
		var verr ValidationError
		if !errors.As(err, &verr) || verr.Code != tc.code {
			t.Fatalf("%s: expected %s, got %v", name, tc.code, err)
		}
	}
}

func TestChecked_StrictRejectsOverlap(t *testing.T) {
	overlapping := Catalog{plan("a", "0", "500", "5"), plan("b", "400", "1000", "5")}

	if _, err := (Checked{Source: overlapping, Strict: true}).List(context.Background()); err == nil {
		t.Fatalf("expected strict mode to reject overlapping bands")
	} else {
		var verr ValidationError
		if !errors.As(err, &verr) || verr.Code != "PLAN_BANDS_OVERLAP" {
			t.Fatalf("unexpected error %v", err)
		}
	}

	cat, err := (Checked{Source: overlapping}).List(context.Background())
	if err != nil || len(cat) != 2 {
		t.Fatalf("lenient mode should pass overlapping catalog through, got %v %v", cat, err)
	}
}

func TestChecked_RejectsStructuralErrors(t *testing.T) {
	bad := Catalog{plan("a", "10", "5", "5")}
	if _, err := (Checked{Source: bad}).List(context.Background()); err == nil {
		t.Fatalf("expected structural validation error")
	}
}

func TestCached_FallsBackWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	cat, err := Cached{Source: DefaultCatalog(), Redis: rdb, TTL: time.Minute}.List(context.Background())
	if err != nil {
		t.Fatalf("expected fallback to source, got %v", err)
	}
	if len(cat) != len(DefaultCatalog()) {
		t.Fatalf("unexpected catalog %v", cat)
	}

	// Unlike List, Invalidate reports the failure to its caller.
	if err := (Cached{Redis: rdb}).Invalidate(context.Background()); err == nil {
		t.Fatalf("expected invalidate against a down redis to fail")
	}
}

func TestCached_WithoutRedisUsesSource(t *testing.T) {
	cat, err := Cached{Source: DefaultCatalog()}.List(context.Background())
	if err != nil || len(cat) != 3 {
		t.Fatalf("unexpected %v %v", cat, err)
	}
	if err := (Cached{}).Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate without redis: %v", err)
	}
}

func TestSplitBenefits(t *testing.T) {
	got := splitBenefits(" Trip interruption | |24/7 travel assistance|")
	if len(got) != 2 || got[0] != "Trip interruption" || got[1] != "24/7 travel assistance" {
		t.Fatalf("unexpected benefits %q", got)
	}
	if got := splitBenefits(""); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
