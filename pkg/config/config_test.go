package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "")
	t.Setenv("STORE", "")
	t.Setenv("MAX_GUESTS", "")

	cfg := Load()
	if cfg.HTTPAddr != ":7075" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Store != "postgres" {
		t.Fatalf("expected postgres store, got %q", cfg.Store)
	}
	if cfg.MaxGuests != 16 {
		t.Fatalf("expected 16 max guests, got %d", cfg.MaxGuests)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9090")
	t.Setenv("STORE", "Memory")
	t.Setenv("INSURANCE_STRICT_BANDS", "true")
	t.Setenv("CATALOG_CACHE_TTL", "90s")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_MAX_CONN_IDLE", "2m")

	cfg := Load()
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected PORT to win, got %q", cfg.HTTPAddr)
	}
	if cfg.Store != "memory" {
		t.Fatalf("expected lowercased store, got %q", cfg.Store)
	}
	if !cfg.StrictInsuranceBands {
		t.Fatalf("expected strict bands")
	}
	if cfg.Redis.TTL != 90*time.Second {
		t.Fatalf("unexpected ttl %s", cfg.Redis.TTL)
	}
	if cfg.DB.MaxConns != 25 || cfg.DB.MaxConnIdleTime != 2*time.Minute {
		t.Fatalf("unexpected pool sizing %+v", cfg.DB)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}
