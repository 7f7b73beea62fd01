package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DB_HOST", "DB_PORT", "API_PORT", "TOUR_CACHE_TTL", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	t.Setenv("DB_USER", "tours")
	t.Setenv("DB_NAME", "tours")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBHost != "localhost" || cfg.DBPort != "5432" || cfg.APIPort != "8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TourCacheTTL != time.Minute {
		t.Fatalf("ttl = %v", cfg.TourCacheTTL)
	}
	want := "host=localhost port=5432 user=tours password= dbname=tours sslmode=disable"
	if cfg.DSN() != want {
		t.Fatalf("DSN = %q", cfg.DSN())
	}
}

func TestLoadBadTTL(t *testing.T) {
	t.Setenv("TOUR_CACHE_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad TOUR_CACHE_TTL")
	}
}
