package config

import (
	"context"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("unexpected port: %q", cfg.Port)
	}
	if cfg.StorageDriver != "memory" || cfg.SessionDriver != "memory" {
		t.Fatalf("expected memory drivers by default, got %q/%q", cfg.StorageDriver, cfg.SessionDriver)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("unexpected session ttl: %s", cfg.SessionTTL)
	}
	if cfg.RateLimit.Max != 100 || cfg.RateLimit.Window != 15*time.Minute {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("unexpected port: %q", cfg.Port)
	}
	if cfg.StorageDriver != "postgres" {
		t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
	}
	if cfg.RateLimit.Max != 5 {
		t.Fatalf("unexpected rate limit max: %d", cfg.RateLimit.Max)
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("unexpected session ttl: %s", cfg.SessionTTL)
	}
}
