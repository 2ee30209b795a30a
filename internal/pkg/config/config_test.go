package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const longSecret = "0123456789abcdef0123456789abcdef"

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET": longSecret,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Session.TTL != 24*time.Hour || cfg.Session.LookupTimeout != 2*time.Second {
		t.Errorf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.ModerationWorkers != 4 || cfg.RateLimit.LoginPerMinute != 10 {
		t.Errorf("unexpected worker/rate defaults: %d/%d", cfg.ModerationWorkers, cfg.RateLimit.LoginPerMinute)
	}
	if !cfg.IsProduction() {
		t.Error("unset APP_ENV must be treated as production")
	}
}

func TestLoadWith_MissingSecret(t *testing.T) {
	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatal("expected error when SESSION_SECRET is missing")
	}
}

func TestLoadWith_ShortSecretRejectedInProduction(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET": "short",
		"APP_ENV":        "production",
	}))
	if err == nil || !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Fatalf("expected secret length error, got %v", err)
	}

	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET": "short",
		"APP_ENV":        "development",
	}))
	if err != nil {
		t.Fatalf("short secret should be accepted in development: %v", err)
	}
	if cfg.IsProduction() {
		t.Error("development must not be production")
	}
}

func TestIsProduction(t *testing.T) {
	cases := map[string]bool{
		"":            true,
		"production":  true,
		"staging":     true,
		"prod":        true,
		"development": false,
		"Development": false,
		"test":        false,
		"dev":         true,
	}
	for env, want := range cases {
		c := &Config{Env: env}
		if got := c.IsProduction(); got != want {
			t.Errorf("IsProduction(%q) = %v, want %v", env, got, want)
		}
	}
}
