package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vocab-quiz-service/internal/domain"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	d, err := cfg.RoundDuration()
	if err != nil || d != DefaultRoundDuration {
		t.Fatalf("expected default duration, got %v %v", d, err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
redis:
  addr: localhost:6379
  ttl: 45m
postgres:
  url: postgres://vocab@localhost/vocab
round:
  duration: 20s
  retention: 10m
leaderboard:
  limit: 15
log:
  level: debug
  format: text
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Leaderboard.Limit != 15 || cfg.Log.Format != "text" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if d, _ := cfg.RoundDuration(); d != 20*time.Second {
		t.Fatalf("expected 20s, got %v", d)
	}
	if d := TTLDuration(cfg.Round.Retention, time.Hour); d != 10*time.Minute {
		t.Fatalf("expected 10m retention, got %v", d)
	}
	if ttl := TTLDuration(cfg.Redis.TTL, time.Minute); ttl != 45*time.Minute {
		t.Fatalf("expected 45m, got %v", ttl)
	}
	if ttl := TTLDuration(cfg.Cache.TTL, time.Minute); ttl != time.Minute {
		t.Fatalf("expected fallback, got %v", ttl)
	}
}

func TestValidateRejectsBadSettings(t *testing.T) {
	for _, raw := range []string{"0s", "-5s", "soon"} {
		var cfg Config
		cfg.Round.Duration = raw
		var cfgErr *domain.ConfigurationError
		if _, err := cfg.RoundDuration(); !errors.As(err, &cfgErr) || cfgErr.Setting != "round.duration" {
			t.Fatalf("duration %q: expected configuration error, got %v", raw, err)
		}
	}

	var cfg Config
	cfg.Leaderboard.Limit = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected negative limit to be rejected")
	}
}
