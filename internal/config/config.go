package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"vocab-quiz-service/internal/domain"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Cache struct {
		TTL string `yaml:"ttl"`
	} `yaml:"cache"`
	Round struct {
		Duration  string `yaml:"duration"`
		Retention string `yaml:"retention"`
	} `yaml:"round"`
	Leaderboard struct {
		Limit int `yaml:"limit"`
	} `yaml:"leaderboard"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// DefaultRoundDuration is the countdown budget of one card.
const DefaultRoundDuration = 30 * time.Second

// Load reads YAML config from path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with. round.duration is
// checked where it is parsed, by RoundDuration.
func (c Config) Validate() error {
	if c.Leaderboard.Limit < 0 {
		return &domain.ConfigurationError{Setting: "leaderboard.limit", Message: "must not be negative"}
	}
	return nil
}

// RoundDuration parses round.duration, defaulting to DefaultRoundDuration.
func (c Config) RoundDuration() (time.Duration, error) {
	if c.Round.Duration == "" {
		return DefaultRoundDuration, nil
	}
	d, err := time.ParseDuration(c.Round.Duration)
	if err != nil {
		return 0, &domain.ConfigurationError{Setting: "round.duration", Message: err.Error()}
	}
	if d <= 0 {
		return 0, &domain.ConfigurationError{Setting: "round.duration", Message: "must be positive"}
	}
	return d, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
