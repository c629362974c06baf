// Package config builds runtime configuration from the environment so main
// stays lean. Validation business constants live here too: the reconciliation
// rules treat them as configuration, not hard-coded policy.
package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
}

// Postgres configures the report store. An empty DSN disables persistence
// and the service falls back to the in-memory store.
type Postgres struct {
	DSN string
}

// Redis configures the report cache tier. Empty URL disables caching.
type Redis struct {
	URL      string
	CacheTTL time.Duration
}

// Kafka configures the audit event publisher. Empty Brokers disables it.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Validation holds the reconciliation business constants. The original
// system baked these into code; they are deliberate business decisions
// (notably the future-dated report leniency and the graduated-licensing
// cutoff) and must only change with domain sign-off.
type Validation struct {
	// GraduatedCutoff is the start of the graduated licensing program.
	// Licences issued before it never had G1/G2 stages.
	GraduatedCutoff time.Time

	// ClaimWindowYears bounds which claims are reportable at all.
	ClaimWindowYears int

	// DASHMaxAgeDays and MVRMaxAgeDays bound supporting-report age
	// relative to the quote effective date.
	DASHMaxAgeDays int
	MVRMaxAgeDays  int

	// AcceptFutureReports keeps reports dated after the quote effective
	// date acceptable (clock-skew tolerance inherited from the original
	// system).
	AcceptFutureReports bool

	// FuzzyThreshold is the minimum normalized similarity for a
	// conviction description match.
	FuzzyThreshold float64

	// ActiveLicenceStatus is the MVR status value required for an
	// insurable driver.
	ActiveLicenceStatus string
}

// Config is the top-level runtime configuration.
type Config struct {
	Server     Server
	Postgres   Postgres
	Redis      Redis
	Kafka      Kafka
	Validation Validation
}

// DefaultValidation returns the production rule constants.
func DefaultValidation() Validation {
	return Validation{
		GraduatedCutoff:     time.Date(1994, time.April, 1, 0, 0, 0, 0, time.UTC),
		ClaimWindowYears:    9,
		DASHMaxAgeDays:      45,
		MVRMaxAgeDays:       30,
		AcceptFutureReports: true,
		FuzzyThreshold:      0.8,
		ActiveLicenceStatus: "LICENCED",
	}
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Server: Server{
			Addr: envOr("QUOTEGUARD_ADDR", ":8080"),
		},
		Postgres: Postgres{
			DSN: os.Getenv("QUOTEGUARD_POSTGRES_DSN"),
		},
		Redis: Redis{
			URL:      os.Getenv("QUOTEGUARD_REDIS_URL"),
			CacheTTL: envDuration("QUOTEGUARD_REPORT_CACHE_TTL", 15*time.Minute),
		},
		Kafka: Kafka{
			Brokers: splitNonEmpty(os.Getenv("QUOTEGUARD_KAFKA_BROKERS")),
			Topic:   envOr("QUOTEGUARD_KAFKA_AUDIT_TOPIC", "quoteguard.audit"),
		},
		Validation: DefaultValidation(),
	}

	if v := os.Getenv("QUOTEGUARD_GRADUATED_CUTOFF"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			cfg.Validation.GraduatedCutoff = t
		}
	}
	cfg.Validation.ClaimWindowYears = envInt("QUOTEGUARD_CLAIM_WINDOW_YEARS", cfg.Validation.ClaimWindowYears)
	cfg.Validation.DASHMaxAgeDays = envInt("QUOTEGUARD_DASH_MAX_AGE_DAYS", cfg.Validation.DASHMaxAgeDays)
	cfg.Validation.MVRMaxAgeDays = envInt("QUOTEGUARD_MVR_MAX_AGE_DAYS", cfg.Validation.MVRMaxAgeDays)
	if v := os.Getenv("QUOTEGUARD_ACCEPT_FUTURE_REPORTS"); v != "" {
		cfg.Validation.AcceptFutureReports = v == "true"
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			if i > start {
				out = append(out, v[start:i])
			}
			start = i + 1
		}
	}
	return out
}
