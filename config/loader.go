package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the SIMPLECHAT_ prefix.

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty,
// well-formed env vars override the existing value.  This should be
// called BEFORE CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("SIMPLECHAT_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("SIMPLECHAT_PORT"); v != "" {
		if p, err := ParsePort(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("SIMPLECHAT_LOGIN"); v != "" {
		cfg.LoginID = v
	}
	if v := envInt("SIMPLECHAT_MAX_LINE"); v > 0 {
		cfg.MaxLineBytes = v
	}
	if v := envInt("SIMPLECHAT_SEND_TIMEOUT"); v > 0 {
		cfg.SendTimeout = secondsDuration(v)
	}
	if v := envFloat("SIMPLECHAT_RATE"); v > 0 {
		cfg.RateLimit = v
	}
	if v := envInt("SIMPLECHAT_BURST"); v > 0 {
		cfg.RateBurst = v
	}
	if v := envInt("SIMPLECHAT_CONNECT_ATTEMPTS"); v > 0 {
		cfg.ConnectAttempts = v
	}
	if v := envInt("SIMPLECHAT_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envFloat(key string) float64 {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
