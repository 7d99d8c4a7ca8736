package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadFromEnv_Host(t *testing.T) {
	t.Setenv("SIMPLECHAT_HOST", "chat.example.com")
	cfg := New(ModeClient)
	LoadFromEnv(cfg)
	if cfg.Host != "chat.example.com" {
		t.Errorf("Host = %q, want %q", cfg.Host, "chat.example.com")
	}
}

func TestLoadFromEnv_Port(t *testing.T) {
	t.Setenv("SIMPLECHAT_PORT", "8080")
	cfg := New(ModeServer)
	LoadFromEnv(cfg)
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
}

func TestLoadFromEnv_InvalidPortIgnored(t *testing.T) {
	for _, v := range []string{"not-a-number", "70000", "0"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("SIMPLECHAT_PORT", v)
			cfg := New(ModeServer)
			LoadFromEnv(cfg)
			if cfg.Port != DefaultPort {
				t.Errorf("Port = %d, want default %d", cfg.Port, DefaultPort)
			}
		})
	}
}

func TestLoadFromEnv_Limits(t *testing.T) {
	t.Setenv("SIMPLECHAT_MAX_LINE", "4096")
	t.Setenv("SIMPLECHAT_SEND_TIMEOUT", "2")
	t.Setenv("SIMPLECHAT_RATE", "2.5")
	t.Setenv("SIMPLECHAT_BURST", "4")

	cfg := New(ModeServer)
	LoadFromEnv(cfg)

	if cfg.MaxLineBytes != 4096 {
		t.Errorf("MaxLineBytes = %d", cfg.MaxLineBytes)
	}
	if cfg.SendTimeout != 2*time.Second {
		t.Errorf("SendTimeout = %v", cfg.SendTimeout)
	}
	if cfg.RateLimit != 2.5 {
		t.Errorf("RateLimit = %v", cfg.RateLimit)
	}
	if cfg.RateBurst != 4 {
		t.Errorf("RateBurst = %d", cfg.RateBurst)
	}
}

func TestLoadFromEnv_Client(t *testing.T) {
	t.Setenv("SIMPLECHAT_LOGIN", "alice")
	t.Setenv("SIMPLECHAT_CONNECT_ATTEMPTS", "3")

	cfg := New(ModeClient)
	LoadFromEnv(cfg)

	if cfg.LoginID != "alice" {
		t.Errorf("LoginID = %q", cfg.LoginID)
	}
	if cfg.ConnectAttempts != 3 {
		t.Errorf("ConnectAttempts = %d", cfg.ConnectAttempts)
	}
}

func TestLoadFromEnv_NoOverrideWhenEmpty(t *testing.T) {
	// Ensure no SIMPLECHAT_ vars are set.
	os.Clearenv()

	cfg := &Config{Host: "original", Port: 1234}
	LoadFromEnv(cfg)

	if cfg.Host != "original" {
		t.Errorf("Host was overridden: %q", cfg.Host)
	}
	if cfg.Port != 1234 {
		t.Errorf("Port was overridden: %d", cfg.Port)
	}
}

func TestLoadFromEnv_Verbose(t *testing.T) {
	t.Setenv("SIMPLECHAT_VERBOSE", "3")
	cfg := New(ModeServer)
	LoadFromEnv(cfg)
	if cfg.Verbose != 3 {
		t.Errorf("Verbose = %d, want 3", cfg.Verbose)
	}
}
