// Package config defines the runtime configuration for simplechat and
// provides the port parser shared by the CLI and the command grammar.
package config

import (
	"fmt"
	"strconv"
	"time"

	ncerr "simplechat/internal/errors"
)

// Mode selects which side of the chat protocol a process runs.
type Mode string

const (
	ModeServer Mode = "server"
	ModeClient Mode = "client"
)

// Config holds every tuneable for a single simplechat process.
type Config struct {
	Mode Mode

	// ── Connection ───────────────────────────────────────────────────
	Host        string // client: server host
	Port        int    // server: listen port; client: server port
	LoginID     string // client: identity sent with #login
	DialTimeout time.Duration

	// ── Server limits ────────────────────────────────────────────────
	MaxLineBytes int           // longest accepted line
	SendTimeout  time.Duration // per-connection write deadline
	RateLimit    float64       // chat lines per second per connection (0 = off)
	RateBurst    int

	// ── Client retry ─────────────────────────────────────────────────
	ConnectAttempts int
	RetryDelay      time.Duration

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// New returns a Config populated with the package defaults.
func New(mode Mode) *Config {
	return &Config{
		Mode:            mode,
		Host:            DefaultHost,
		Port:            DefaultPort,
		DialTimeout:     DefaultDialTimeout,
		MaxLineBytes:    DefaultMaxLineBytes,
		SendTimeout:     DefaultSendTimeout,
		RateBurst:       DefaultRateBurst,
		ConnectAttempts: DefaultConnectAttempts,
		RetryDelay:      DefaultRetryDelay,
		Verbose:         1,
	}
}

// Addr returns "host:port" for the client, ":port" for the server.
func (c *Config) Addr() string {
	if c.Mode == ModeServer {
		return fmt.Sprintf(":%d", c.Port)
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ── Port helpers ─────────────────────────────────────────────────────

// PortError reports which validation step rejected a port argument.
type PortError struct {
	Input  string
	NotInt bool // false means the value parsed but is out of range
	Parsed int
}

func (e *PortError) Error() string {
	if e.NotInt {
		return fmt.Sprintf("invalid port %q", e.Input)
	}
	return fmt.Sprintf("port %d out of range %d-%d", e.Parsed, MinPort, MaxPort)
}

// ParsePort parses a decimal port and checks it lies in [1,65535].
// The integer check runs before the range check.
func ParsePort(spec string) (int, error) {
	port, err := strconv.Atoi(spec)
	if err != nil {
		return 0, &PortError{Input: spec, NotInt: true}
	}
	if port < MinPort || port > MaxPort {
		return 0, &PortError{Input: spec, Parsed: port}
	}
	return port, nil
}

// PortOrDefault returns the parsed port, or DefaultPort when spec is
// empty or unusable.
func PortOrDefault(spec string) int {
	if spec == "" {
		return DefaultPort
	}
	port, err := ParsePort(spec)
	if err != nil {
		return DefaultPort
	}
	return port
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeServer, ModeClient:
	default:
		return &ncerr.ConfigError{
			Field:   "mode",
			Value:   string(c.Mode),
			Message: "unknown mode",
			Hint:    "use 'simplechat server' or 'simplechat client'",
		}
	}

	if c.Port < MinPort || c.Port > MaxPort {
		return &ncerr.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: fmt.Sprintf("out of range %d-%d", MinPort, MaxPort),
			Hint:    fmt.Sprintf("omit the port to use %d", DefaultPort),
		}
	}

	if c.Mode == ModeClient {
		if c.Host == "" {
			return &ncerr.ConfigError{Field: "host", Message: "required in client mode"}
		}
		if c.ConnectAttempts < 1 {
			return &ncerr.ConfigError{
				Field:   "connect-attempts",
				Value:   c.ConnectAttempts,
				Message: "must be at least 1",
			}
		}
	}

	if c.MaxLineBytes < MinLineBytes {
		return &ncerr.ConfigError{
			Field:   "max-line",
			Value:   c.MaxLineBytes,
			Message: fmt.Sprintf("must be at least %d bytes", MinLineBytes),
		}
	}

	if c.RateLimit < 0 {
		return &ncerr.ConfigError{
			Field:   "rate",
			Value:   c.RateLimit,
			Message: "cannot be negative",
			Hint:    "use 0 to disable flood limiting",
		}
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return &ncerr.ConfigError{
			Field:   "burst",
			Value:   c.RateBurst,
			Message: "must be at least 1 when --rate is set",
		}
	}

	return nil
}
