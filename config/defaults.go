package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultPort is used when no port is given or it cannot be parsed.
	DefaultPort = 5555

	// DefaultHost is the server host a client connects to.
	DefaultHost = "localhost"

	// MinPort and MaxPort bound every port the programs accept.
	MinPort = 1
	MaxPort = 65535

	// DefaultDialTimeout bounds a single client connection attempt.
	DefaultDialTimeout = 10 * time.Second

	// DefaultConnectAttempts is how many times the client tries to reach
	// the server before giving up.
	DefaultConnectAttempts = 1

	// DefaultRetryDelay is the initial backoff between connect attempts.
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxLineBytes caps a single protocol line.
	DefaultMaxLineBytes = 64 * 1024

	// MinLineBytes keeps room for a login line.
	MinLineBytes = 256

	// DefaultSendTimeout is the write deadline for a single line so one
	// stalled peer cannot hold up a broadcast.
	DefaultSendTimeout = 5 * time.Second

	// DefaultRateBurst is the flood-limit bucket size when --rate is set.
	DefaultRateBurst = 10
)
