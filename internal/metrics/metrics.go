// Package metrics provides lightweight, lock-free counters and gauges
// for tracking runtime statistics of a chat server.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for a chat server.
// A nil Collector is safe to use; all methods become no-ops.
type Collector struct {
	connectionsActive  atomic.Int64
	connectionsTotal   atomic.Int64
	logins             atomic.Int64
	linesIn            atomic.Int64
	broadcasts         atomic.Int64
	linesDelivered     atomic.Int64
	bytesOut           atomic.Int64
	sendFailures       atomic.Int64
	linesDropped       atomic.Int64
	protocolViolations atomic.Int64
	errorsTotal        atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Connection metrics ───────────────────────────────────────────────

// ConnectionOpened increments both the active and total counters.
func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(1)
	c.connectionsTotal.Add(1)
}

// ConnectionClosed decrements the active connection counter.
func (c *Collector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(-1)
}

// ActiveConnections returns the current number of open connections.
func (c *Collector) ActiveConnections() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsActive.Load()
}

// TotalConnections returns the lifetime connection count.
func (c *Collector) TotalConnections() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsTotal.Load()
}

// Login records a successful handshake.
func (c *Collector) Login() {
	if c == nil {
		return
	}
	c.logins.Add(1)
}

// Logins returns the number of successful handshakes.
func (c *Collector) Logins() int64 {
	if c == nil {
		return 0
	}
	return c.logins.Load()
}

// ── Traffic metrics ──────────────────────────────────────────────────

// LineReceived records one inbound protocol line.
func (c *Collector) LineReceived() {
	if c == nil {
		return
	}
	c.linesIn.Add(1)
}

// LinesReceived returns the total inbound line count.
func (c *Collector) LinesReceived() int64 {
	if c == nil {
		return 0
	}
	return c.linesIn.Load()
}

// Broadcast records one fan-out that reached delivered connections
// with n bytes each.
func (c *Collector) Broadcast(delivered int, n int) {
	if c == nil {
		return
	}
	c.broadcasts.Add(1)
	c.linesDelivered.Add(int64(delivered))
	c.bytesOut.Add(int64(delivered) * int64(n))
}

// Broadcasts returns the number of fan-outs performed.
func (c *Collector) Broadcasts() int64 {
	if c == nil {
		return 0
	}
	return c.broadcasts.Load()
}

// LinesDelivered returns the number of per-connection deliveries.
func (c *Collector) LinesDelivered() int64 {
	if c == nil {
		return 0
	}
	return c.linesDelivered.Load()
}

// TotalBytesOut returns total bytes sent by broadcasts.
func (c *Collector) TotalBytesOut() int64 {
	if c == nil {
		return 0
	}
	return c.bytesOut.Load()
}

// SendFailed records a delivery that failed and dropped its peer.
func (c *Collector) SendFailed() {
	if c == nil {
		return
	}
	c.sendFailures.Add(1)
}

// SendFailures returns the number of failed deliveries.
func (c *Collector) SendFailures() int64 {
	if c == nil {
		return 0
	}
	return c.sendFailures.Load()
}

// LineDropped records a chat line refused by the flood limit.
func (c *Collector) LineDropped() {
	if c == nil {
		return
	}
	c.linesDropped.Add(1)
}

// LinesDropped returns the number of rate-limited lines.
func (c *Collector) LinesDropped() int64 {
	if c == nil {
		return 0
	}
	return c.linesDropped.Load()
}

// ProtocolViolation records a connection closed for breaking the
// login handshake.
func (c *Collector) ProtocolViolation() {
	if c == nil {
		return
	}
	c.protocolViolations.Add(1)
}

// ProtocolViolations returns the number of handshake violations.
func (c *Collector) ProtocolViolations() int64 {
	if c == nil {
		return 0
	}
	return c.protocolViolations.Load()
}

// ── Error metrics ────────────────────────────────────────────────────

// RecordError increments the error counter and stores the message.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.errorsTotal.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ErrorCount returns the total number of errors recorded.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.errorsTotal.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime             string `json:"uptime"`
	ConnectionsActive  int64  `json:"connections_active"`
	ConnectionsTotal   int64  `json:"connections_total"`
	Logins             int64  `json:"logins"`
	LinesIn            int64  `json:"lines_in"`
	Broadcasts         int64  `json:"broadcasts"`
	LinesDelivered     int64  `json:"lines_delivered"`
	BytesOut           int64  `json:"bytes_out"`
	SendFailures       int64  `json:"send_failures"`
	LinesDropped       int64  `json:"lines_dropped"`
	ProtocolViolations int64  `json:"protocol_violations"`
	ErrorsTotal        int64  `json:"errors_total"`
	LastError          string `json:"last_error,omitempty"`
	LastErrorMessage   string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:             time.Since(c.startTime).Truncate(time.Second).String(),
		ConnectionsActive:  c.connectionsActive.Load(),
		ConnectionsTotal:   c.connectionsTotal.Load(),
		Logins:             c.logins.Load(),
		LinesIn:            c.linesIn.Load(),
		Broadcasts:         c.broadcasts.Load(),
		LinesDelivered:     c.linesDelivered.Load(),
		BytesOut:           c.bytesOut.Load(),
		SendFailures:       c.sendFailures.Load(),
		LinesDropped:       c.linesDropped.Load(),
		ProtocolViolations: c.protocolViolations.Load(),
		ErrorsTotal:        c.errorsTotal.Load(),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
