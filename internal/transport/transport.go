// Package transport carries newline-delimited text over TCP for the
// chat server and client.  It owns the accept loop, one reader
// goroutine per connection, and line sends; everything that happens
// with the lines is the Handler's job.
//
// Each connection reports its lifecycle as a sequence of Events on its
// reader goroutine, in this order:
//
//	EventConnected, EventMessage*, [EventException], EventDisconnected
//
// EventDisconnected is delivered exactly once per connection, and no
// EventMessage is delivered after the connection has been closed.
package transport

import (
	"context"
	"net"
	"time"

	"simplechat/util"
)

// Dialer opens outbound network connections.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer.
	// Stateless dialers return nil.
	Close() error
}

// ── Events ───────────────────────────────────────────────────────────

// EventKind identifies a connection lifecycle step.
type EventKind int

const (
	EventConnected EventKind = iota
	EventMessage
	EventDisconnected
	EventException
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventMessage:
		return "message"
	case EventDisconnected:
		return "disconnected"
	case EventException:
		return "exception"
	default:
		return "unknown"
	}
}

// Event is one notification from a connection.
type Event struct {
	Kind EventKind
	Conn *Conn
	Line string // EventMessage only, without the line terminator
	Err  error  // EventException only
	// Local is set on EventDisconnected when Close was called on this
	// side before the peer went away.
	Local bool
}

// Handler consumes connection events.  Events for one connection are
// delivered sequentially; events for different connections may arrive
// concurrently.
type Handler interface {
	HandleEvent(ev Event)
}

// ── Options ──────────────────────────────────────────────────────────

// Options tunes every connection created by a Server or by Dial.
type Options struct {
	MaxLineBytes int           // longest accepted inbound line
	SendTimeout  time.Duration // write deadline per Send (0 = none)
	Logger       *util.Logger
}

const defaultMaxLineBytes = 64 * 1024

func (o Options) withDefaults() Options {
	if o.MaxLineBytes <= 0 {
		o.MaxLineBytes = defaultMaxLineBytes
	}
	if o.Logger == nil {
		o.Logger = util.NewLogger(int(util.LogQuiet))
	}
	return o
}
