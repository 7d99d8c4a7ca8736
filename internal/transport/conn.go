package transport

import (
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	ncerr "simplechat/internal/errors"
	"simplechat/util"
)

// Conn is one open chat connection.  Send and Close are safe to call
// from any goroutine.
type Conn struct {
	id      string
	raw     net.Conn
	handler Handler
	opts    Options
	log     *util.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
	closed    chan struct{}
	done      chan struct{}

	// release runs after the connection is closed and before
	// EventDisconnected is delivered.
	release func(*Conn)
}

func newConn(raw net.Conn, handler Handler, opts Options) *Conn {
	id := uuid.NewString()
	return &Conn{
		id:      id,
		raw:     raw,
		handler: handler,
		opts:    opts,
		log:     opts.Logger.Named("conn " + id[:8]),
		closed:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string { return c.id }

// RemoteAddr returns the peer address as a string.
func (c *Conn) RemoteAddr() string { return c.raw.RemoteAddr().String() }

// Send writes line followed by a newline.  Concurrent sends never
// interleave within a line.
func (c *Conn) Send(line string) error {
	if c.IsClosed() {
		return ncerr.ErrConnClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.opts.SendTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.opts.SendTimeout))
	}
	if _, err := io.WriteString(c.raw, line+"\n"); err != nil {
		return ncerr.Wrap("write", c.RemoteAddr(), err)
	}
	return nil
}

// Close shuts the connection.  It is idempotent; the reader goroutine
// notices and delivers EventDisconnected.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.closeErr = c.raw.Close()
	})
	return c.closeErr
}

// IsClosed reports whether Close has been called.
func (c *Conn) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// Done is closed once EventDisconnected has been handled.
func (c *Conn) Done() <-chan struct{} { return c.done }

// serve is the connection's reader loop.  It owns event delivery.
func (c *Conn) serve() {
	defer close(c.done)

	c.log.Debug("open from %s", c.RemoteAddr())
	c.emit(Event{Kind: EventConnected})

	sc := util.NewLineScanner(c.raw, c.opts.MaxLineBytes)
	for sc.Scan() {
		if c.IsClosed() {
			break
		}
		c.emit(Event{Kind: EventMessage, Line: util.TrimLine(sc.Text())})
	}

	local := c.IsClosed()
	if err := sc.Err(); err != nil && !local && !util.IsHarmless(err) {
		c.log.Debug("read: %v", err)
		c.emit(Event{Kind: EventException, Err: ncerr.Wrap("read", c.RemoteAddr(), err)})
	}

	c.Close()
	if c.release != nil {
		c.release(c)
	}
	c.log.Debug("closed (local=%v)", local)
	c.emit(Event{Kind: EventDisconnected, Local: local})
}

func (c *Conn) emit(ev Event) {
	ev.Conn = c
	c.handler.HandleEvent(ev)
}
