package transport

import (
	"context"
	"net"
	"time"

	ncerr "simplechat/internal/errors"
)

// TCPDialer establishes plain TCP connections.
type TCPDialer struct {
	Timeout time.Duration
}

// Dial connects to address over TCP.
func (d *TCPDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	dialer := net.Dialer{Timeout: d.Timeout}
	return dialer.DialContext(ctx, network, address)
}

// Close is a no-op for stateless TCP dialers.
func (d *TCPDialer) Close() error { return nil }

// Dial opens a connection to addr with d and starts its reader.  The
// returned Conn reports its events to handler.
func Dial(ctx context.Context, d Dialer, addr string, handler Handler, opts Options) (*Conn, error) {
	raw, err := d.Dial(ctx, "tcp", addr)
	if err != nil {
		return nil, ncerr.Wrap("dial", addr, err)
	}
	c := newConn(raw, handler, opts.withDefaults())
	go c.serve()
	return c, nil
}
