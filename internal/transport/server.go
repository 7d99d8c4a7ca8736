package transport

import (
	"errors"
	"net"
	"sync"
	"time"

	ncerr "simplechat/internal/errors"
	"simplechat/util"
)

// acceptRetryDelay is the pause after a temporary accept failure.
const acceptRetryDelay = 50 * time.Millisecond

// Server accepts TCP connections and tracks the open set.  Stopping
// the listener leaves existing connections untouched.
type Server struct {
	handler Handler
	opts    Options
	log     *util.Logger

	mu    sync.Mutex
	ln    net.Listener
	conns map[string]*Conn

	acceptWG sync.WaitGroup
	connWG   sync.WaitGroup
}

// NewServer returns a server that reports events to handler.
func NewServer(handler Handler, opts Options) *Server {
	opts = opts.withDefaults()
	return &Server{
		handler: handler,
		opts:    opts,
		log:     opts.Logger.Named("transport"),
		conns:   make(map[string]*Conn),
	}
}

// Listen starts accepting on port (all interfaces).  Port 0 picks a
// free port; see Addr.
func (s *Server) Listen(port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return ncerr.ErrAlreadyListening
	}
	addr := util.ListenAddr(port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return ncerr.Wrap("listen", addr, err)
	}
	s.ln = ln
	s.log.Verbose("listening on %s", ln.Addr())

	s.acceptWG.Add(1)
	go s.acceptLoop(ln)
	return nil
}

// Addr returns the bound listener address, or nil when not listening.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// IsListening reports whether the accept loop is running.
func (s *Server) IsListening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ln != nil
}

// StopListening closes the listener and waits for the accept loop to
// exit.  Open connections keep running.
func (s *Server) StopListening() error {
	s.mu.Lock()
	ln := s.ln
	s.ln = nil
	s.mu.Unlock()

	if ln == nil {
		return ncerr.ErrNotListening
	}
	err := ln.Close()
	s.acceptWG.Wait()
	s.log.Verbose("stopped listening on %s", ln.Addr())
	if err != nil && !ncerr.IsClosed(err) {
		return ncerr.Wrap("close", ln.Addr().String(), err)
	}
	return nil
}

// Conns returns a snapshot of the open connections.
func (s *Server) Conns() []*Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Conn, 0, len(s.conns))
	for _, c := range s.conns {
		out = append(out, c)
	}
	return out
}

// CloseAll closes every open connection.  Each one still delivers its
// own EventDisconnected.
func (s *Server) CloseAll() {
	for _, c := range s.Conns() {
		c.Close()
	}
}

// Shutdown stops listening, closes every connection, and waits for
// all reader goroutines to finish.  It must not be called from a
// Handler.
func (s *Server) Shutdown() {
	if err := s.StopListening(); err != nil && !errors.Is(err, ncerr.ErrNotListening) {
		s.log.Warn("stop listening: %v", err)
	}
	s.CloseAll()
	s.connWG.Wait()
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.acceptWG.Done()

	for {
		raw, err := ln.Accept()
		if err != nil {
			if ncerr.IsClosed(err) {
				return
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.log.Warn("accept: %v; retrying", err)
				time.Sleep(acceptRetryDelay)
				continue
			}
			s.log.Error("accept: %v", err)
			s.mu.Lock()
			if s.ln == ln {
				s.ln = nil
			}
			s.mu.Unlock()
			ln.Close()
			return
		}

		c := newConn(raw, s.handler, s.opts)
		c.release = s.remove

		s.mu.Lock()
		s.conns[c.id] = c
		s.mu.Unlock()

		s.connWG.Add(1)
		go func() {
			defer s.connWG.Done()
			c.serve()
		}()
	}
}

func (s *Server) remove(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c.id)
	s.mu.Unlock()
}
