// Package server implements the chat server controller: the login
// handshake, broadcast, and the operator command set.
package server

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"simplechat/config"
	"simplechat/internal/command"
	ncerr "simplechat/internal/errors"
	"simplechat/internal/metrics"
	"simplechat/internal/protocol"
	"simplechat/internal/session"
	"simplechat/internal/transport"
	"simplechat/util"
)

// Operator-facing lines.
const (
	msgNewClient      = "A new client is attempting to connect to the server"
	msgStarted        = "Server started"
	msgStopped        = "Server has stopped listening for connections"
	msgClosed         = "Server closed"
	msgShutdown       = "Server has shutdown"
	msgListenFailed   = "ERROR - Could not listen for clients!"
	msgPortWhileBound = "Server already running, cannot change port"
)

// Server owns the listen state, the session registry, and the
// operator command interpreter.
type Server struct {
	mu   sync.Mutex
	port int

	net      *transport.Server
	sessions *session.Registry
	commands *command.Interpreter
	display  command.Display
	log      *util.Logger
	metrics  *metrics.Collector

	done     chan struct{}
	quitOnce sync.Once
}

// New builds a server from cfg.  It does not start listening.
func New(cfg *config.Config, display command.Display, logger *util.Logger, m *metrics.Collector) *Server {
	s := &Server{
		port:     cfg.Port,
		sessions: session.NewRegistry(cfg.RateLimit, cfg.RateBurst),
		display:  display,
		log:      logger.Named("server"),
		metrics:  m,
		done:     make(chan struct{}),
	}
	s.net = transport.NewServer(s, transport.Options{
		MaxLineBytes: cfg.MaxLineBytes,
		SendTimeout:  cfg.SendTimeout,
		Logger:       logger,
	})
	s.commands = command.NewInterpreter(display, logger.Named("command"))
	s.registerCommands()
	return s
}

// Port returns the configured port.  After listening on port 0 it is
// the port the kernel picked.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// IsListening reports whether new connections are being accepted.
func (s *Server) IsListening() bool { return s.net.IsListening() }

// Done is closed after #quit.
func (s *Server) Done() <-chan struct{} { return s.done }

// Listen starts accepting on the configured port and announces it.
func (s *Server) Listen() error {
	if err := s.net.Listen(s.Port()); err != nil {
		return err
	}
	if tcp, ok := s.net.Addr().(*net.TCPAddr); ok {
		s.mu.Lock()
		s.port = tcp.Port
		s.mu.Unlock()
	}
	s.display.Display(fmt.Sprintf("Server listening for connections on port %d", s.Port()))
	return nil
}

// Start listens and reports a failure to the operator instead of
// ending the process.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		s.log.Error("listen: %v", err)
		s.metrics.RecordError(err.Error())
		s.display.Display(msgListenFailed)
		return err
	}
	return nil
}

// StopListening stops accepting; open connections stay up.
func (s *Server) StopListening() error {
	if err := s.net.StopListening(); err != nil {
		return err
	}
	s.display.Display(msgStopped)
	return nil
}

// Close stops listening and closes every connection.  The server can
// listen again afterwards.
func (s *Server) Close() {
	if s.IsListening() {
		if err := s.StopListening(); err != nil {
			s.log.Warn("stop listening: %v", err)
		}
	}
	s.net.CloseAll()
}

// Shutdown closes everything and waits for connection teardown.  It
// must not be called from a connection goroutine.
func (s *Server) Shutdown() {
	if s.IsListening() {
		s.display.Display(msgStopped)
	}
	s.net.Shutdown()
	s.log.Verbose("metrics:\n%s", s.metrics.JSON())
}

// Execute runs an operator command line.
func (s *Server) Execute(line string) { s.commands.Execute(line) }

// HandleInput broadcasts an operator chat line to every client.
func (s *Server) HandleInput(line string) {
	msg := protocol.ServerLine(line)
	s.Broadcast(msg)
	s.display.Display(msg)
}

// Broadcast sends line to every open connection and returns how many
// received it.  A connection whose send fails is closed; delivery to
// the rest continues.
func (s *Server) Broadcast(line string) int {
	delivered := 0
	for _, c := range s.net.Conns() {
		if err := c.Send(line); err != nil {
			if ncerr.IsClosed(err) {
				continue
			}
			s.log.Verbose("dropping %s: %v", c.RemoteAddr(), err)
			s.metrics.SendFailed()
			s.metrics.RecordError(err.Error())
			c.Close()
			continue
		}
		delivered++
	}
	s.metrics.Broadcast(delivered, len(line)+1)
	return delivered
}

// ── Connection events ────────────────────────────────────────────────

// HandleEvent drives the per-connection session state machine.
func (s *Server) HandleEvent(ev transport.Event) {
	switch ev.Kind {
	case transport.EventConnected:
		s.sessions.Open(ev.Conn.ID(), ev.Conn.RemoteAddr())
		s.metrics.ConnectionOpened()
		s.display.Display(msgNewClient)

	case transport.EventMessage:
		s.handleLine(ev.Conn, ev.Line)

	case transport.EventException:
		s.log.Verbose("%s: %v", ev.Conn.RemoteAddr(), ev.Err)
		s.metrics.RecordError(ev.Err.Error())
		s.display.Display(fmt.Sprintf("Client %s disconnected", ev.Conn.RemoteAddr()))
		ev.Conn.Close()
		s.teardown(ev.Conn)

	case transport.EventDisconnected:
		s.teardown(ev.Conn)
	}
}

func (s *Server) handleLine(conn *transport.Conn, line string) {
	sess, ok := s.sessions.Get(conn.ID())
	if !ok {
		return
	}
	s.metrics.LineReceived()
	s.display.Display(fmt.Sprintf("Message received: %s from %s", line, sess.Label()))

	if id, isLogin := protocol.ParseLogin(line); isLogin {
		s.login(conn, sess, id)
		return
	}

	id, authed := sess.Identity()
	if !authed {
		s.reject(conn, ncerr.ErrLoginRequired)
		return
	}
	if !sess.Allow() {
		s.metrics.LineDropped()
		if err := conn.Send(ncerr.ErrRateLimited.Error()); err != nil {
			s.log.Debug("rate notice to %s: %v", id, err)
		}
		return
	}
	s.Broadcast(protocol.ChatLine(id, line))
}

func (s *Server) login(conn *transport.Conn, sess *session.Session, id string) {
	switch err := sess.Login(id); {
	case err == nil:
		s.metrics.Login()
		s.log.Verbose("online: %s", strings.Join(s.sessions.Identities(), ", "))
		notice := protocol.JoinNotice(id)
		s.display.Display(notice)
		s.Broadcast(notice)
	case ncerr.Is(err, ncerr.ErrConnClosed):
	default:
		s.reject(conn, err)
	}
}

// reject tells the peer why and closes the connection.  A failed send
// does not stop the close.
func (s *Server) reject(conn *transport.Conn, reason error) {
	s.metrics.ProtocolViolation()
	s.log.Verbose("closing %s: %v", conn.RemoteAddr(), reason)
	if err := conn.Send(reason.Error()); err != nil {
		s.log.Debug("reject notice to %s: %v", conn.RemoteAddr(), err)
	}
	conn.Close()
}

// teardown discards the session and announces the departure under the
// identity, or the peer address when the connection never logged in.
// Only the first call per connection does anything.
func (s *Server) teardown(conn *transport.Conn) {
	sess, ok := s.sessions.Remove(conn.ID())
	if !ok {
		return
	}
	s.metrics.ConnectionClosed()

	who, known := sess.Identity()
	if known {
		s.log.Verbose("online: %s", strings.Join(s.sessions.Identities(), ", "))
	} else {
		who = sess.Addr
	}
	notice := protocol.LeaveNotice(who)
	s.display.Display(notice)
	s.Broadcast(notice)
}

func (s *Server) quit() {
	s.quitOnce.Do(func() { close(s.done) })
}
