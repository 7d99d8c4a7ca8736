// Package client implements the chat client controller: it opens the
// connection, performs the login handshake, forwards typed lines to
// the server, and runs the client command set.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"simplechat/config"
	"simplechat/internal/command"
	ncerr "simplechat/internal/errors"
	"simplechat/internal/protocol"
	"simplechat/internal/retry"
	"simplechat/internal/transport"
	"simplechat/util"
)

// Operator-facing lines.
const (
	msgCannotOpen     = "Cannot open connection. Awaiting command"
	msgConnected      = "Connected to server"
	msgUnableConnect  = "Unable to connect to server"
	msgConnClosed     = "Connection Closed"
	msgNotConnected   = "Could not send message to server, not connected"
	msgSendFailed     = "Could not send message to server.  Terminating client."
	msgHostWhileConn  = "Client already connected to server, cannot change host"
	msgPortWhileConn  = "Client already connected to server, cannot change port"
	msgServerStopped  = "WARNING - The server has stopped listening for connections"
	msgServerShutdown = "SERVER SHUTTING DOWN! DISCONNECTING!"
	msgAbnormal       = "Abnormal termination of connection"
)

// Client holds the connection state and the settings used to open it.
type Client struct {
	mu      sync.Mutex
	host    string
	port    int
	loginID string
	conn    *transport.Conn
	ctx     context.Context

	dialer   transport.Dialer
	opts     transport.Options
	backoff  *retry.Backoff
	commands *command.Interpreter
	display  command.Display
	log      *util.Logger

	done     chan struct{}
	quitOnce sync.Once
}

// New builds a disconnected client from cfg.
func New(cfg *config.Config, dialer transport.Dialer, display command.Display, logger *util.Logger) *Client {
	c := &Client{
		host:    cfg.Host,
		port:    cfg.Port,
		loginID: cfg.LoginID,
		ctx:     context.Background(),
		dialer:  dialer,
		opts: transport.Options{
			MaxLineBytes: cfg.MaxLineBytes,
			SendTimeout:  cfg.SendTimeout,
			Logger:       logger,
		},
		backoff: retry.ForConnect(cfg.ConnectAttempts, cfg.RetryDelay),
		display: display,
		log:     logger.Named("client"),
		done:    make(chan struct{}),
	}
	c.backoff.RetryIf = ncerr.IsRetryable
	c.backoff.OnRetry = func(attempt int, err error, wait time.Duration) {
		c.log.Verbose("attempt %d failed: %v; retrying in %v", attempt, err, wait.Truncate(time.Millisecond))
	}
	c.commands = command.NewInterpreter(display, logger.Named("command"))
	c.registerCommands()
	return c
}

// Host returns the server host.
func (c *Client) Host() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.host
}

// Port returns the server port.
func (c *Client) Port() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port
}

// LoginID returns the identity sent on login.
func (c *Client) LoginID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginID
}

// IsConnected reports whether a live connection is open.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && !c.conn.IsClosed()
}

// Done is closed once the client has quit.
func (c *Client) Done() <-chan struct{} { return c.done }

// Start makes the initial connection attempt.  Failure is reported
// and the client keeps running so the operator can fix host or port.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	if err := c.Open(ctx, c.LoginID()); err != nil {
		c.log.Verbose("initial connect: %v", err)
		c.display.Display(msgCannotOpen)
	}
}

// Open connects to the configured server and logs in as id.  Connection
// attempts follow the retry policy.  id becomes the stored login ID only
// once the handshake has been sent.
func (c *Client) Open(ctx context.Context, id string) error {
	if c.IsConnected() {
		return ncerr.ErrAlreadyConnected
	}
	addr := util.FormatAddr(c.Host(), c.Port())

	var conn *transport.Conn
	err := c.backoff.Do(ctx, func(attempt int) error {
		c.log.Debug("connecting to %s (attempt %d)", addr, attempt)
		var err error
		conn, err = transport.Dial(ctx, c.dialer, addr, c, c.opts)
		return err
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	if err := conn.Send(protocol.LoginLine(id)); err != nil {
		conn.Close()
		return err
	}
	c.mu.Lock()
	c.loginID = id
	c.mu.Unlock()
	c.log.Verbose("connected to %s as %s", addr, id)
	return nil
}

// Close drops the connection, if any, and waits until its closure
// has been reported.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil || conn.IsClosed() {
		return ncerr.ErrNotConnected
	}
	conn.Close()
	<-conn.Done()
	return nil
}

// Quit closes the connection and ends the client.
func (c *Client) Quit() {
	if err := c.Close(); err != nil {
		c.log.Debug("quit: %v", err)
	}
	c.quitOnce.Do(func() { close(c.done) })
}

// Execute runs an operator command line.
func (c *Client) Execute(line string) { c.commands.Execute(line) }

// HandleInput forwards a typed line to the server verbatim.
func (c *Client) HandleInput(line string) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil || conn.IsClosed() {
		c.display.Display(msgNotConnected)
		return
	}
	if err := conn.Send(line); err != nil {
		c.log.Verbose("send: %v", err)
		c.display.Display(msgSendFailed)
		c.Quit()
	}
}

// HandleEvent reports connection activity to the operator.
func (c *Client) HandleEvent(ev transport.Event) {
	switch ev.Kind {
	case transport.EventMessage:
		c.display.Display(ev.Line)

	case transport.EventException:
		c.log.Verbose("connection error: %v", ev.Err)

	case transport.EventDisconnected:
		if !ev.Local {
			c.display.Display(msgServerStopped)
			c.display.Display(msgServerShutdown)
			c.display.Display(msgAbnormal)
		}
		c.display.Display(msgConnClosed)
	}
}

// ── Commands ─────────────────────────────────────────────────────────

func (c *Client) registerCommands() {
	c.commands.Handle("#quit", c.cmdQuit)
	c.commands.Handle("#logoff", c.cmdLogoff)
	c.commands.Handle("#sethost", c.cmdSetHost)
	c.commands.Handle("#setport", c.cmdSetPort)
	c.commands.Handle("#login", c.cmdLogin)
	c.commands.Handle("#gethost", c.cmdGetHost)
	c.commands.Handle("#getport", c.cmdGetPort)
}

func (c *Client) cmdQuit(command.Command) error {
	c.Quit()
	return nil
}

func (c *Client) cmdLogoff(command.Command) error {
	return c.Close()
}

func (c *Client) cmdSetHost(cmd command.Command) error {
	host, err := cmd.RequireArg(0)
	if err != nil {
		return err
	}
	if c.IsConnected() {
		return ncerr.Command(cmd.Name, msgHostWhileConn)
	}
	c.mu.Lock()
	c.host = host
	c.mu.Unlock()
	c.display.Display("Host has been set to: " + host)
	return nil
}

func (c *Client) cmdSetPort(cmd command.Command) error {
	port, err := cmd.PortArg()
	if err != nil {
		return err
	}
	if c.IsConnected() {
		return ncerr.Command(cmd.Name, msgPortWhileConn)
	}
	c.mu.Lock()
	c.port = port
	c.mu.Unlock()
	c.display.Display(fmt.Sprintf("Port has been set to: %d", port))
	return nil
}

func (c *Client) cmdLogin(cmd command.Command) error {
	if c.IsConnected() {
		return ncerr.ErrAlreadyConnected
	}
	id, ok := cmd.Arg(0)
	if !ok {
		id = c.LoginID()
	}
	if id == "" {
		return ncerr.Command(cmd.Name, command.MsgInvalidArgument)
	}

	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()
	if err := c.Open(ctx, id); err != nil {
		c.log.Verbose("login: %v", err)
		return ncerr.Command(cmd.Name, msgUnableConnect)
	}
	c.display.Display(msgConnected)
	return nil
}

func (c *Client) cmdGetHost(command.Command) error {
	c.display.Display("Current host: " + c.Host())
	return nil
}

func (c *Client) cmdGetPort(command.Command) error {
	c.display.Display(fmt.Sprintf("Current port: %d", c.Port()))
	return nil
}
