package core

import (
	"context"

	"simplechat/config"
	"simplechat/internal/console"
	"simplechat/internal/metrics"
	"simplechat/internal/server"
	"simplechat/util"
)

// ServerMode runs the chat server with an operator console.
type ServerMode struct {
	Config  *config.Config
	Logger  *util.Logger
	Metrics *metrics.Collector
	stdio
}

// Run starts listening and serves operator input until #quit or ctx
// is cancelled.  A failed initial listen is reported and the console
// stays up so the operator can pick another port.
func (m *ServerMode) Run(ctx context.Context) error {
	display := console.NewDisplay(m.stdout())
	srv := server.New(m.Config, display, m.Logger, m.Metrics)

	if err := srv.Start(); err != nil {
		m.Logger.Warn("initial listen failed; waiting for #start")
	}

	err := console.Run(ctx, m.stdin(), srv, m.Logger)

	select {
	case <-srv.Done():
	default:
		srv.Shutdown()
	}
	return err
}
