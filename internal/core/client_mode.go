package core

import (
	"context"

	"simplechat/config"
	"simplechat/internal/client"
	"simplechat/internal/console"
	"simplechat/internal/transport"
	"simplechat/util"
)

// ClientMode runs the chat client with an operator console.
type ClientMode struct {
	Config *config.Config
	Dialer transport.Dialer
	Logger *util.Logger
	stdio
}

// Run connects, logs in, and forwards operator input until #quit or
// ctx is cancelled.
func (m *ClientMode) Run(ctx context.Context) error {
	defer m.Dialer.Close()

	display := console.NewDisplay(m.stdout())
	cl := client.New(m.Config, m.Dialer, display, m.Logger)
	cl.Start(ctx)

	err := console.Run(ctx, m.stdin(), cl, m.Logger)
	cl.Quit()
	return err
}
