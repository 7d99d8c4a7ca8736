package core

import (
	"fmt"

	"simplechat/config"
	"simplechat/internal/metrics"
	"simplechat/internal/transport"
	"simplechat/util"
)

// Build constructs the appropriate Mode from the given configuration.
func Build(cfg *config.Config, logger *util.Logger) (Mode, error) {
	switch cfg.Mode {
	case config.ModeServer:
		return &ServerMode{
			Config:  cfg,
			Logger:  logger,
			Metrics: metrics.New(),
		}, nil
	case config.ModeClient:
		return &ClientMode{
			Config: cfg,
			Dialer: buildDialer(cfg),
			Logger: logger,
		}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

// buildDialer creates the transport.Dialer for client mode.
func buildDialer(cfg *config.Config) transport.Dialer {
	return &transport.TCPDialer{Timeout: cfg.DialTimeout}
}
