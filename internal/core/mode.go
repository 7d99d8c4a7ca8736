// Package core is the orchestration layer.  It composes the console,
// the controllers, and the transport into complete runnable modes and
// provides a builder that selects the right mode from a Config.
//
// Architecture layers (bottom → top):
//
//	transport  →  session  →  server | client  →  console  →  core  →  cmd (CLI)
package core

import (
	"context"
	"io"
	"os"
)

// Mode represents a complete operational mode of simplechat (server or
// client).  Each mode owns its full lifecycle from startup to
// teardown.
type Mode interface {
	Run(ctx context.Context) error
}

// stdio holds the operator streams of a mode.  Nil fields fall back to
// the process's standard streams.
type stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
}

func (s stdio) stdin() io.Reader {
	if s.Stdin != nil {
		return s.Stdin
	}
	return os.Stdin
}

func (s stdio) stdout() io.Writer {
	if s.Stdout != nil {
		return s.Stdout
	}
	return os.Stdout
}
