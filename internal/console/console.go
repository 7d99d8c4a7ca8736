// Package console connects an operator's terminal to a chat
// controller: it reads command and chat lines from input and renders
// controller output as "> " prefixed lines.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"simplechat/internal/protocol"
	"simplechat/util"
)

// maxInputLine caps a single operator line.
const maxInputLine = 64 * 1024

// Display writes operator-facing lines.  It is shared by the console
// loop and connection goroutines, so writes are serialised.
type Display struct {
	mu sync.Mutex
	w  io.Writer
}

// NewDisplay returns a Display writing to w.
func NewDisplay(w io.Writer) *Display {
	return &Display{w: w}
}

// Display writes msg as one "> msg" line.
func (d *Display) Display(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.w, "> %s\n", msg)
}

// Handler is the controller side of the console.
type Handler interface {
	// Execute runs a '#' command line.
	Execute(line string)
	// HandleInput handles any other line.
	HandleInput(line string)
	// Done is closed once the controller has quit.
	Done() <-chan struct{}
}

// Interactive reports whether r is a terminal.
func Interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run feeds lines from in to h until h quits or ctx ends.  Blank lines
// are skipped.  End of input on a terminal ends the loop; on a pipe
// or file the controller keeps running until it quits or ctx ends.
func Run(ctx context.Context, in io.Reader, h Handler, logger *util.Logger) error {
	lines := make(chan string)
	eof := make(chan error, 1)

	go func() {
		sc := util.NewLineScanner(in, maxInputLine)
		for sc.Scan() {
			select {
			case lines <- util.TrimLine(sc.Text()):
			case <-ctx.Done():
				return
			case <-h.Done():
				return
			}
		}
		eof <- sc.Err()
	}()

	interactive := Interactive(in)
	for {
		// a quit must win over input that is already queued
		select {
		case <-h.Done():
			return nil
		default:
		}

		select {
		case <-ctx.Done():
			return nil
		case <-h.Done():
			return nil
		case err := <-eof:
			if err != nil {
				logger.Warn("console input: %v", err)
			}
			if interactive {
				return nil
			}
			logger.Verbose("console input closed; running until stopped")
			eof = nil
		case line := <-lines:
			dispatch(h, line)
		}
	}
}

func dispatch(h Handler, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if protocol.IsCommand(line) {
		h.Execute(line)
		return
	}
	h.HandleInput(line)
}
