package util

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
)

// NewLineScanner returns a scanner that splits r into newline-delimited
// lines of at most maxLine bytes.
func NewLineScanner(r io.Reader, maxLine int) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	initial := 4096
	if maxLine < initial {
		initial = maxLine
	}
	sc.Buffer(make([]byte, initial), maxLine)
	return sc
}

// TrimLine strips the trailing carriage return left by CRLF peers.
func TrimLine(s string) string {
	return strings.TrimSuffix(s, "\r")
}

// IsHarmless returns true for errors that are expected during shutdown.
func IsHarmless(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	// net.OpError wrapping "use of closed network connection"
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return false
}
