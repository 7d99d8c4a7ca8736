package util

import (
	"bufio"
	"io"
	"net"
	"strings"
	"testing"
)

func TestNewLineScanner(t *testing.T) {
	sc := NewLineScanner(strings.NewReader("#login alice\r\nhi\nsecond line\n"), 1024)

	var got []string
	for sc.Scan() {
		got = append(got, TrimLine(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	want := []string{"#login alice", "hi", "second line"}
	if len(got) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewLineScanner_TooLong(t *testing.T) {
	long := strings.Repeat("x", 300) + "\n"
	sc := NewLineScanner(strings.NewReader(long), 256)
	if sc.Scan() {
		t.Fatal("expected scan to fail on an oversized line")
	}
	if sc.Err() != bufio.ErrTooLong {
		t.Errorf("err = %v, want bufio.ErrTooLong", sc.Err())
	}
}

func TestIsHarmless(t *testing.T) {
	if !IsHarmless(nil) {
		t.Error("nil should be harmless")
	}
	if !IsHarmless(io.EOF) {
		t.Error("io.EOF should be harmless")
	}
	if !IsHarmless(net.ErrClosed) {
		t.Error("net.ErrClosed should be harmless")
	}
	if IsHarmless(io.ErrUnexpectedEOF) {
		t.Error("ErrUnexpectedEOF should NOT be harmless")
	}
}
