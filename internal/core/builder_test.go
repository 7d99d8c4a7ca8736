package core

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"simplechat/config"
	"simplechat/internal/transport"
	"simplechat/util"
)

func quietLogger() *util.Logger {
	l := util.NewLogger(0)
	l.SetOutput(io.Discard)
	return l
}

// TestBuild_Server verifies that Build produces a ServerMode.
func TestBuild_Server(t *testing.T) {
	mode, err := Build(config.New(config.ModeServer), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	sm, ok := mode.(*ServerMode)
	if !ok {
		t.Fatalf("expected *ServerMode, got %T", mode)
	}
	if sm.Metrics == nil {
		t.Error("server mode should carry a metrics collector")
	}
}

// TestBuild_Client verifies Build produces a ClientMode with a TCP dialer.
func TestBuild_Client(t *testing.T) {
	cfg := config.New(config.ModeClient)
	cfg.LoginID = "alice"
	cfg.DialTimeout = 3 * time.Second

	mode, err := Build(cfg, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	cm, ok := mode.(*ClientMode)
	if !ok {
		t.Fatalf("expected *ClientMode, got %T", mode)
	}
	d, ok := cm.Dialer.(*transport.TCPDialer)
	if !ok {
		t.Fatalf("expected *TCPDialer, got %T", cm.Dialer)
	}
	if d.Timeout != 3*time.Second {
		t.Errorf("dial timeout = %v", d.Timeout)
	}
}

// TestBuild_UnknownMode verifies Build rejects an unset mode.
func TestBuild_UnknownMode(t *testing.T) {
	if _, err := Build(&config.Config{}, quietLogger()); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

// TestServerMode_Run drives a server through its console until #quit.
func TestServerMode_Run(t *testing.T) {
	cfg := config.New(config.ModeServer)
	cfg.Port = 0

	var out bytes.Buffer
	m := &ServerMode{Config: cfg, Logger: quietLogger()}
	m.Stdin = strings.NewReader("#getport\n#stop\n#quit\n")
	m.Stdout = &out

	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server mode did not quit")
	}

	got := out.String()
	for _, want := range []string{
		"> Server listening for connections on port ",
		"> Current port: ",
		"> Server has stopped listening for connections\n",
		"> Server has shutdown\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

// TestServerMode_ContextCancel verifies the server stops with ctx.
func TestServerMode_ContextCancel(t *testing.T) {
	cfg := config.New(config.ModeServer)
	cfg.Port = 0

	m := &ServerMode{Config: cfg, Logger: quietLogger()}
	m.Stdin = strings.NewReader("")
	m.Stdout = io.Discard

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server mode ignored cancellation")
	}
}

// TestClientMode_Run connects to a local listener, logs in, relays one
// line, and quits.
func TestClientMode_Run(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	received := make(chan string, 4)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			received <- sc.Text()
		}
	}()

	cfg := config.New(config.ModeClient)
	cfg.Host = "127.0.0.1"
	cfg.Port = ln.Addr().(*net.TCPAddr).Port
	cfg.LoginID = "alice"

	var out bytes.Buffer
	m := &ClientMode{Config: cfg, Dialer: &transport.TCPDialer{Timeout: time.Second}, Logger: quietLogger()}
	m.Stdin = strings.NewReader("hello\n#quit\n")
	m.Stdout = &out

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, want := range []string{"#login alice", "hello"} {
		select {
		case got := <-received:
			if got != want {
				t.Errorf("server got %q, want %q", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("server never received %q", want)
		}
	}
	if !strings.Contains(out.String(), "> Connection Closed") {
		t.Errorf("output missing close notice:\n%s", out.String())
	}
}
