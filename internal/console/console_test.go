package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simplechat/util"
)

type fakeHandler struct {
	mu       sync.Mutex
	commands []string
	inputs   []string
	done     chan struct{}
	quitOn   string
}

func newFakeHandler() *fakeHandler {
	return &fakeHandler{done: make(chan struct{})}
}

func (f *fakeHandler) Execute(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, line)
	if line == f.quitOn {
		close(f.done)
	}
}

func (f *fakeHandler) HandleInput(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, line)
}

func (f *fakeHandler) Done() <-chan struct{} { return f.done }

func quietLogger() *util.Logger {
	l := util.NewLogger(0)
	l.SetOutput(io.Discard)
	return l
}

func TestDisplay(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplay(&buf)
	d.Display("Server started")
	d.Display("alice: hi")
	assert.Equal(t, "> Server started\n> alice: hi\n", buf.String())
}

func TestRun_RoutesLines(t *testing.T) {
	h := newFakeHandler()
	h.quitOn = "#quit"
	in := strings.NewReader("#getport\nhello there\n\n   \n#setport 6000\r\n#quit\nnever read\n")

	err := Run(context.Background(), in, h, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"#getport", "#setport 6000", "#quit"}, h.commands)
	assert.Equal(t, []string{"hello there"}, h.inputs)
}

func TestRun_PipeEOFKeepsRunning(t *testing.T) {
	h := newFakeHandler()
	ctx, cancel := context.WithCancel(context.Background())

	result := make(chan error, 1)
	go func() { result <- Run(ctx, strings.NewReader("hi\n"), h, quietLogger()) }()

	select {
	case <-result:
		t.Fatal("Run returned on end of piped input")
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, []string{"hi"}, h.inputs)
}

func TestInteractive_NonFile(t *testing.T) {
	assert.False(t, Interactive(strings.NewReader("")))
}
