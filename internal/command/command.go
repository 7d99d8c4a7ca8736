// Package command implements the operator command grammar shared by
// the chat server and client consoles.
//
// A command line starts with '#'.  It is split on whitespace; the first
// token (case-sensitive, '#' included) names the command and the rest
// are positional arguments.  Dispatch never returns an error: every
// failure becomes exactly one line on the display sink.
package command

import (
	"sort"
	"strings"

	"simplechat/config"
	ncerr "simplechat/internal/errors"
	"simplechat/util"
)

// Operator-facing rejection lines.
const (
	MsgInvalidCommand  = "Invalid Command"
	MsgInvalidArgument = "Invalid Command Argument"
	MsgPortNotInteger  = "Port is not an integer, cannot change port"
	MsgPortOutOfRange  = "Port is not a valid port number, cannot change port"
)

// Command is a parsed command line.
type Command struct {
	Name string
	Args []string
}

// Parse splits line into a Command.  ok is false for blank lines.
func Parse(line string) (cmd Command, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, false
	}
	return Command{Name: fields[0], Args: fields[1:]}, true
}

// Arg returns the i-th argument, or false if it is absent.
func (c Command) Arg(i int) (string, bool) {
	if i < 0 || i >= len(c.Args) {
		return "", false
	}
	return c.Args[i], true
}

// RequireArg returns the i-th argument or an "Invalid Command Argument"
// rejection.
func (c Command) RequireArg(i int) (string, error) {
	v, ok := c.Arg(i)
	if !ok {
		return "", ncerr.Command(c.Name, MsgInvalidArgument)
	}
	return v, nil
}

// PortArg validates the first argument as a port.  Checks run in a
// fixed order and the first failure wins: present, integer, in range.
func (c Command) PortArg() (int, error) {
	raw, err := c.RequireArg(0)
	if err != nil {
		return 0, err
	}
	port, err := config.ParsePort(raw)
	if err != nil {
		var pe *config.PortError
		if ncerr.As(err, &pe) && pe.NotInt {
			return 0, ncerr.Command(c.Name, MsgPortNotInteger)
		}
		return 0, ncerr.Command(c.Name, MsgPortOutOfRange)
	}
	return port, nil
}

// ── Interpreter ──────────────────────────────────────────────────────

// Display is the sink every command result is written to.
type Display interface {
	Display(msg string)
}

// DisplayFunc adapts a plain function to Display.
type DisplayFunc func(msg string)

// Display calls f(msg).
func (f DisplayFunc) Display(msg string) { f(msg) }

// HandlerFunc runs one command.  A non-nil error is shown to the
// operator as a single line and must leave state untouched.
type HandlerFunc func(cmd Command) error

// Interpreter dispatches command lines to registered handlers.
type Interpreter struct {
	handlers map[string]HandlerFunc
	display  Display
	logger   *util.Logger
}

// NewInterpreter returns an interpreter with no commands registered.
func NewInterpreter(display Display, logger *util.Logger) *Interpreter {
	return &Interpreter{
		handlers: make(map[string]HandlerFunc),
		display:  display,
		logger:   logger,
	}
}

// Handle registers fn under name.  A later registration replaces an
// earlier one.
func (in *Interpreter) Handle(name string, fn HandlerFunc) {
	in.handlers[name] = fn
}

// Names returns the registered command names in sorted order.
func (in *Interpreter) Names() []string {
	names := make([]string, 0, len(in.handlers))
	for n := range in.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Execute parses and runs line.  Unknown commands, argument errors,
// handler errors, and handler panics are all absorbed here.
func (in *Interpreter) Execute(line string) {
	cmd, ok := Parse(line)
	if !ok {
		return
	}
	fn, found := in.handlers[cmd.Name]
	if !found {
		in.logger.Info("unknown command %q (available: %s)", cmd.Name, strings.Join(in.Names(), " "))
		in.display.Display(MsgInvalidCommand)
		return
	}
	if err := in.run(fn, cmd); err != nil {
		in.logger.Debug("%s rejected: %v", cmd.Name, err)
		in.display.Display(ncerr.DisplayText(err))
	}
}

func (in *Interpreter) run(fn HandlerFunc, cmd Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			in.logger.Error("%s panicked: %v", cmd.Name, r)
			err = ncerr.Command(cmd.Name, "Error executing "+cmd.Name)
		}
	}()
	return fn(cmd)
}
