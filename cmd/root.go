// Package cmd wires up the CLI flags and dispatches to the chat core.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"simplechat/config"
	"simplechat/internal/core"
	"simplechat/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X simplechat/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// usageOut receives help and version text.
var usageOut io.Writer = os.Stderr //nolint:gochecknoglobals

// Execute parses args and runs the selected simplechat mode.
func Execute(ctx context.Context, args []string) error {
	mode, _, err := parse(args)
	if err != nil || mode == nil {
		return err
	}
	return mode.Run(ctx)
}

// parse turns args into a runnable mode.  A nil mode with a nil error
// means help or version was printed.
func parse(args []string) (core.Mode, *config.Config, error) {
	if len(args) == 0 {
		printUsage(nil)
		return nil, nil, nil
	}

	var cfg *config.Config
	switch args[0] {
	case "server":
		cfg = config.New(config.ModeServer)
	case "client":
		cfg = config.New(config.ModeClient)
	case "--version", "version":
		fmt.Fprintf(usageOut, "simplechat %s\n", version)
		return nil, nil, nil
	case "-h", "--help", "help":
		printUsage(nil)
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown command %q (use 'server' or 'client')", args[0])
	}

	// Environment first so flags win.
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("simplechat "+args[0], flag.ContinueOnError)
	fs.SetOutput(usageOut)

	// ── server ───────────────────────────────────────────────────
	fs.IntVar(&cfg.MaxLineBytes, "max-line", cfg.MaxLineBytes, "Longest accepted line in bytes")
	fs.DurationVar(&cfg.SendTimeout, "send-timeout", cfg.SendTimeout, "Write deadline per line")
	fs.Float64Var(&cfg.RateLimit, "rate", cfg.RateLimit, "Chat lines per second per client (0 = unlimited)")
	fs.IntVar(&cfg.RateBurst, "burst", cfg.RateBurst, "Flood-limit burst size (with --rate)")

	// ── client ───────────────────────────────────────────────────
	fs.IntVar(&cfg.ConnectAttempts, "connect-attempts", cfg.ConnectAttempts, "Connection attempts before giving up")
	fs.DurationVar(&cfg.RetryDelay, "retry-delay", cfg.RetryDelay, "Initial delay between connection attempts")
	fs.DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "Timeout for a single connection attempt")

	// ── output ───────────────────────────────────────────────────
	var verbose int
	fs.CountVarP(&verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	if showHelp {
		printUsage(fs)
		return nil, nil, nil
	}
	if showVersion {
		fmt.Fprintf(usageOut, "simplechat %s\n", version)
		return nil, nil, nil
	}
	if verbose > 0 {
		cfg.Verbose += verbose
	}

	// ── positional arguments ─────────────────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return nil, nil, err
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := util.NewLogger(cfg.Verbose)
	mode, err := core.Build(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Verbose("%s mode, %s", cfg.Mode, cfg.Addr())
	return mode, cfg, nil
}

// ── helpers ──────────────────────────────────────────────────────────

// parsePositional reads the mode's positional arguments.  A port that
// is missing or unparsable falls back to the default.
func parsePositional(cfg *config.Config, remaining []string) error {
	if cfg.Mode == config.ModeServer {
		switch len(remaining) {
		case 0:
		case 1:
			cfg.Port = config.PortOrDefault(remaining[0])
		default:
			return fmt.Errorf("too many arguments for server mode")
		}
		return nil
	}

	// client: <loginid> [host] [port]
	if len(remaining) < 1 {
		return fmt.Errorf("login ID required (use --help for usage)")
	}
	if len(remaining) > 3 {
		return fmt.Errorf("too many arguments for client mode")
	}
	cfg.LoginID = remaining[0]
	if len(remaining) > 1 {
		cfg.Host = remaining[1]
	}
	if len(remaining) > 2 {
		cfg.Port = config.PortOrDefault(remaining[2])
	}
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(usageOut, `SimpleChat – multi-client text chat v%s

Usage:
  simplechat server [options] [port]                  Run the chat server
  simplechat client [options] <loginid> [host] [port] Join a chat server

Defaults: host %s, port %d.
`, version, config.DefaultHost, config.DefaultPort)
	if fs != nil {
		fmt.Fprintln(usageOut, "\nOptions:")
		fs.PrintDefaults()
	}
	fmt.Fprintf(usageOut, `
Server commands:  #quit #stop #close #start #setport <port> #getport
Client commands:  #quit #logoff #login [id] #sethost <host> #setport <port>
                  #gethost #getport

Examples:
  simplechat server 6000                    Listen on 6000
  simplechat client alice chat.local 6000   Log in as alice
  simplechat server --rate 5 --burst 20     Flood-limit chatty clients
`)
}
