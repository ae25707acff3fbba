package cliapp

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tokloom/tokloom/config"
)

// appUsage is the one-line description urfave/cli prints in --help,
// matching the register-style single sentence buildkite-agent's own
// subcommands use.
const appUsage = "split stdin into tokens and filter/transform/select them"

// App builds the tokloom cli.App. stdin/stdout/stderr are injected
// rather than read from the os package directly so tests can drive the
// whole CLI without touching real file descriptors.
func App(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "tokloom"
	app.Usage = appUsage
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = scalarFlags()
	app.ArgsUsage = "[pattern]"
	app.Action = func(c *cli.Context) error {
		return runAction(c, stdin, stdout, stderr)
	}
	return app
}

// Main is cmd/tokloom's entire body: parse argv, compile configuration,
// run the core, and return a process exit code. It is factored out of
// main() so it stays testable without forking a subprocess, the same
// shape as buildkite-agent's clicommand.PrintMessageAndReturnExitCode
// split between main.go and the command package.
func Main(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ops, rest, err := parseOps(args[1:])
	if err != nil {
		reportError(stderr, args[0], err, false)
		return 1
	}

	app := App(stdin, stdout, stderr)
	argv := append([]string{args[0]}, rest...)

	verbose := false
	for _, a := range rest {
		if a == "-v" || a == "--verbose" {
			verbose = true
		}
	}

	pendingOps = ops
	if err := app.Run(argv); err != nil {
		reportError(stderr, args[0], err, verbose)
		return 1
	}
	return 0
}

// pendingOps smuggles the order-preserved operator chain parseOps built
// from raw argv into runAction, since cli.Context has no slot for data
// that was never one of its own declared flags. Main is the only
// caller that ever sets it, and App's Action consumes it exactly once
// per run, so a package-level variable is safe despite the core's own
// single-threaded-per-run discipline (spec.md §5) — there is never a
// second concurrent CLI invocation within one process.
var pendingOps []config.OpSpec

func reportError(w io.Writer, prog string, err error, verbose bool) {
	if verbose {
		io.WriteString(w, prog+": "+renderCauseChain(err)+"\n")
		return
	}
	io.WriteString(w, prog+": "+err.Error()+"\n")
}

func renderCauseChain(err error) string {
	msg := err.Error()
	for cause := errors.Cause(err); cause != nil && cause.Error() != err.Error(); {
		msg += "\ncaused by: " + cause.Error()
		next := errors.Cause(cause)
		if next == cause {
			break
		}
		cause = next
	}
	return msg
}

func runAction(c *cli.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	raw, err := buildRaw(c, pendingOps)
	if err != nil {
		return err
	}

	cfg, err := config.Compile(raw)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, c.Bool("verbose"))
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	return Drive(ctx, cfg, stdin, stdout, logger)
}

// newLogger builds a minimal zap logger writing to stderr with a
// program-name preamble (spec.md §7's "program-name preamble"
// requirement), grounded on buildkite-agent/kubernetes's
// imagePullBackOffWatcher.go zap.Logger field-injection style.
func newLogger(stderr io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = ""
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(stderr),
		level,
	)
	return zap.New(core).With(zap.String("program", "tokloom"))
}
