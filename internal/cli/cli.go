// Package cli implements the splitdiff command line: reading a diff, loading configuration, and rendering the side-by-side view.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	qcli "github.com/codalotl/splitdiff/internal/q/cli"
)

// Version is the splitdiff version. It is a var so builds can override it with -ldflags "-X github.com/codalotl/splitdiff/internal/cli.Version=1.2.3".
var Version = "0.4.0"

// ExitInterrupted is returned by Run when SIGINT or SIGTERM stopped rendering.
const ExitInterrupted = 130

// RunOptions override the process environment. Zero fields use the defaults. Overriding is useful for testing.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Dir is the working directory used for project config and workspace discovery. "" uses os.Getwd.
	Dir string

	// Context replaces the signal-bound context.
	Context context.Context
}

// Run runs the CLI with args (typically os.Args) and returns the process exit code:
//   - 0: success.
//   - 1: the diff was malformed, a file was missing or inconsistent with the diff, output broke, or another failure.
//   - 2: usage error.
//   - 130: interrupted.
//
// Run has already reported any error on the error stream.
func Run(args []string, opts *RunOptions) int {
	if opts == nil {
		opts = &RunOptions{}
	}
	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	in, out, errW := opts.In, opts.Out, opts.Err
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if errW == nil {
		errW = os.Stderr
	}

	ctx := opts.Context
	if ctx == nil {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
	}
	ignoreSIGPIPE()

	app := &app{dir: opts.Dir, term: out}
	pw := &pipeWriter{w: out}
	return qcli.Run(ctx, app.rootCommand(), qcli.Options{
		Args: argv,
		In:   in,
		Out:  pw,
		Err:  errW,
	})
}
