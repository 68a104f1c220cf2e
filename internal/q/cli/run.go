package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

type Options struct {
	// Args is the argv excluding the program name (typically os.Args[1:]).
	Args []string

	// In/Out/Err override standard I/O. If nil, defaults are used.
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Context is passed to a command handler.
//
// Positional args are in Args. Flag values are typically read via variables bound
// at command construction time (e.g. fs.Bool(...)).
type Context struct {
	context.Context

	Command *Command
	Args    []string

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Changed reports whether the flag named name, active for the selected command, was given on the command line.
func (c *Context) Changed(name string) bool {
	return c.Command.Changed(name)
}

// Run executes a command tree as a CLI program and returns a process exit code.
func Run(ctx context.Context, root *Command, opts Options) int {
	if root == nil {
		panic("cli: Run called with nil root")
	}
	if root.Name == "" {
		panic("cli: Run called with root.Name empty")
	}

	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	selected, args, parseErr := parseArgv(root, opts.Args, out)
	if parseErr != nil {
		if errors.Is(parseErr, errHelpPrinted) {
			return 0
		}
		printUsageError(root, selected, parseErr, errOut)
		return 2
	}

	if selected.Run == nil {
		if len(args) == 0 {
			printUsageError(root, selected, usageErrorf("missing required subcommand"), errOut)
			return 2
		}
		printUsageError(root, selected, usageErrorf("unknown subcommand: %s", args[0]), errOut)
		return 2
	}

	if selected.Args != nil {
		if err := selected.Args(args); err != nil {
			return exitFor(root, selected, err, errOut, true)
		}
	}

	c := &Context{
		Context: ctx,
		Command: selected,
		Args:    args,
		In:      in,
		Out:     out,
		Err:     errOut,
	}
	if err := selected.Run(c); err != nil {
		return exitFor(root, selected, err, errOut, false)
	}
	return 0
}

var errHelpPrinted = errors.New("help printed")

// parseArgv walks argv once: leading non-flag tokens select subcommands until one does not match, flags are parsed against the flags active on
// the command selected so far, and everything after "--" is positional.
func parseArgv(root *Command, argv []string, out io.Writer) (*Command, []string, error) {
	selected := root
	selecting := true
	var positional []string

	for i := 0; i < len(argv); i++ {
		switch token := argv[i]; {
		case token == "--":
			return selected, append(positional, argv[i+1:]...), nil
		case token == "-h" || token == "--help":
			writeHelp(out, root, selected)
			return selected, nil, errHelpPrinted
		case isFlagToken(token):
			consumed, err := parseFlag(selected.activeFlags(), argv, i)
			if err != nil {
				return selected, nil, err
			}
			i += consumed
		default:
			if selecting {
				if child := selected.childByToken(token); child != nil {
					selected = child
					continue
				}
				selecting = false
			}
			positional = append(positional, token)
		}
	}
	return selected, positional, nil
}

func isFlagToken(token string) bool {
	return strings.HasPrefix(token, "-") && token != "-" // "-" is a valid positional arg.
}

// parseFlag parses the flag token argv[i] (--name, --name=value, -n, -n=value, or -name) and returns how many of the following tokens it
// consumed as its value.
func parseFlag(active activeFlags, argv []string, i int) (int, error) {
	token := argv[i]
	name, value, hasValue := strings.Cut(strings.TrimPrefix(strings.TrimPrefix(token, "-"), "-"), "=")

	def := active.byLong[name]
	if r, size := utf8.DecodeRuneInString(name); !strings.HasPrefix(token, "--") && size == len(name) {
		def = active.byShort[r]
	}
	if def == nil {
		return 0, usageErrorf("unknown flag: %s", token)
	}

	consumed := 0
	if !hasValue {
		next, hasNext := "", i+1 < len(argv)
		if hasNext {
			next = argv[i+1]
		}
		switch {
		case def.kind == flagBool:
			// A bool flag only takes the next token when it parses as a bool.
			value = "true"
			if _, err := strconv.ParseBool(next); hasNext && err == nil {
				value, consumed = next, 1
			}
		case !hasNext:
			return 0, usageErrorf("flag needs a value: %s", token)
		case next == "--":
			return 0, usageErrorf("flag needs a value before --: %s", token)
		default:
			value, consumed = next, 1
		}
	}

	if err := def.set(value); err != nil {
		return 0, usageErrorf("invalid value for %s: %v", def.display(), err)
	}
	return consumed, nil
}

// exitFor maps err to an exit code and reports it on errOut. ExitCoders choose their own code (2 prints usage). Other errors are usage errors when they come
// from arg validation and plain failures (1) otherwise.
func exitFor(root, cmd *Command, err error, errOut io.Writer, fromArgs bool) int {
	code := 1
	if fromArgs {
		code = 2
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		code = ec.ExitCode()
	}
	switch code {
	case 0:
		return 0
	case 2:
		printUsageError(root, cmd, err, errOut)
	default:
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(errOut, msg)
		}
	}
	return code
}

func printUsageError(root, cmd *Command, err error, errOut io.Writer) {
	msg := usageErrorMessage(err)
	if msg != "" {
		fmt.Fprintln(errOut, msg)
		fmt.Fprintln(errOut)
	}
	writeHelp(errOut, root, cmd)
}

func usageErrorMessage(err error) string {
	var ue UsageError
	if errors.As(err, &ue) && ue.Message != "" {
		return ue.Message
	}
	if err == nil {
		return ""
	}
	if errors.Is(err, errHelpPrinted) {
		return ""
	}
	return err.Error()
}
