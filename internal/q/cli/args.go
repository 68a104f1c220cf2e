package cli

import "fmt"

// NoArgs rejects any positional args.
func NoArgs(args []string) error {
	return ExactArgs(0)(args)
}

// ExactArgs returns an ArgsFunc that accepts exactly n positional args.
func ExactArgs(n int) ArgsFunc {
	return func(args []string) error {
		if len(args) != n {
			return usageErrorf("expected %s, got %d", countArgs(n), len(args))
		}
		return nil
	}
}

// countArgs renders n as "no args", "1 arg", or "N args".
func countArgs(n int) string {
	switch n {
	case 0:
		return "no args"
	case 1:
		return "1 arg"
	}
	return fmt.Sprintf("%d args", n)
}
