//go:build !windows

package cli

import (
	"errors"
	"os/signal"

	"golang.org/x/sys/unix"
)

func isBrokenPipe(err error) bool {
	return errors.Is(err, unix.EPIPE)
}

// ignoreSIGPIPE makes writes to a closed stdout fail with EPIPE instead of killing the process, so the broken pipe can be handled.
func ignoreSIGPIPE() {
	signal.Ignore(unix.SIGPIPE)
}
