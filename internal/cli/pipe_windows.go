package cli

import (
	"errors"
	"syscall"

	"golang.org/x/sys/windows"
)

// isBrokenPipe reports whether err is a write to a pipe whose reader has gone. ERROR_NO_DATA is what Windows returns while the pipe is closing.
func isBrokenPipe(err error) bool {
	return errors.Is(err, windows.ERROR_BROKEN_PIPE) || errors.Is(err, windows.ERROR_NO_DATA) || errors.Is(err, syscall.EPIPE)
}

// ignoreSIGPIPE is a no-op: Windows has no SIGPIPE.
func ignoreSIGPIPE() {}
