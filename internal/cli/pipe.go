package cli

import (
	"errors"
	"io"
)

// errBrokenPipe is returned by pipeWriter once the reader has gone away.
var errBrokenPipe = errors.New("broken pipe")

// pipeWriter passes writes through until the first broken-pipe error. From then on it discards everything and returns errBrokenPipe, so
// rendering stops at its next write.
type pipeWriter struct {
	w      io.Writer
	broken bool
}

func (p *pipeWriter) Write(b []byte) (int, error) {
	if p.broken {
		return 0, errBrokenPipe
	}
	n, err := p.w.Write(b)
	if err != nil && isBrokenPipe(err) {
		p.broken = true
		return n, errBrokenPipe
	}
	return n, err
}
