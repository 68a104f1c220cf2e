// Package simplelogger appends debug lines to the file named by $SPLITDIFF_LOG_FILE.
package simplelogger

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"
)

// EnvVar names the log file.
const EnvVar = "SPLITDIFF_LOG_FILE"

var (
	mu  sync.Mutex
	now = time.Now
)

// Enabled reports whether EnvVar is set. Use it to skip building expensive log arguments.
func Enabled() bool {
	return os.Getenv(EnvVar) != ""
}

// Log is a minimal printf-style logger. It appends one timestamped line per call to the file specified by the SPLITDIFF_LOG_FILE
// environment variable.
//
// If SPLITDIFF_LOG_FILE is unset/empty or the path can't be opened as a file, Log is a no-op.
func Log(format string, args ...any) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return
	}

	// Serialize open/write/close to reduce interleaving within a single process.
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	var b bytes.Buffer
	b.WriteString(now().Format("15:04:05.000 "))
	_, _ = fmt.Fprintf(&b, format, args...)
	if b.Bytes()[b.Len()-1] != '\n' {
		_ = b.WriteByte('\n')
	}
	_, _ = f.Write(b.Bytes())
}
