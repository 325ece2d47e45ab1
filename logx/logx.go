// Package logx writes line-oriented diagnostics to a console writer.
// Lines carry the same "Info:", "Warn:" and "Error:" prefixes used across
// the firmware's println output, so serial captures read uniformly.
package logx

import (
	"fmt"
	"io"
	"sync"
)

// Logger prints one line per call. Safe for concurrent use.
type Logger struct {
	mu sync.Mutex
	w  io.Writer
}

// New returns a Logger writing to w. A nil w discards output.
func New(w io.Writer) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{w: w}
}

func (l *Logger) Info(a ...any)  { l.line("Info:", a) }
func (l *Logger) Warn(a ...any)  { l.line("Warn:", a) }
func (l *Logger) Error(a ...any) { l.line("Error:", a) }

// Raw writes s without a prefix or newline (progress dots and the like).
func (l *Logger) Raw(s string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	_, _ = io.WriteString(l.w, s)
	l.mu.Unlock()
}

func (l *Logger) line(prefix string, a []any) {
	if l == nil {
		return
	}
	args := make([]any, 0, len(a)+1)
	args = append(args, prefix)
	args = append(args, a...)
	l.mu.Lock()
	_, _ = fmt.Fprintln(l.w, args...)
	l.mu.Unlock()
}

// Tee fans writes out to every non-nil writer. Errors from individual
// writers are ignored; the console must never block the control loop.
func Tee(ws ...io.Writer) io.Writer {
	out := make([]io.Writer, 0, len(ws))
	for _, w := range ws {
		if w != nil {
			out = append(out, w)
		}
	}
	return tee(out)
}

type tee []io.Writer

func (t tee) Write(p []byte) (int, error) {
	for _, w := range t {
		_, _ = w.Write(p)
	}
	return len(p), nil
}
