package render

import (
	"io"
	"sync"

	"github.com/markis/gh-coach/internal/typer"
)

// TypingWriter prints the characters a typer session reveals as they appear.
type TypingWriter struct {
	out io.Writer

	mu      sync.Mutex
	written int
	err     error
}

func NewTypingWriter(out io.Writer) *TypingWriter {
	return &TypingWriter{out: out}
}

// Step is a typer.StepFunc.
func (w *TypingWriter) Step(s typer.State) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.err != nil {
		return
	}
	if len(s.Text) < w.written {
		// A new session started over.
		w.written = 0
		_, w.err = io.WriteString(w.out, "\n")
	}
	if _, err := io.WriteString(w.out, s.Text[w.written:]); err != nil {
		w.err = err
		return
	}
	w.written = len(s.Text)
}

// Err returns the first write error.
func (w *TypingWriter) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
