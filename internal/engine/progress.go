package engine

import (
	"fmt"
	"sync"

	"github.com/devpware/codeatlas/internal/parser"
)

// progressBuffer is sized for bursty emitters; once full, further events
// are dropped rather than blocking the parse.
const progressBuffer = 64

// ProgressReporter bridges the synchronous parser.ProgressFunc callback to
// a channel a UI can consume at its own pace. Emit never blocks: when the
// consumer falls behind, intermediate snapshots are dropped, which is
// acceptable because each snapshot supersedes the previous one.
type ProgressReporter struct {
	mu     sync.Mutex
	ch     chan parser.Progress
	closed bool
}

// NewProgressReporter returns a reporter ready for Subscribe and Emit.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{ch: make(chan parser.Progress, progressBuffer)}
}

// Emit publishes a snapshot without blocking. Safe for concurrent use and
// safe after Close (events are discarded).
func (r *ProgressReporter) Emit(p parser.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.ch <- p:
	default:
	}
}

// Subscribe returns the event channel. The channel is closed by Close.
func (r *ProgressReporter) Subscribe() <-chan parser.Progress { return r.ch }

// Close marks the reporter finished and closes the event channel.
func (r *ProgressReporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	close(r.ch)
}

// FormatProgress renders a snapshot as a single status line.
func FormatProgress(p parser.Progress) string {
	switch {
	case p.Total > 0 && p.CurrentFile != "":
		return fmt.Sprintf("[%s] %d/%d %s", p.Phase, p.Current, p.Total, p.CurrentFile)
	case p.Total > 0:
		return fmt.Sprintf("[%s] %d/%d", p.Phase, p.Current, p.Total)
	case p.Message != "":
		return fmt.Sprintf("[%s] %s", p.Phase, p.Message)
	default:
		return fmt.Sprintf("[%s]", p.Phase)
	}
}
