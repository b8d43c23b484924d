package state

import "sort"

// Signal is an opaque progress marker. The runtime never branches on signals
// itself; they are written by tool execution or application code and read by
// the application-supplied convergence policy.
type Signal string

// Signals written by the tool executor after a successful invocation.
const (
	SignalToolCalled    Signal = "tool_called"
	SignalStepCompleted Signal = "step_completed"
)

// ProgressTracker is a mutable set of progress signals. It is owned by a
// State aggregate, never shared as a package-level singleton, so concurrent
// runs stay isolated.
type ProgressTracker struct {
	signals map[Signal]bool
}

// NewProgressTracker creates an empty tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		signals: make(map[Signal]bool),
	}
}

// Mark records a signal. Marking an already-present signal is a no-op.
func (t *ProgressTracker) Mark(signal Signal) {
	t.signals[signal] = true
}

// Has reports whether a signal has been marked.
func (t *ProgressTracker) Has(signal Signal) bool {
	return t.signals[signal]
}

// Signals returns all marked signals in sorted order.
func (t *ProgressTracker) Signals() []Signal {
	out := make([]Signal, 0, len(t.signals))
	for s := range t.signals {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of marked signals.
func (t *ProgressTracker) Len() int {
	return len(t.signals)
}

// Clear removes all marked signals.
func (t *ProgressTracker) Clear() {
	t.signals = make(map[Signal]bool)
}
