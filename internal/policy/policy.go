// Package policy holds the two gates of a run, intentionally split:
// validation decides whether a proposed decision is acceptable to act on;
// convergence decides whether the loop should stop. The two are never
// conflated.
package policy

import (
	"strings"

	"github.com/zero-day-ai/conductor/internal/state"
	"github.com/zero-day-ai/conductor/internal/tool"
	"github.com/zero-day-ai/conductor/internal/types"
)

// DefaultConfidenceThreshold is the minimum confidence a decision must carry
// when it declares one at all.
const DefaultConfidenceThreshold = 0.5

// ConvergenceFunc is a pure predicate over accumulated state. It is meant to
// be supplied per application domain, typically reading progress signals.
type ConvergenceFunc func(st *state.State) bool

// Policy validates proposed decisions and answers the convergence question.
// The zero-value behavior is deliberately conservative: convergence defaults
// to always-false so termination is never accidental.
type Policy struct {
	threshold float64
	converge  ConvergenceFunc
}

// Option configures a Policy.
type Option func(*Policy)

// WithConfidenceThreshold overrides the confidence floor for validation.
func WithConfidenceThreshold(threshold float64) Option {
	return func(p *Policy) {
		if threshold > 0 {
			p.threshold = threshold
		}
	}
}

// WithConvergence overrides the convergence predicate.
func WithConvergence(fn ConvergenceFunc) Option {
	return func(p *Policy) {
		if fn != nil {
			p.converge = fn
		}
	}
}

// New creates a Policy with the default threshold and an always-false
// convergence predicate.
func New(options ...Option) *Policy {
	p := &Policy{
		threshold: DefaultConfidenceThreshold,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Validate performs the structural checks on a proposed decision: a
// non-empty action, and a confidence at or above the threshold when one is
// present. Failures are POLICY_VIOLATION errors, surfaced to the caller
// immediately and never retried.
func (p *Policy) Validate(d *tool.Decision) error {
	if d == nil {
		return types.NewError(types.POLICY_VIOLATION, "decision is nil")
	}

	if strings.TrimSpace(d.Action) == "" {
		return types.NewError(types.POLICY_VIOLATION, "decision action is required")
	}

	if d.Confidence != nil && *d.Confidence < p.threshold {
		return types.NewErrorf(types.POLICY_VIOLATION,
			"confidence %.2f below threshold %.2f", *d.Confidence, p.threshold)
	}

	return nil
}

// Converged reports whether the loop should stop, independent of the
// reasoning step's own stated intent.
func (p *Policy) Converged(st *state.State) bool {
	if p.converge == nil {
		return false
	}
	return p.converge(st)
}

// ConvergeOnSignal builds a convergence predicate that fires once the given
// progress signal has been marked.
func ConvergeOnSignal(signal state.Signal) ConvergenceFunc {
	return func(st *state.State) bool {
		return st != nil && st.Progress().Has(signal)
	}
}
