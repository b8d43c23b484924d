// Package fsm implements the explicit state machine that backs the
// orchestration loop: a phase enum, a static transition adjacency table, an
// iteration counter with a hard ceiling, and an append-only transition
// history.
package fsm

import (
	"github.com/zero-day-ai/conductor/internal/types"
)

// DefaultMaxIterations bounds the EXECUTE loop when no ceiling is configured.
const DefaultMaxIterations = 50

// Transition records one accepted phase change.
type Transition struct {
	From      Phase  `json:"from"`
	To        Phase  `json:"to"`
	Reason    string `json:"reason,omitempty"`
	Iteration int    `json:"iteration"`
}

// Machine is the orchestration state machine. It is not safe for concurrent
// use; each logical run needs its own Machine or an explicit Reset.
type Machine struct {
	current       Phase
	iteration     int
	maxIterations int
	history       []Transition
}

// NewMachine creates a Machine in INTAKE with the given iteration ceiling.
// A non-positive ceiling selects DefaultMaxIterations.
func NewMachine(maxIterations int) *Machine {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Machine{
		current:       PhaseIntake,
		maxIterations: maxIterations,
	}
}

// Current returns the machine's current phase.
func (m *Machine) Current() Phase {
	return m.current
}

// Iteration returns the number of completed EXECUTE entries this run.
func (m *Machine) Iteration() int {
	return m.iteration
}

// MaxIterations returns the configured iteration ceiling.
func (m *Machine) MaxIterations() int {
	return m.maxIterations
}

// IsTerminal returns true iff the current phase is FINALIZE or HALT.
func (m *Machine) IsTerminal() bool {
	return m.current.IsTerminal()
}

// TransitionTo moves the machine to target if the adjacency table permits it,
// appending exactly one history entry. An illegal pair yields
// FSM_INVALID_TRANSITION carrying both phases; this indicates a handler bug
// and is treated as fatal by the driver.
func (m *Machine) TransitionTo(target Phase, reason string) error {
	if !target.IsValid() {
		return types.NewErrorf(types.FSM_UNKNOWN_PHASE, "unknown phase %q", target)
	}

	if !CanTransition(m.current, target) {
		return types.NewErrorf(types.FSM_INVALID_TRANSITION,
			"illegal transition %s -> %s", m.current, target)
	}

	m.history = append(m.history, Transition{
		From:      m.current,
		To:        target,
		Reason:    reason,
		Iteration: m.iteration,
	})
	m.current = target
	return nil
}

// IncrementIteration advances the counter, failing exactly when the result
// would exceed the ceiling. Called once per pass through EXECUTE and nowhere
// else.
func (m *Machine) IncrementIteration() error {
	if m.iteration+1 > m.maxIterations {
		return types.NewErrorf(types.EXECUTION_MAX_ITERATIONS,
			"iteration limit %d exceeded", m.maxIterations)
	}
	m.iteration++
	return nil
}

// ExceededIterations reports whether the counter has reached the ceiling.
func (m *Machine) ExceededIterations() bool {
	return m.iteration >= m.maxIterations
}

// History returns a copy of the transition records accepted so far this run.
func (m *Machine) History() []Transition {
	out := make([]Transition, len(m.history))
	copy(out, m.history)
	return out
}

// Reset returns the machine to INTAKE, zeroes the counter, and clears the
// history so the machine can back another run.
func (m *Machine) Reset() {
	m.current = PhaseIntake
	m.iteration = 0
	m.history = nil
}
