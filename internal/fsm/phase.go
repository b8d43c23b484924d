package fsm

// Phase represents a state of the orchestration state machine.
type Phase string

const (
	// PhaseIntake seeds the run with the caller's initial input
	PhaseIntake Phase = "INTAKE"

	// PhasePlan invokes the single-shot reasoning call to produce a plan
	PhasePlan Phase = "PLAN"

	// PhaseDecide validates that an actionable plan is present
	PhaseDecide Phase = "DECIDE"

	// PhaseExecute invokes the chat reasoning call, the only phase that iterates
	PhaseExecute Phase = "EXECUTE"

	// PhaseObserve dispatches pending tool calls through the executor
	PhaseObserve Phase = "OBSERVE"

	// PhaseLoopCheck decides whether the loop re-enters EXECUTE or stops
	PhaseLoopCheck Phase = "LOOP_CHECK"

	// PhaseFinalize is the successful terminal phase
	PhaseFinalize Phase = "FINALIZE"

	// PhaseHalt is the failure terminal phase
	PhaseHalt Phase = "HALT"
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	return string(p)
}

// IsValid checks if the Phase is one of the defined constants.
func (p Phase) IsValid() bool {
	_, ok := transitions[p]
	return ok
}

// IsTerminal returns true if no transitions lead out of this phase.
func (p Phase) IsTerminal() bool {
	return len(transitions[p]) == 0 && p.IsValid()
}

// transitions is the static adjacency table. Legality of a transition is a
// single two-level lookup; the table is the sole source of truth.
var transitions = map[Phase]map[Phase]bool{
	PhaseIntake:    {PhasePlan: true},
	PhasePlan:      {PhaseDecide: true, PhaseHalt: true},
	PhaseDecide:    {PhaseExecute: true, PhaseFinalize: true, PhaseHalt: true},
	PhaseExecute:   {PhaseObserve: true, PhaseFinalize: true, PhaseHalt: true},
	PhaseObserve:   {PhaseLoopCheck: true},
	PhaseLoopCheck: {PhaseExecute: true, PhaseFinalize: true, PhaseHalt: true},
	PhaseFinalize:  {},
	PhaseHalt:      {},
}

// CanTransition reports whether the table permits moving from one phase to
// another.
func CanTransition(from, to Phase) bool {
	return transitions[from][to]
}

// Phases returns all defined phases in control-flow order.
func Phases() []Phase {
	return []Phase{
		PhaseIntake,
		PhasePlan,
		PhaseDecide,
		PhaseExecute,
		PhaseObserve,
		PhaseLoopCheck,
		PhaseFinalize,
		PhaseHalt,
	}
}
