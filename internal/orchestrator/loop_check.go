package orchestrator

import (
	"context"

	"github.com/zero-day-ai/conductor/internal/fsm"
	"github.com/zero-day-ai/conductor/internal/types"
)

// handleLoopCheck is the sole termination decision point besides an explicit
// finish action. Check order matters: the iteration ceiling beats every other
// outcome, and a requested finish beats convergence.
func (o *Orchestrator) handleLoopCheck(_ context.Context, rc *run) error {
	if o.machine.ExceededIterations() {
		err := types.NewErrorf(types.EXECUTION_MAX_ITERATIONS,
			"iteration limit %d exceeded", o.machine.MaxIterations())
		return o.haltRun(rc, "iteration ceiling reached", err)
	}

	if rc.doneRequested {
		return o.transition(rc, fsm.PhaseFinalize, "finish requested")
	}

	if o.policy.Converged(rc.st) {
		return o.transition(rc, fsm.PhaseFinalize, "policy converged")
	}

	if rc.observations > 0 {
		rc.observations = 0
		return o.transition(rc, fsm.PhaseExecute, "observations pending review")
	}

	return o.transition(rc, fsm.PhaseFinalize, "nothing left to do")
}
