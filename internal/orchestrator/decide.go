package orchestrator

import (
	"context"

	"github.com/zero-day-ai/conductor/internal/fsm"
)

// handleDecide gates entry into the execution loop on the presence of a
// non-empty plan. It makes no reasoning call of its own.
func (o *Orchestrator) handleDecide(_ context.Context, rc *run) error {
	raw, ok := rc.st.Get("plan")
	plan, isMap := raw.(map[string]any)

	if !ok || !isMap || len(plan) == 0 {
		rc.st.Apply(map[string]any{"continue": false})
		return o.haltRun(rc, "no usable plan", nil)
	}

	rc.st.Apply(map[string]any{"continue": true})
	return o.transition(rc, fsm.PhaseExecute, "plan accepted")
}
