package orchestrator

import (
	"context"

	"github.com/zero-day-ai/conductor/internal/events"
	"github.com/zero-day-ai/conductor/internal/fsm"
)

// handlePlan makes exactly one structured reasoning call. A usable plan moves
// the run to DECIDE; any client failure halts with the underlying reason.
func (o *Orchestrator) handlePlan(ctx context.Context, rc *run) error {
	prompt := planPrompt(rc.input, o.registry.Names())

	o.publish(events.New(events.EventLLMRequestStarted, rc.id, map[string]any{
		"phase": fsm.PhasePlan.String(),
	}))

	plan, err := o.client.Generate(ctx, prompt, planSchema())
	if err != nil {
		o.publish(events.New(events.EventLLMRequestFailed, rc.id, map[string]any{
			"phase": fsm.PhasePlan.String(),
			"error": err.Error(),
		}))
		o.logger.Warn("planning call failed", "run_id", rc.id, "error", err)
		return o.haltRun(rc, "planning failed: "+err.Error(), err)
	}

	o.publish(events.New(events.EventLLMRequestCompleted, rc.id, map[string]any{
		"phase": fsm.PhasePlan.String(),
	}))

	if plan == nil {
		plan = map[string]any{}
	}
	if goal, ok := plan["goal"].(string); !ok || goal == "" {
		plan["goal"] = rc.input
	}

	rc.st.Apply(map[string]any{"plan": plan})

	return o.transition(rc, fsm.PhaseDecide, "plan produced")
}
