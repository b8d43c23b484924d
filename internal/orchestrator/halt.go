package orchestrator

import (
	"context"

	"github.com/zero-day-ai/conductor/internal/events"
	"github.com/zero-day-ai/conductor/internal/types"
)

// handleHalt converts the recorded halt state into the error the caller sees.
// It is the only path by which Run raises instead of returning a result.
func (o *Orchestrator) handleHalt(ctx context.Context, rc *run) error {
	var out error
	switch {
	case rc.haltErr != nil && types.IsExecutionError(rc.haltErr):
		out = rc.haltErr
	case rc.haltErr != nil:
		out = types.WrapError(types.EXECUTION_HALTED, "run halted: "+rc.haltReason, rc.haltErr)
	default:
		out = types.NewError(types.EXECUTION_HALTED, "run halted: "+rc.haltReason)
	}

	o.record(ctx, rc, map[string]any{
		"done":       false,
		"error":      out.Error(),
		"reason":     rc.haltReason,
		"iterations": o.machine.Iteration(),
		"state":      rc.st.Snapshot(),
	})

	o.publish(events.New(events.EventRunHalted, rc.id, map[string]any{
		"reason":     rc.haltReason,
		"iterations": o.machine.Iteration(),
	}))

	o.logger.Error("run halted",
		"run_id", rc.id,
		"reason", rc.haltReason,
		"iterations", o.machine.Iteration(),
	)

	return out
}
