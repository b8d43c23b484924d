package orchestrator

import (
	"context"

	"github.com/zero-day-ai/conductor/internal/events"
	"github.com/zero-day-ai/conductor/internal/fsm"
	"github.com/zero-day-ai/conductor/internal/llm"
)

// handleExecute is the only phase that iterates and the only phase that may
// offer tools to the reasoning client. Each pass burns one unit of the
// iteration budget before the client is consulted.
func (o *Orchestrator) handleExecute(ctx context.Context, rc *run) error {
	if err := o.machine.IncrementIteration(); err != nil {
		return o.haltRun(rc, "iteration ceiling reached", err)
	}

	o.publish(events.New(events.EventLLMRequestStarted, rc.id, map[string]any{
		"phase":     fsm.PhaseExecute.String(),
		"iteration": o.machine.Iteration(),
	}))

	completion, err := o.client.ChatWithTools(ctx, rc.messages, o.registry.Defs())
	if err != nil {
		o.publish(events.New(events.EventLLMRequestFailed, rc.id, map[string]any{
			"phase": fsm.PhaseExecute.String(),
			"error": err.Error(),
		}))
		o.logger.Warn("execute call failed",
			"run_id", rc.id,
			"iteration", o.machine.Iteration(),
			"error", err,
		)
		return o.haltRun(rc, "reasoning call failed: "+err.Error(), err)
	}

	o.publish(events.New(events.EventLLMRequestCompleted, rc.id, map[string]any{
		"phase":      fsm.PhaseExecute.String(),
		"iteration":  o.machine.Iteration(),
		"tool_calls": len(completion.ToolCalls),
	}))

	if completion.HasToolCalls() {
		rc.pending = completion.ToolCalls
		rc.messages = append(rc.messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   completion.Content,
			ToolCalls: completion.ToolCalls,
		})

		names := make([]string, 0, len(completion.ToolCalls))
		for _, call := range completion.ToolCalls {
			names = append(names, call.Name)
		}
		rc.st.Apply(map[string]any{"pending_tool_calls": names})

		return o.transition(rc, fsm.PhaseObserve, "tool calls requested")
	}

	rc.messages = append(rc.messages, llm.NewAssistantMessage(completion.Content))
	return o.transition(rc, fsm.PhaseFinalize, "assistant produced final text")
}
