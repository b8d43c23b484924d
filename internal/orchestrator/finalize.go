package orchestrator

import (
	"context"

	"github.com/zero-day-ai/conductor/internal/events"
	"github.com/zero-day-ai/conductor/internal/llm"
)

// handleFinalize assembles the terminal result. When the transcript holds no
// assistant text it asks the client for a closing summary; a failure there is
// tolerated, since the run has already succeeded.
func (o *Orchestrator) handleFinalize(ctx context.Context, rc *run) (*Result, error) {
	final := llm.LastAssistantContent(rc.messages)

	if final == "" && o.client != nil {
		summary, err := o.client.Chat(ctx, append(rc.messages, llm.NewUserMessage(summaryPrompt())))
		if err != nil {
			o.logger.Warn("summary call failed", "run_id", rc.id, "error", err)
		} else {
			final = summary
			rc.messages = append(rc.messages, llm.NewAssistantMessage(summary))
		}
	}

	result := &Result{
		RunID:        rc.id,
		Done:         true,
		Iterations:   o.machine.Iteration(),
		FinalMessage: final,
		State:        rc.st.Snapshot(),
		History:      o.machine.History(),
	}

	o.record(ctx, rc, result.Map())

	o.publish(events.New(events.EventRunCompleted, rc.id, map[string]any{
		"iterations": result.Iterations,
	}))

	o.logger.Info("run completed",
		"run_id", rc.id,
		"iterations", result.Iterations,
	)

	return result, nil
}
