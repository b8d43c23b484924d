package orchestrator

import (
	"context"
	"time"

	"github.com/zero-day-ai/conductor/internal/fsm"
	"github.com/zero-day-ai/conductor/internal/llm"
)

// handleIntake seeds the transcript and state with the caller's initial
// input, then unconditionally moves to PLAN.
func (o *Orchestrator) handleIntake(_ context.Context, rc *run) error {
	rc.messages = append(rc.messages, llm.NewUserMessage(rc.input))

	rc.st.Apply(map[string]any{
		"goal":       rc.input,
		"started_at": time.Now().UTC().Format(time.RFC3339),
	})

	return o.transition(rc, fsm.PhasePlan, "input received")
}
