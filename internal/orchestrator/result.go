package orchestrator

import (
	"github.com/zero-day-ai/conductor/internal/fsm"
	"github.com/zero-day-ai/conductor/internal/types"
)

// Result is the terminal value of a successful run.
type Result struct {
	RunID        types.ID         `json:"run_id"`
	Done         bool             `json:"done"`
	Iterations   int              `json:"iterations"`
	FinalMessage string           `json:"final_message,omitempty"`
	State        map[string]any   `json:"state"`
	History      []fsm.Transition `json:"fsm_history"`
}

// Map renders the result as a plain map, the shape recorded in the audit log.
func (r *Result) Map() map[string]any {
	return map[string]any{
		"done":          r.Done,
		"iterations":    r.Iterations,
		"final_message": r.FinalMessage,
		"state":         r.State,
		"fsm_history":   r.History,
	}
}
