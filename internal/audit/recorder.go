// Package audit implements the optional audit-log collaborator: one record
// per terminal run outcome, tolerating absent decisions.
package audit

import (
	"context"
	"time"

	"github.com/zero-day-ai/conductor/internal/tool"
	"github.com/zero-day-ai/conductor/internal/types"
)

// Entry is a single audit record.
type Entry struct {
	// RunID identifies the run being recorded
	RunID types.ID `json:"run_id"`

	// RecordedAt is when the record was written
	RecordedAt time.Time `json:"recorded_at"`

	// Input is the caller's initial input for the run
	Input string `json:"input"`

	// Decision is the last decision acted on, if any. May be nil; recorders
	// must tolerate that without failing.
	Decision *tool.Decision `json:"decision,omitempty"`

	// Result is the terminal result payload
	Result map[string]any `json:"result,omitempty"`
}

// Recorder is the audit-log collaborator contract consumed by the
// orchestrator. Implementations must accept a nil Decision.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}
