package llm

import (
	"context"

	"github.com/zero-day-ai/conductor/internal/schema"
)

// Completion is the raw outcome of a tool-enabled chat call: assistant text,
// zero or more requested tool calls, or both.
type Completion struct {
	Content   string     `json:"content,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// HasToolCalls reports whether the model requested any tool invocations.
func (c *Completion) HasToolCalls() bool {
	return c != nil && len(c.ToolCalls) > 0
}

// Client is the reasoning-client contract consumed by the orchestration core.
// The core is intentionally single-shot and synchronous; retries, streaming,
// and rate limiting belong to implementations.
type Client interface {
	// Generate performs a single-shot structured completion. The result is
	// expected to conform to the given schema; used only by PLAN.
	Generate(ctx context.Context, prompt string, s schema.JSONSchema) (map[string]any, error)

	// Chat performs a tool-less conversational completion over the
	// transcript; used only by FINALIZE.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatWithTools performs a conversational completion that may request
	// tool invocations; used only by EXECUTE.
	ChatWithTools(ctx context.Context, messages []Message, tools []ToolDef) (*Completion, error)
}
