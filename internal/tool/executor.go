package tool

import (
	"context"
	"fmt"

	"github.com/zero-day-ai/conductor/internal/state"
	"github.com/zero-day-ai/conductor/internal/types"
)

// Executor dispatches validated decisions through a registry. It is the only
// place the runtime writes domain-agnostic progress signals; interpreting
// them is entirely up to the application-supplied policy.
type Executor struct {
	registry *Registry
}

// NewExecutor creates an Executor over the given registry.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute acts on a decision. A "finish" decision returns {done: true}
// without touching the registry. Otherwise the parameters are recursively
// normalized, the named tool is looked up and invoked, and every failure
// (unknown name, invocation error, panic) surfaces as a single execution
// error kind carrying the original message. On success the tool_called and
// step_completed progress signals are marked on the state.
func (e *Executor) Execute(ctx context.Context, d *Decision, st *state.State) (result any, err error) {
	if d == nil {
		return nil, types.NewError(types.EXECUTION_TOOL_FAILED, "decision is nil")
	}

	if d.IsFinish() {
		return map[string]any{"done": true}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = types.NewErrorf(types.EXECUTION_TOOL_FAILED, "tool %q panicked: %v", d.Action, r)
		}
	}()

	t, err := e.registry.Get(d.Action)
	if err != nil {
		return nil, err
	}

	args := NormalizeArgs(d.Params)

	out, err := t.Invoke(ctx, args)
	if err != nil {
		return nil, types.WrapError(types.EXECUTION_TOOL_FAILED,
			fmt.Sprintf("tool %q failed", d.Action), err)
	}

	if st != nil {
		st.Progress().Mark(state.SignalToolCalled)
		st.Progress().Mark(state.SignalStepCompleted)
	}

	return out, nil
}

// NormalizeArgs recursively converts parameter maps to the canonical
// map[string]any form at every depth, so tools and the merge layer see one
// key type regardless of how the arguments were decoded.
func NormalizeArgs(params map[string]any) map[string]any {
	if params == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return NormalizeArgs(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
