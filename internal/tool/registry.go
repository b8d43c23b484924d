package tool

import (
	"context"
	"sort"
	"sync"

	"github.com/zero-day-ai/conductor/internal/llm"
	"github.com/zero-day-ai/conductor/internal/types"
)

// Registry manages tool registration and lookup. All operations are safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry. Registering a duplicate or unnamed
// tool is an error.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return types.NewError(types.EXECUTION_TOOL_FAILED, "tool cannot be nil")
	}

	name := t.Name()
	if name == "" {
		return types.NewError(types.EXECUTION_TOOL_FAILED, "tool name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return types.NewErrorf(types.EXECUTION_TOOL_FAILED, "tool %q already registered", name)
	}

	r.tools[name] = t
	return nil
}

// Get retrieves a tool by name, returning EXECUTION_TOOL_NOT_FOUND for
// unregistered names.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, types.NewErrorf(types.EXECUTION_TOOL_NOT_FOUND, "tool %q is not registered", name)
	}
	return t, nil
}

// Call looks up a tool by name and invokes it.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	t, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return t.Invoke(ctx, args)
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defs derives the tool-definition list handed to the reasoning step's
// tool-enabled chat call, in sorted name order.
func (r *Registry) Defs() []llm.ToolDef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]llm.ToolDef, 0, len(names))
	for _, name := range names {
		t := r.tools[name]
		defs = append(defs, llm.ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
