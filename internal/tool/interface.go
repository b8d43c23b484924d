// Package tool provides the registry of callables available to the reasoning
// step and the executor that dispatches validated decisions through it.
package tool

import (
	"context"

	"github.com/zero-day-ai/conductor/internal/schema"
)

// Tool represents a named, in-process operation the reasoning step may
// request. Tools are the only side-effecting surface of a run; the model
// never invokes one directly.
type Tool interface {
	// Name returns the unique identifier for this tool
	Name() string

	// Description returns a human-readable description of what this tool does
	Description() string

	// Parameters returns the JSON schema for the tool's input
	Parameters() schema.JSONSchema

	// Invoke runs the tool with normalized arguments
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// Func adapts a plain function into a Tool.
type Func struct {
	name        string
	description string
	parameters  schema.JSONSchema
	fn          func(ctx context.Context, args map[string]any) (any, error)
}

// NewFunc creates a Tool from a function.
func NewFunc(name, description string, parameters schema.JSONSchema, fn func(ctx context.Context, args map[string]any) (any, error)) *Func {
	return &Func{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

func (f *Func) Name() string { return f.name }

func (f *Func) Description() string { return f.description }

func (f *Func) Parameters() schema.JSONSchema { return f.parameters }

func (f *Func) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return f.fn(ctx, args)
}
