package main

import (
	"context"
	"time"

	"github.com/zero-day-ai/conductor/internal/schema"
	"github.com/zero-day-ai/conductor/internal/tool"
)

// builtinRegistry holds the small set of tools every run gets. Applications
// embedding the orchestrator register their own.
func builtinRegistry() *tool.Registry {
	registry := tool.NewRegistry()

	// Registration of statically defined tools cannot fail.
	_ = registry.Register(tool.NewFunc(
		"current_time",
		"Returns the current UTC time in RFC 3339 form.",
		schema.NewObjectSchema(nil, nil),
		func(ctx context.Context, args map[string]any) (any, error) {
			return time.Now().UTC().Format(time.RFC3339), nil
		},
	))

	_ = registry.Register(tool.NewFunc(
		"remember",
		"Stores a note for later steps and echoes it back.",
		schema.NewObjectSchema(map[string]schema.SchemaField{
			"note": schema.NewStringField("the note to keep"),
		}, []string{"note"}),
		func(ctx context.Context, args map[string]any) (any, error) {
			return args["note"], nil
		},
	))

	return registry
}
