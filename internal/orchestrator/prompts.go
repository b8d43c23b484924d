package orchestrator

import (
	"fmt"

	"github.com/zero-day-ai/conductor/internal/schema"
)

// planSchema describes the structured plan the reasoning client must return
// during PLAN.
func planSchema() schema.JSONSchema {
	return schema.NewObjectSchema(
		map[string]schema.SchemaField{
			"goal":                  schema.NewStringField("restatement of the objective in one sentence"),
			"required_capabilities": schema.NewArrayField("tool or knowledge capabilities the run will need", schema.NewStringField("capability name")),
			"steps":                 schema.NewArrayField("ordered high level steps toward the goal", schema.NewStringField("step description")),
		},
		[]string{"goal"},
	)
}

func planPrompt(input string, toolNames []string) string {
	prompt := fmt.Sprintf(`You are the planning step of an autonomous run.

Objective:
%s

Produce a short plan for achieving the objective.`, input)

	if len(toolNames) > 0 {
		prompt += "\n\nAvailable tools:"
		for _, name := range toolNames {
			prompt += "\n- " + name
		}
	}

	return prompt
}

func summaryPrompt() string {
	return "Summarize the outcome of the work above in one or two sentences."
}
