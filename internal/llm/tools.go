package llm

import (
	"encoding/json"
	"fmt"

	"github.com/zero-day-ai/conductor/internal/schema"
)

// ToolDef defines a tool the reasoning step may request during EXECUTE.
type ToolDef struct {
	// Name is the unique identifier for this tool
	Name string `json:"name"`

	// Description explains what the tool does and when to use it
	Description string `json:"description"`

	// Parameters defines the JSON schema for the tool's input parameters
	Parameters schema.JSONSchema `json:"parameters"`
}

// Validate checks if the tool definition is valid.
func (t ToolDef) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tool name is required")
	}

	if t.Description == "" {
		return fmt.Errorf("tool description is required")
	}

	if t.Parameters.Type != "" && t.Parameters.Type != "object" {
		return fmt.Errorf("tool parameters must be an object schema, got %s", t.Parameters.Type)
	}

	return nil
}

// ToolCall represents a tool invocation requested by the reasoning step. The
// arguments arrive as a serialized JSON object that must be parsed before
// dispatch.
type ToolCall struct {
	// ID is the provider-assigned identifier for this call, may be empty
	ID string `json:"id,omitempty"`

	// Name is the name of the tool to call
	Name string `json:"name"`

	// Arguments contains the JSON-encoded arguments for the tool
	Arguments string `json:"arguments"`
}

// ParseArguments deserializes the raw argument string into a generic map.
func (t ToolCall) ParseArguments() (map[string]any, error) {
	if t.Arguments == "" {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(t.Arguments), &args); err != nil {
		return nil, fmt.Errorf("failed to parse tool call arguments: %w", err)
	}

	return args, nil
}

// Validate checks if the tool call is well-formed.
func (t ToolCall) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tool call name is required")
	}

	if t.Arguments != "" {
		var tmp any
		if err := json.Unmarshal([]byte(t.Arguments), &tmp); err != nil {
			return fmt.Errorf("tool call arguments must be valid JSON: %w", err)
		}
	}

	return nil
}

// ToolResult represents the outcome of executing a tool call, serialized back
// into the transcript for the next reasoning step.
type ToolResult struct {
	// ToolCallID is the ID of the tool call this result corresponds to
	ToolCallID string `json:"tool_call_id,omitempty"`

	// Content is the result content to return to the model
	Content string `json:"content"`

	// IsError indicates whether the tool execution resulted in an error
	IsError bool `json:"is_error,omitempty"`
}

// NewToolResult creates a successful tool result.
func NewToolResult(toolCallID string, content string) ToolResult {
	return ToolResult{
		ToolCallID: toolCallID,
		Content:    content,
	}
}

// NewToolError creates an error tool result.
func NewToolError(toolCallID string, errorMessage string) ToolResult {
	return ToolResult{
		ToolCallID: toolCallID,
		Content:    errorMessage,
		IsError:    true,
	}
}

// Message converts the result into a tool-role transcript message.
func (r ToolResult) Message() Message {
	return NewToolResultMessage(r.ToolCallID, r.Content)
}
