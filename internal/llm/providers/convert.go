package providers

import (
	"github.com/tmc/langchaingo/llms"

	"github.com/zero-day-ai/conductor/internal/llm"
)

// toContentMessages converts transcript messages to langchaingo MessageContent.
func toContentMessages(messages []llm.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))

	for _, msg := range messages {
		var role llms.ChatMessageType

		switch msg.Role {
		case llm.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case llm.RoleUser:
			role = llms.ChatMessageTypeHuman
		case llm.RoleAssistant:
			role = llms.ChatMessageTypeAI
		case llm.RoleTool:
			role = llms.ChatMessageTypeTool
		default:
			role = llms.ChatMessageTypeHuman
		}

		result = append(result, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}

	return result
}

// toLangchainTools converts tool definitions to langchaingo function tools.
func toLangchainTools(tools []llm.ToolDef) ([]llms.Tool, error) {
	result := make([]llms.Tool, 0, len(tools))

	for _, def := range tools {
		params, err := def.Parameters.ToMap()
		if err != nil {
			return nil, err
		}

		result = append(result, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  params,
			},
		})
	}

	return result, nil
}

// fromContentResponse converts a langchaingo response to the core Completion
// shape: assistant text plus any requested tool calls.
func fromContentResponse(resp *llms.ContentResponse) *llm.Completion {
	if resp == nil || len(resp.Choices) == 0 {
		return &llm.Completion{}
	}

	choice := resp.Choices[0]
	completion := &llm.Completion{Content: choice.Content}

	for _, tc := range choice.ToolCalls {
		var name, arguments string
		if tc.FunctionCall != nil {
			name = tc.FunctionCall.Name
			arguments = tc.FunctionCall.Arguments
		}

		completion.ToolCalls = append(completion.ToolCalls, llm.ToolCall{
			ID:        tc.ID,
			Name:      name,
			Arguments: arguments,
		})
	}

	return completion
}
