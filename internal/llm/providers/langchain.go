// Package providers implements the llm.Client contract over langchaingo
// model adapters. It is the production reasoning client; the orchestration
// core itself never imports a provider SDK.
package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/zero-day-ai/conductor/internal/llm"
	"github.com/zero-day-ai/conductor/internal/schema"
	"github.com/zero-day-ai/conductor/internal/types"
)

// Config selects and configures the backing model provider.
type Config struct {
	// Provider is one of "openai", "anthropic", "ollama"
	Provider string

	// Model is the provider-specific model identifier
	Model string

	// APIKey falls back to the provider's conventional environment variable
	APIKey string

	// BaseURL overrides the provider endpoint (openai-compatible gateways,
	// local ollama)
	BaseURL string

	// Temperature is passed through when positive
	Temperature float64

	// MaxTokens caps the completion length when positive
	MaxTokens int
}

// LangchainClient implements llm.Client over a langchaingo model.
type LangchainClient struct {
	model llms.Model
	cfg   Config
}

// New creates a LangchainClient for the configured provider.
func New(cfg Config) (*LangchainClient, error) {
	model, err := newModel(cfg)
	if err != nil {
		return nil, err
	}

	return &LangchainClient{
		model: model,
		cfg:   cfg,
	}, nil
}

func newModel(cfg Config) (llms.Model, error) {
	switch cfg.Provider {
	case "openai":
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, types.NewError(types.LLM_PROVIDER_UNAUTHORIZED, "openai API key is not set")
		}

		opts := []openai.Option{openai.WithToken(apiKey)}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}

		model, err := openai.New(opts...)
		if err != nil {
			return nil, types.WrapError(types.LLM_PROVIDER_INIT_FAILED, "openai init failed", err)
		}
		return model, nil

	case "anthropic":
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, types.NewError(types.LLM_PROVIDER_UNAUTHORIZED, "anthropic API key is not set")
		}

		opts := []anthropic.Option{anthropic.WithToken(apiKey)}
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}

		model, err := anthropic.New(opts...)
		if err != nil {
			return nil, types.WrapError(types.LLM_PROVIDER_INIT_FAILED, "anthropic init failed", err)
		}
		return model, nil

	case "ollama":
		opts := []ollama.Option{}
		if cfg.Model != "" {
			opts = append(opts, ollama.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}

		model, err := ollama.New(opts...)
		if err != nil {
			return nil, types.WrapError(types.LLM_PROVIDER_INIT_FAILED, "ollama init failed", err)
		}
		return model, nil

	default:
		return nil, types.NewErrorf(types.LLM_PROVIDER_NOT_FOUND, "unknown provider %q", cfg.Provider)
	}
}

// Generate performs a single-shot structured completion. The schema is
// embedded in the prompt and the response is parsed fence-tolerantly, which
// covers providers without a native JSON mode.
func (c *LangchainClient) Generate(ctx context.Context, prompt string, s schema.JSONSchema) (map[string]any, error) {
	schemaText, err := s.MarshalIndent()
	if err != nil {
		return nil, types.WrapError(types.LLM_COMPLETION_FAILED, "schema serialization failed", err)
	}

	full := fmt.Sprintf("%s\n\nRespond with a single JSON object matching this schema:\n%s", prompt, schemaText)

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(full)},
		},
	}

	resp, err := c.model.GenerateContent(ctx, messages, c.callOptions(llms.WithJSONMode())...)
	if err != nil {
		return nil, types.WrapError(types.LLM_COMPLETION_FAILED, "structured completion failed", err)
	}

	completion := fromContentResponse(resp)
	return llm.ExtractJSONMap(completion.Content)
}

// Chat performs a tool-less conversational completion over the transcript.
func (c *LangchainClient) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	resp, err := c.model.GenerateContent(ctx, toContentMessages(messages), c.callOptions()...)
	if err != nil {
		return "", types.WrapError(types.LLM_COMPLETION_FAILED, "chat completion failed", err)
	}

	return fromContentResponse(resp).Content, nil
}

// ChatWithTools performs a conversational completion with tool definitions.
func (c *LangchainClient) ChatWithTools(ctx context.Context, messages []llm.Message, tools []llm.ToolDef) (*llm.Completion, error) {
	lcTools, err := toLangchainTools(tools)
	if err != nil {
		return nil, types.WrapError(types.LLM_COMPLETION_FAILED, "tool definition conversion failed", err)
	}

	opts := c.callOptions()
	if len(lcTools) > 0 {
		opts = append(opts, llms.WithTools(lcTools))
	}

	resp, err := c.model.GenerateContent(ctx, toContentMessages(messages), opts...)
	if err != nil {
		return nil, types.WrapError(types.LLM_COMPLETION_FAILED, "tool completion failed", err)
	}

	return fromContentResponse(resp), nil
}

func (c *LangchainClient) callOptions(extra ...llms.CallOption) []llms.CallOption {
	opts := make([]llms.CallOption, 0, len(extra)+2)

	if c.cfg.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(c.cfg.Temperature))
	}
	if c.cfg.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(c.cfg.MaxTokens))
	}

	return append(opts, extra...)
}
