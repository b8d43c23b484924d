package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/conductor/internal/audit"
	"github.com/zero-day-ai/conductor/internal/events"
	"github.com/zero-day-ai/conductor/internal/llm"
	"github.com/zero-day-ai/conductor/internal/policy"
	"github.com/zero-day-ai/conductor/internal/schema"
	"github.com/zero-day-ai/conductor/internal/state"
	"github.com/zero-day-ai/conductor/internal/tool"
	"github.com/zero-day-ai/conductor/internal/types"
)

type mockClient struct {
	generateFunc      func(ctx context.Context, prompt string, s schema.JSONSchema) (map[string]any, error)
	chatFunc          func(ctx context.Context, messages []llm.Message) (string, error)
	chatWithToolsFunc func(ctx context.Context, messages []llm.Message, tools []llm.ToolDef) (*llm.Completion, error)

	chatWithToolsCalls int
}

func (m *mockClient) Generate(ctx context.Context, prompt string, s schema.JSONSchema) (map[string]any, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, prompt, s)
	}
	return map[string]any{"goal": "test goal"}, nil
}

func (m *mockClient) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	if m.chatFunc != nil {
		return m.chatFunc(ctx, messages)
	}
	return "summary", nil
}

func (m *mockClient) ChatWithTools(ctx context.Context, messages []llm.Message, tools []llm.ToolDef) (*llm.Completion, error) {
	m.chatWithToolsCalls++
	if m.chatWithToolsFunc != nil {
		return m.chatWithToolsFunc(ctx, messages, tools)
	}
	return &llm.Completion{Content: "all done"}, nil
}

type captureBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *captureBus) Publish(event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *captureBus) typesSeen() map[events.EventType]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[events.EventType]int)
	for _, e := range b.events {
		seen[e.Type]++
	}
	return seen
}

func finishCall() llm.ToolCall {
	return llm.ToolCall{ID: "call-1", Name: tool.ActionFinish, Arguments: "{}"}
}

func echoRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	registry := tool.NewRegistry()
	err := registry.Register(tool.NewFunc("echo", "echoes its input",
		schema.NewObjectSchema(map[string]schema.SchemaField{
			"text": schema.NewStringField("text to echo"),
		}, []string{"text"}),
		func(ctx context.Context, args map[string]any) (any, error) {
			return args["text"], nil
		},
	))
	require.NoError(t, err)
	return registry
}

func TestRunFinishOnFirstPass(t *testing.T) {
	client := &mockClient{
		chatWithToolsFunc: func(ctx context.Context, messages []llm.Message, tools []llm.ToolDef) (*llm.Completion, error) {
			return &llm.Completion{ToolCalls: []llm.ToolCall{finishCall()}}, nil
		},
	}

	orch := New(client, echoRegistry(t))

	result, err := orch.Run(context.Background(), "finish immediately")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Done)
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, "summary", result.FinalMessage)
	assert.False(t, result.RunID.IsZero())
}

func TestRunTextOnlyCompletion(t *testing.T) {
	client := &mockClient{
		chatWithToolsFunc: func(ctx context.Context, messages []llm.Message, tools []llm.ToolDef) (*llm.Completion, error) {
			return &llm.Completion{Content: "the answer is 4"}, nil
		},
	}

	orch := New(client, echoRegistry(t))

	result, err := orch.Run(context.Background(), "what is 2+2")
	require.NoError(t, err)

	assert.True(t, result.Done)
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, "the answer is 4", result.FinalMessage)

	snapshot := result.State
	assert.Equal(t, "what is 2+2", snapshot["goal"])
	assert.Equal(t, true, snapshot["continue"])
}

func TestRunConvergenceStopsLoop(t *testing.T) {
	// The client would keep proposing tool calls forever; the convergence
	// predicate must stop the run after the first observation pass.
	client := &mockClient{
		chatWithToolsFunc: func(ctx context.Context, messages []llm.Message, tools []llm.ToolDef) (*llm.Completion, error) {
			return &llm.Completion{ToolCalls: []llm.ToolCall{
				{ID: "call-1", Name: "echo", Arguments: `{"text":"hi"}`},
			}}, nil
		},
	}

	orch := New(client, echoRegistry(t),
		WithPolicy(policy.New(policy.WithConvergence(policy.ConvergeOnSignal(state.SignalToolCalled)))),
	)

	result, err := orch.Run(context.Background(), "loop forever")
	require.NoError(t, err)

	assert.True(t, result.Done)
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, 1, client.chatWithToolsCalls)
}

func TestRunPlanFailureHalts(t *testing.T) {
	planErr := errors.New("model unavailable")
	client := &mockClient{
		generateFunc: func(ctx context.Context, prompt string, s schema.JSONSchema) (map[string]any, error) {
			return nil, planErr
		},
	}

	orch := New(client, echoRegistry(t))

	result, err := orch.Run(context.Background(), "anything")
	require.Error(t, err)
	assert.Nil(t, result)

	assert.Equal(t, types.EXECUTION_HALTED, types.CodeOf(err))
	assert.Contains(t, err.Error(), "model unavailable")
	assert.ErrorIs(t, err, planErr)
}

func TestRunIterationCeiling(t *testing.T) {
	client := &mockClient{
		chatWithToolsFunc: func(ctx context.Context, messages []llm.Message, tools []llm.ToolDef) (*llm.Completion, error) {
			return &llm.Completion{ToolCalls: []llm.ToolCall{
				{ID: "call-1", Name: "echo", Arguments: `{"text":"again"}`},
			}}, nil
		},
	}

	orch := New(client, echoRegistry(t), WithMaxIterations(2))

	result, err := orch.Run(context.Background(), "never stops")
	require.Error(t, err)
	assert.Nil(t, result)

	assert.Equal(t, types.EXECUTION_MAX_ITERATIONS, types.CodeOf(err))
	assert.Contains(t, err.Error(), "2")
	assert.Equal(t, 2, client.chatWithToolsCalls)
}

func TestRunToolFailureContinuesBatch(t *testing.T) {
	registry := tool.NewRegistry()
	require.NoError(t, registry.Register(tool.NewFunc("broken", "always fails",
		schema.NewObjectSchema(nil, nil),
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("boom")
		},
	)))

	pass := 0
	client := &mockClient{
		chatWithToolsFunc: func(ctx context.Context, messages []llm.Message, tools []llm.ToolDef) (*llm.Completion, error) {
			pass++
			if pass == 1 {
				return &llm.Completion{ToolCalls: []llm.ToolCall{
					{ID: "call-1", Name: "broken", Arguments: "{}"},
					{ID: "call-2", Name: "missing", Arguments: "{}"},
				}}, nil
			}
			return &llm.Completion{Content: "recovered"}, nil
		},
	}

	orch := New(client, registry)

	result, err := orch.Run(context.Background(), "tolerate failures")
	require.NoError(t, err)

	assert.True(t, result.Done)
	assert.Equal(t, "recovered", result.FinalMessage)
	assert.Equal(t, 2, result.Iterations)
}

func TestRunPolicyViolationSurfacedImmediately(t *testing.T) {
	client := &mockClient{
		chatWithToolsFunc: func(ctx context.Context, messages []llm.Message, tools []llm.ToolDef) (*llm.Completion, error) {
			return &llm.Completion{ToolCalls: []llm.ToolCall{
				{ID: "call-1", Name: "echo", Arguments: `{"text":"hi","confidence":0.2}`},
			}}, nil
		},
	}

	orch := New(client, echoRegistry(t))

	result, err := orch.Run(context.Background(), "low confidence")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, types.IsPolicyViolation(err))
}

func TestRunMalformedArgumentsContinue(t *testing.T) {
	pass := 0
	client := &mockClient{
		chatWithToolsFunc: func(ctx context.Context, messages []llm.Message, tools []llm.ToolDef) (*llm.Completion, error) {
			pass++
			if pass == 1 {
				return &llm.Completion{ToolCalls: []llm.ToolCall{
					{ID: "call-1", Name: "echo", Arguments: "{not json"},
				}}, nil
			}
			// The error payload must have reached the transcript as a
			// tool-role message before the second pass.
			for _, m := range messages {
				if m.Role == llm.RoleTool {
					return &llm.Completion{Content: "saw the error"}, nil
				}
			}
			return nil, errors.New("tool error message missing from transcript")
		},
	}

	orch := New(client, echoRegistry(t))

	result, err := orch.Run(context.Background(), "bad arguments")
	require.NoError(t, err)
	assert.Equal(t, "saw the error", result.FinalMessage)
}

func TestRunRecordsAuditAndEvents(t *testing.T) {
	recorder := audit.NewMemoryRecorder()
	bus := &captureBus{}

	client := &mockClient{
		chatWithToolsFunc: func(ctx context.Context, messages []llm.Message, tools []llm.ToolDef) (*llm.Completion, error) {
			return &llm.Completion{ToolCalls: []llm.ToolCall{finishCall()}}, nil
		},
	}

	orch := New(client, echoRegistry(t),
		WithRecorder(recorder),
		WithEventBus(bus),
	)

	result, err := orch.Run(context.Background(), "audited run")
	require.NoError(t, err)

	entries := recorder.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, result.RunID, entries[0].RunID)
	assert.Equal(t, "audited run", entries[0].Input)
	require.NotNil(t, entries[0].Decision)
	assert.Equal(t, tool.ActionFinish, entries[0].Decision.Action)
	assert.Equal(t, true, entries[0].Result["done"])

	seen := bus.typesSeen()
	assert.Equal(t, 1, seen[events.EventRunStarted])
	assert.Equal(t, 1, seen[events.EventRunCompleted])
	assert.Positive(t, seen[events.EventPhaseTransition])
	assert.Equal(t, 1, seen[events.EventToolCallStarted])
	assert.Equal(t, 1, seen[events.EventToolCallCompleted])
}

func TestRunHaltRecordsAudit(t *testing.T) {
	recorder := audit.NewMemoryRecorder()

	client := &mockClient{
		generateFunc: func(ctx context.Context, prompt string, s schema.JSONSchema) (map[string]any, error) {
			return nil, errors.New("no provider")
		},
	}

	orch := New(client, echoRegistry(t), WithRecorder(recorder))

	_, err := orch.Run(context.Background(), "doomed run")
	require.Error(t, err)

	entries := recorder.Entries()
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Decision)
	assert.Equal(t, false, entries[0].Result["done"])
	assert.Contains(t, entries[0].Result["reason"], "planning failed")
}

func TestRunInputBuilder(t *testing.T) {
	var seenPrompt string
	client := &mockClient{
		generateFunc: func(ctx context.Context, prompt string, s schema.JSONSchema) (map[string]any, error) {
			seenPrompt = prompt
			return map[string]any{"goal": "built"}, nil
		},
	}

	orch := New(client, echoRegistry(t))

	result, err := orch.Run(context.Background(), "raw", func(input string) string {
		return "built: " + input
	})
	require.NoError(t, err)

	assert.Contains(t, seenPrompt, "built: raw")
	assert.Equal(t, "built: raw", result.State["goal"])
}

func TestRunReusableAcrossRuns(t *testing.T) {
	client := &mockClient{}
	orch := New(client, echoRegistry(t))

	first, err := orch.Run(context.Background(), "first")
	require.NoError(t, err)

	second, err := orch.Run(context.Background(), "second")
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, "second", second.State["goal"])

	// History must not leak between runs.
	assert.Equal(t, len(first.History), len(second.History))
	for _, tr := range second.History {
		assert.LessOrEqual(t, tr.Iteration, second.Iterations)
	}
}

func TestRunHistoryShape(t *testing.T) {
	client := &mockClient{}
	orch := New(client, echoRegistry(t))

	result, err := orch.Run(context.Background(), "history")
	require.NoError(t, err)

	require.NotEmpty(t, result.History)
	assert.Equal(t, "INTAKE", result.History[0].From.String())
	assert.Equal(t, "PLAN", result.History[0].To.String())
	assert.Equal(t, "FINALIZE", result.History[len(result.History)-1].To.String())
}

func TestDecisionFromCall(t *testing.T) {
	tests := []struct {
		name           string
		args           map[string]any
		wantConfidence *float64
	}{
		{
			name:           "no confidence argument",
			args:           map[string]any{"text": "hi"},
			wantConfidence: nil,
		},
		{
			name:           "numeric confidence promoted",
			args:           map[string]any{"text": "hi", "confidence": 0.9},
			wantConfidence: tool.Confident(0.9),
		},
		{
			name:           "non numeric confidence ignored",
			args:           map[string]any{"confidence": "high"},
			wantConfidence: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decisionFromCall(llm.ToolCall{Name: "echo"}, tt.args)
			assert.Equal(t, "echo", d.Action)
			if tt.wantConfidence == nil {
				assert.Nil(t, d.Confidence)
			} else {
				require.NotNil(t, d.Confidence)
				assert.Equal(t, *tt.wantConfidence, *d.Confidence)
				_, still := tt.args["confidence"]
				assert.False(t, still)
			}
		})
	}
}

func TestMarshalResult(t *testing.T) {
	assert.JSONEq(t, `{"result":"ok"}`, marshalResult("ok"))
	assert.JSONEq(t, `{"result":{"done":true}}`, marshalResult(map[string]any{"done": true}))
	assert.Contains(t, marshalResult(func() {}), "result")
}

func TestErrorPayloadCarriesCode(t *testing.T) {
	err := types.NewError(types.EXECUTION_TOOL_NOT_FOUND, "tool missing")
	payload := errorPayload("missing", err)

	assert.Contains(t, payload, "tool missing")
	assert.Contains(t, payload, string(types.EXECUTION_TOOL_NOT_FOUND))
	assert.Contains(t, payload, `"tool":"missing"`)
}

func TestResultMap(t *testing.T) {
	r := &Result{Done: true, Iterations: 3, FinalMessage: "bye", State: map[string]any{"k": "v"}}
	m := r.Map()

	assert.Equal(t, true, m["done"])
	assert.Equal(t, 3, m["iterations"])
	assert.Equal(t, "bye", m["final_message"])
	assert.Equal(t, map[string]any{"k": "v"}, m["state"])
}

func ExampleOrchestrator_Run() {
	client := &mockClient{
		chatWithToolsFunc: func(ctx context.Context, messages []llm.Message, tools []llm.ToolDef) (*llm.Completion, error) {
			return &llm.Completion{Content: "done"}, nil
		},
		chatFunc: func(ctx context.Context, messages []llm.Message) (string, error) {
			return "done", nil
		},
	}

	orch := New(client, tool.NewRegistry())
	result, _ := orch.Run(context.Background(), "say done")
	fmt.Println(result.Done, result.Iterations)
	// Output: true 1
}
