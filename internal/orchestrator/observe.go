package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zero-day-ai/conductor/internal/events"
	"github.com/zero-day-ai/conductor/internal/fsm"
	"github.com/zero-day-ai/conductor/internal/llm"
	"github.com/zero-day-ai/conductor/internal/tool"
	"github.com/zero-day-ai/conductor/internal/types"
)

// handleObserve dispatches every pending tool call sequentially, in order.
// A failure in one call is recorded as a tool-role error payload and does not
// abort the rest of the batch. The phase always ends in LOOP_CHECK.
//
// Policy violations are the one exception: a decision that fails static
// validation is surfaced to the caller immediately, never retried.
func (o *Orchestrator) handleObserve(ctx context.Context, rc *run) error {
	rc.observations = 0

	for _, call := range rc.pending {
		rc.observations++

		args, err := call.ParseArguments()
		if err != nil {
			o.logger.Warn("tool arguments unparseable",
				"run_id", rc.id,
				"tool", call.Name,
				"error", err,
			)
			rc.messages = append(rc.messages, llm.NewToolResultMessage(call.ID,
				errorPayload(call.Name, err)))
			continue
		}

		decision := decisionFromCall(call, args)
		rc.lastDecision = decision

		if err := o.policy.Validate(decision); err != nil {
			return err
		}

		o.publish(events.New(events.EventToolCallStarted, rc.id, map[string]any{
			"tool": call.Name,
		}))

		result, err := o.executor.Execute(ctx, decision, rc.st)
		if err != nil {
			o.publish(events.New(events.EventToolCallFailed, rc.id, map[string]any{
				"tool":  call.Name,
				"error": err.Error(),
			}))
			o.logger.Warn("tool call failed",
				"run_id", rc.id,
				"tool", call.Name,
				"error", err,
			)
			rc.messages = append(rc.messages, llm.NewToolResultMessage(call.ID,
				errorPayload(call.Name, err)))
			continue
		}

		o.publish(events.New(events.EventToolCallCompleted, rc.id, map[string]any{
			"tool": call.Name,
		}))

		if decision.IsFinish() {
			rc.doneRequested = true
		}

		rc.messages = append(rc.messages, llm.NewToolResultMessage(call.ID,
			marshalResult(result)))
	}

	rc.pending = nil
	rc.st.Delete("pending_tool_calls")

	return o.transition(rc, fsm.PhaseLoopCheck, "observations recorded")
}

// decisionFromCall lifts a wire-level tool call into a Decision. A numeric
// "confidence" argument is promoted onto the decision itself so the policy
// can gate on it.
func decisionFromCall(call llm.ToolCall, args map[string]any) *tool.Decision {
	d := &tool.Decision{
		Action: call.Name,
		Params: args,
	}
	if c, ok := args["confidence"].(float64); ok {
		d.Confidence = &c
		delete(args, "confidence")
	}
	return d
}

func marshalResult(result any) string {
	data, err := json.Marshal(map[string]any{"result": result})
	if err != nil {
		return fmt.Sprintf(`{"result":%q}`, fmt.Sprint(result))
	}
	return string(data)
}

func errorPayload(toolName string, err error) string {
	payload := map[string]any{
		"error": err.Error(),
		"tool":  toolName,
	}
	if code := types.CodeOf(err); code != "" {
		payload["code"] = string(code)
	}
	data, merr := json.Marshal(payload)
	if merr != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(data)
}
