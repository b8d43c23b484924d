// Package events provides the runtime's observability event taxonomy and a
// filtered, non-blocking publish/subscribe bus. Events are purely
// observational; dropping every subscriber changes nothing in control flow.
package events

import (
	"time"

	"github.com/zero-day-ai/conductor/internal/types"
)

// EventType identifies the category and nature of an event.
type EventType string

// Run lifecycle events
const (
	EventRunStarted   EventType = "run.started"
	EventRunCompleted EventType = "run.completed"
	EventRunHalted    EventType = "run.halted"
)

// Phase events
const (
	EventPhaseTransition EventType = "phase.transition"
)

// Reasoning request events
const (
	EventLLMRequestStarted   EventType = "llm.request.started"
	EventLLMRequestCompleted EventType = "llm.request.completed"
	EventLLMRequestFailed    EventType = "llm.request.failed"
)

// Tool execution events
const (
	EventToolCallStarted   EventType = "tool.call.started"
	EventToolCallCompleted EventType = "tool.call.completed"
	EventToolCallFailed    EventType = "tool.call.failed"
)

// String returns the string representation of the EventType.
func (t EventType) String() string {
	return string(t)
}

// Event is a single observability record emitted during a run.
type Event struct {
	// Type categorizes the event
	Type EventType `json:"type"`

	// Timestamp is when the event occurred
	Timestamp time.Time `json:"timestamp"`

	// RunID identifies the run that emitted the event
	RunID types.ID `json:"run_id,omitempty"`

	// Attrs carries event-specific attributes
	Attrs map[string]any `json:"attrs,omitempty"`
}

// New creates an event stamped with the current time.
func New(eventType EventType, runID types.ID, attrs map[string]any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		RunID:     runID,
		Attrs:     attrs,
	}
}

// Filter selects which events a subscriber receives. Zero-value fields match
// everything.
type Filter struct {
	// Types restricts delivery to the listed event types
	Types []EventType

	// RunID restricts delivery to a single run
	RunID types.ID
}

// Matches reports whether an event passes the filter.
func (f Filter) Matches(e Event) bool {
	if !f.RunID.IsZero() && f.RunID != e.RunID {
		return false
	}

	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if t == e.Type {
			return true
		}
	}
	return false
}
