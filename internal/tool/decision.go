package tool

import (
	"fmt"
	"strings"
)

// ActionFinish is the universal, policy-independent termination signal. The
// executor answers it without touching the registry.
const ActionFinish = "finish"

// Decision is a structured action proposed by the reasoning step. It is
// validated by the policy before the executor may act on it and is treated as
// immutable afterwards.
type Decision struct {
	// Action names the tool to invoke, or "finish"
	Action string `json:"action"`

	// Params are the arguments for the action
	Params map[string]any `json:"params,omitempty"`

	// Confidence, when present, is the reasoning step's certainty in [0, 1]
	Confidence *float64 `json:"confidence,omitempty"`
}

// IsFinish reports whether this decision is the termination signal.
func (d *Decision) IsFinish() bool {
	return d != nil && d.Action == ActionFinish
}

// String returns a human-readable representation of the decision.
func (d *Decision) String() string {
	if d == nil {
		return "<nil decision>"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Decision{Action: %s", d.Action))
	if d.Confidence != nil {
		sb.WriteString(fmt.Sprintf(", Confidence: %.2f", *d.Confidence))
	}
	sb.WriteString("}")
	return sb.String()
}

// Confident builds the optional confidence field.
func Confident(v float64) *float64 {
	return &v
}
