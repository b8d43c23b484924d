package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/conductor/internal/audit"
	"github.com/zero-day-ai/conductor/internal/events"
	"github.com/zero-day-ai/conductor/internal/fsm"
	"github.com/zero-day-ai/conductor/internal/llm"
	"github.com/zero-day-ai/conductor/internal/policy"
	"github.com/zero-day-ai/conductor/internal/state"
	"github.com/zero-day-ai/conductor/internal/tool"
	"github.com/zero-day-ai/conductor/internal/types"
)

// EventBus is the interface for emitting orchestration events.
type EventBus interface {
	Publish(event events.Event) error
}

// Orchestrator coordinates the reasoning client, the policy, and the tool
// executor over the state machine. A single instance may be reused across
// sequential runs; it must not serve concurrent runs.
type Orchestrator struct {
	client   llm.Client
	registry *tool.Registry
	executor *tool.Executor
	policy   *policy.Policy
	recorder audit.Recorder
	bus      EventBus
	logger   *slog.Logger
	tracer   trace.Tracer

	maxIterations int
	machine       *fsm.Machine
}

// Option is a functional option for configuring the Orchestrator.
type Option func(*Orchestrator)

// WithMaxIterations sets the hard ceiling on EXECUTE passes per run.
// Default: fsm.DefaultMaxIterations.
func WithMaxIterations(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxIterations = n
		}
	}
}

// WithPolicy sets the validation/convergence policy.
func WithPolicy(p *policy.Policy) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.policy = p
		}
	}
}

// WithRecorder sets the optional audit-log collaborator.
func WithRecorder(r audit.Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithEventBus sets the event bus for emitting orchestration events.
func WithEventBus(bus EventBus) Option {
	return func(o *Orchestrator) {
		if bus != nil {
			o.bus = bus
		}
	}
}

// WithLogger sets the logger for orchestrator operations.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer sets the OpenTelemetry tracer for distributed tracing.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// New creates an Orchestrator over the given reasoning client and tool
// registry.
func New(client llm.Client, registry *tool.Registry, options ...Option) *Orchestrator {
	if registry == nil {
		registry = tool.NewRegistry()
	}

	o := &Orchestrator{
		client:        client,
		registry:      registry,
		executor:      tool.NewExecutor(registry),
		policy:        policy.New(),
		maxIterations: fsm.DefaultMaxIterations,
		logger:        slog.Default(),
		tracer:        trace.NewNoopTracerProvider().Tracer("orchestrator"),
	}

	for _, opt := range options {
		opt(o)
	}

	o.machine = fsm.NewMachine(o.maxIterations)
	return o
}

// run holds the mutable context of a single run.
type run struct {
	id            types.ID
	input         string
	st            *state.State
	messages      []llm.Message
	pending       []llm.ToolCall
	observations  int
	doneRequested bool
	lastDecision  *tool.Decision
	haltReason    string
	haltErr       error
}

// InputBuilder optionally transforms the caller's initial input before it is
// seeded into the transcript.
type InputBuilder func(input string) string

// Run executes one orchestration run over the initial input. It returns the
// terminal result on FINALIZE, or an error when the run halts; there is no
// partial return value. The machine and state are reset per call, so history
// never leaks between runs.
func (o *Orchestrator) Run(ctx context.Context, input string, builders ...InputBuilder) (*Result, error) {
	for _, build := range builders {
		if build != nil {
			input = build(input)
		}
	}

	o.machine.Reset()

	rc := &run{
		id:    types.NewID(),
		input: input,
		st:    state.New(),
	}

	ctx, span := o.tracer.Start(ctx, "orchestrator.Run")
	defer span.End()

	o.publish(events.New(events.EventRunStarted, rc.id, map[string]any{
		"input":          input,
		"max_iterations": o.maxIterations,
	}))

	o.logger.Info("run starting",
		"run_id", rc.id,
		"max_iterations", o.maxIterations,
	)

	// Explicit iterative driver: re-dispatch on the current phase until a
	// terminal phase is reached. Handlers transition, never recurse.
	for {
		var err error

		switch o.machine.Current() {
		case fsm.PhaseIntake:
			err = o.handleIntake(ctx, rc)
		case fsm.PhasePlan:
			err = o.handlePlan(ctx, rc)
		case fsm.PhaseDecide:
			err = o.handleDecide(ctx, rc)
		case fsm.PhaseExecute:
			err = o.handleExecute(ctx, rc)
		case fsm.PhaseObserve:
			err = o.handleObserve(ctx, rc)
		case fsm.PhaseLoopCheck:
			err = o.handleLoopCheck(ctx, rc)
		case fsm.PhaseFinalize:
			return o.handleFinalize(ctx, rc)
		case fsm.PhaseHalt:
			return nil, o.handleHalt(ctx, rc)
		default:
			return nil, types.NewErrorf(types.FSM_UNKNOWN_PHASE, "driver reached unknown phase %q", o.machine.Current())
		}

		// A handler error here is either a policy violation or an illegal
		// transition; both surface to the caller unchanged.
		if err != nil {
			o.logger.Error("phase handler failed",
				"run_id", rc.id,
				"phase", o.machine.Current(),
				"error", err,
			)
			return nil, err
		}
	}
}

// transition moves the machine and emits the phase event.
func (o *Orchestrator) transition(rc *run, target fsm.Phase, reason string) error {
	from := o.machine.Current()
	if err := o.machine.TransitionTo(target, reason); err != nil {
		return err
	}

	o.logger.Debug("phase transition",
		"run_id", rc.id,
		"from", from,
		"to", target,
		"reason", reason,
		"iteration", o.machine.Iteration(),
	)

	o.publish(events.New(events.EventPhaseTransition, rc.id, map[string]any{
		"from":      from.String(),
		"to":        target.String(),
		"reason":    reason,
		"iteration": o.machine.Iteration(),
	}))

	return nil
}

// halt records the halt cause and transitions to HALT. The HALT handler is
// the single choke point that converts it into the caller-visible error.
func (o *Orchestrator) haltRun(rc *run, reason string, cause error) error {
	rc.haltReason = reason
	rc.haltErr = cause
	return o.transition(rc, fsm.PhaseHalt, reason)
}

func (o *Orchestrator) publish(event events.Event) {
	if o.bus == nil {
		return
	}
	if err := o.bus.Publish(event); err != nil {
		o.logger.Debug("event publish failed", "type", event.Type, "error", err)
	}
}

func (o *Orchestrator) record(ctx context.Context, rc *run, result map[string]any) {
	if o.recorder == nil {
		return
	}

	entry := audit.Entry{
		RunID:      rc.id,
		RecordedAt: time.Now().UTC(),
		Input:      rc.input,
		Decision:   rc.lastDecision,
		Result:     result,
	}
	if err := o.recorder.Record(ctx, entry); err != nil {
		// Audit failures never alter the run outcome.
		o.logger.Warn("audit record failed", "run_id", rc.id, "error", err)
	}
}
