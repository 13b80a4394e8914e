package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the name of the tracer for analysis operations.
	TracerName = "meeting-insights"
)

// Span attribute keys
const (
	AttrMeetingID        = "meeting_id"
	AttrAgent            = "agent"
	AttrOperation        = "operation"
	AttrStrategy         = "strategy"
	AttrBackend          = "backend"
	AttrModel            = "model"
	AttrUtterances       = "utterances"
	AttrSuccessfulAgents = "successful_agents"
	AttrState            = "state"
)

// Span names
const (
	SpanOrchestrate = "analysis.orchestrate"
	SpanAgent       = "analysis.agent"
	SpanStrategy    = "analysis.strategy"
	SpanLLMCall     = "analysis.llm_call"
)

// Tracer provides distributed tracing for analysis operations.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a tracer from the global provider.
func NewTracer() *Tracer {
	return &Tracer{
		tracer: otel.Tracer(TracerName),
	}
}

func (t *Tracer) get() trace.Tracer {
	if t == nil || t.tracer == nil {
		return otel.Tracer(TracerName)
	}
	return t.tracer
}

// StartOrchestrationSpan starts the root span for one meeting analysis.
func (t *Tracer) StartOrchestrationSpan(ctx context.Context, meetingID string, utterances int) (context.Context, trace.Span) {
	return t.get().Start(ctx, SpanOrchestrate,
		trace.WithAttributes(
			attribute.String(AttrMeetingID, meetingID),
			attribute.Int(AttrUtterances, utterances),
		),
	)
}

// StartAgentSpan starts a span for one agent execution.
func (t *Tracer) StartAgentSpan(ctx context.Context, agent, meetingID string) (context.Context, trace.Span) {
	return t.get().Start(ctx, SpanAgent,
		trace.WithAttributes(
			attribute.String(AttrAgent, agent),
			attribute.String(AttrMeetingID, meetingID),
		),
	)
}

// StartStrategySpan starts a span for one strategy attempt.
func (t *Tracer) StartStrategySpan(ctx context.Context, operation, strategy string) (context.Context, trace.Span) {
	return t.get().Start(ctx, SpanStrategy,
		trace.WithAttributes(
			attribute.String(AttrOperation, operation),
			attribute.String(AttrStrategy, strategy),
		),
	)
}

// StartLLMSpan starts a span for a distillation backend call.
func (t *Tracer) StartLLMSpan(ctx context.Context, backend, model string) (context.Context, trace.Span) {
	return t.get().Start(ctx, SpanLLMCall,
		trace.WithAttributes(
			attribute.String(AttrBackend, backend),
			attribute.String(AttrModel, model),
		),
	)
}

// SetOrchestrationOutcome records the final state and the number of agents
// that succeeded on an orchestration span.
func SetOrchestrationOutcome(span trace.Span, state string, successfulAgents int) {
	span.SetAttributes(
		attribute.String(AttrState, state),
		attribute.Int(AttrSuccessfulAgents, successfulAgents),
	)
}

// EndSpan records err on span (if any) and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
