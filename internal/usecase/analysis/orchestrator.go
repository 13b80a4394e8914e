package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/jobcontext"
	"github.com/johnquangdev/meeting-insights/pkg/telemetry"
)

const orchestratorConfidence = 0.90

// agentOutcome is the individual result of one dispatched agent
type agentOutcome struct {
	agent  entities.AgentType
	result *entities.AnalysisResult
	err    error
}

// Orchestrator runs the speaker profiler and the agenda analyzer in parallel
// and merges whatever they produce
type Orchestrator struct {
	res        *Resources
	speaker    Agent
	agenda     Agent
	runTimeout time.Duration
}

// NewOrchestrator creates an orchestrator over the given agents
func NewOrchestrator(res *Resources, speaker, agenda Agent) *Orchestrator {
	return &Orchestrator{
		res:        res,
		speaker:    speaker,
		agenda:     agenda,
		runTimeout: jobcontext.DefaultRunTimeout,
	}
}

// NewDefaultOrchestrator wires a SpeakerProfiler and an AgendaAnalyzer
func NewDefaultOrchestrator(res *Resources) *Orchestrator {
	return NewOrchestrator(res, NewSpeakerProfiler(res), NewAgendaAnalyzer(res))
}

// Type implements Agent
func (o *Orchestrator) Type() entities.AgentType {
	return entities.AgentTypeOrchestrator
}

// Analyze validates input, runs both agents and merges their results. Only
// a ValidationError is returned; agent failures are reported inside the
// result.
func (o *Orchestrator) Analyze(ctx context.Context, input *entities.AnalysisInput) (*entities.AnalysisResult, error) {
	if err := validateInput(o.res, input); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.New()
	logger := o.res.Logger.With(
		zap.String("meeting_id", input.MeetingID),
		zap.String("run_id", runID.String()),
	)

	ctx, cancel := jobcontext.RunBegin(ctx, runID, input.MeetingID, o.runTimeout)
	defer cancel()
	ctx, span := o.res.Tracer.StartOrchestrationSpan(ctx, input.MeetingID, len(input.Utterances))
	defer telemetry.EndSpan(span, nil)

	state := entities.StateIdle
	transition := func(next entities.OrchestrationState) {
		logger.Info("orchestration state changed",
			zap.String("from", string(state)),
			zap.String("state", string(next)),
		)
		state = next
	}

	transition(entities.StateDispatch)
	agents := []Agent{o.speaker, o.agenda}
	outcomes := make([]agentOutcome, len(agents))
	var wg sync.WaitGroup
	for i, agent := range agents {
		i, agent := i, agent
		wg.Add(1)
		// each agent gets its own snapshot of the input
		snapshot := &entities.AnalysisInput{
			MeetingID:  input.MeetingID,
			Utterances: append(make([]entities.Utterance, 0, len(input.Utterances)), input.Utterances...),
			Language:   input.Language,
		}
		go func() {
			defer wg.Done()
			outcomes[i] = o.runAgent(ctx, agent, snapshot, logger)
		}()
	}

	transition(entities.StateCollecting)
	wg.Wait()

	transition(entities.StateMerging)
	results := make(map[entities.AgentType]*entities.AnalysisResult, len(outcomes))
	failures := make([]entities.AgentFailure, 0)
	for _, oc := range outcomes {
		if oc.err != nil {
			failures = append(failures, entities.AgentFailure{AgentType: oc.agent, Error: oc.err.Error()})
			continue
		}
		results[oc.agent] = oc.result
	}

	speakerData := speakerAnalysisOf(results[entities.AgentTypeSpeakerProfiler])
	agendaData := agendaAnalysisOf(results[entities.AgentTypeAgendaAnalyzer])
	comprehensive := buildComprehensive(input.Utterances, speakerData, agendaData)

	final := entities.StateDone
	if len(failures) > 0 {
		final = entities.StatePartialFailure
	}
	transition(final)

	successful := len(results)
	telemetry.SetOrchestrationOutcome(span, string(final), successful)
	report := &entities.OrchestrationReport{
		MeetingID:             input.MeetingID,
		ComprehensiveAnalysis: comprehensive,
		Insights:              buildInsights(comprehensive),
		ExecutiveSummary:      executiveSummary(comprehensive),
		PerAgentResults:       results,
		ProcessingMetadata: entities.ProcessingMetadata{
			TotalTimeSeconds: time.Since(start).Seconds(),
			AgentsExecuted:   len(agents),
			SuccessfulAgents: successful,
			State:            final,
			Failures:         failures,
		},
	}

	confidence := orchestratorConfidence * float64(successful) / float64(len(agents))
	result := entities.NewAnalysisResult(o.Type(), input.MeetingID, report, confidence)
	result.ProcessingTimeSeconds = report.ProcessingMetadata.TotalTimeSeconds
	result.Metadata["run_id"] = runID.String()
	result.Metadata["state"] = string(final)
	result.Metadata["successful_agents"] = successful

	o.res.Metrics.RecordOrchestration(string(final))
	logger.Info("orchestration completed",
		zap.String("state", string(final)),
		zap.Int("successful_agents", successful),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// runAgent executes one agent with panic recovery. It never panics and
// always reports the agent type.
func (o *Orchestrator) runAgent(ctx context.Context, agent Agent, input *entities.AnalysisInput, logger *zap.Logger) agentOutcome {
	agentType := agent.Type()
	ctx = jobcontext.WithAgent(ctx, string(agentType))
	ctx, span := o.res.Tracer.StartAgentSpan(ctx, string(agentType), input.MeetingID)
	start := time.Now()

	var result *entities.AnalysisResult
	err := jobcontext.Run(ctx, func(ctx context.Context) error {
		r, err := agent.Analyze(ctx, input)
		result = r
		return err
	})
	if err == nil && result == nil {
		err = errors.New("agent returned no result")
	}
	telemetry.EndSpan(span, err)

	status := "success"
	if err != nil {
		status = "failure"
		fields := []zap.Field{zap.String("agent", string(agentType)), zap.Error(err)}
		var perr *jobcontext.PanicError
		if errors.As(err, &perr) {
			fields = append(fields, zap.ByteString("stack", perr.Stack))
		}
		logger.Error("agent failed", fields...)
		err = fmt.Errorf("%s: %w", agentType, err)
		result = nil
	}
	o.res.Metrics.RecordAgentRun(string(agentType), status, time.Since(start).Seconds())

	return agentOutcome{agent: agentType, result: result, err: err}
}

func speakerAnalysisOf(r *entities.AnalysisResult) *entities.SpeakerAnalysis {
	if r == nil {
		return nil
	}
	data, _ := r.ResultData.(*entities.SpeakerAnalysis)
	return data
}

func agendaAnalysisOf(r *entities.AnalysisResult) *entities.AgendaAnalysis {
	if r == nil {
		return nil
	}
	data, _ := r.ResultData.(*entities.AgendaAnalysis)
	return data
}
