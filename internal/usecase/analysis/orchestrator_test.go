package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

type stubAgent struct {
	typ      entities.AgentType
	err      error
	panicVal interface{}
	run      func(ctx context.Context, input *entities.AnalysisInput) (*entities.AnalysisResult, error)
}

func (s *stubAgent) Type() entities.AgentType { return s.typ }

func (s *stubAgent) Analyze(ctx context.Context, input *entities.AnalysisInput) (*entities.AnalysisResult, error) {
	if s.panicVal != nil {
		panic(s.panicVal)
	}
	if s.run != nil {
		return s.run(ctx, input)
	}
	return nil, s.err
}

func reportOf(t *testing.T, result *entities.AnalysisResult) *entities.OrchestrationReport {
	t.Helper()
	require.NotNil(t, result)
	report, ok := result.ResultData.(*entities.OrchestrationReport)
	require.True(t, ok)
	return report
}

func TestOrchestratorBothAgentsSucceed(t *testing.T) {
	o := NewDefaultOrchestrator(newTestResources(t))
	result, err := o.Analyze(context.Background(), input(budgetMeeting()...))
	require.NoError(t, err)

	assert.Equal(t, entities.AgentTypeOrchestrator, result.AgentType)
	assert.InDelta(t, 0.90, result.ConfidenceScore, 1e-9)
	assert.Equal(t, "done", result.Metadata["state"])
	assert.Equal(t, 2, result.Metadata["successful_agents"])
	assert.NotEmpty(t, result.Metadata["run_id"])

	report := reportOf(t, result)
	assert.Equal(t, "meeting-1", report.MeetingID)
	assert.Len(t, report.PerAgentResults, 2)

	meta := report.ProcessingMetadata
	assert.Equal(t, 2, meta.AgentsExecuted)
	assert.Equal(t, 2, meta.SuccessfulAgents)
	assert.Equal(t, entities.StateDone, meta.State)
	assert.Empty(t, meta.Failures)

	ca := report.ComprehensiveAnalysis
	assert.Equal(t, entities.MeetingStats{UtteranceCount: 4, UniqueSpeakers: 3, DurationSeconds: 30}, ca.MeetingStats)

	require.NotNil(t, ca.Speakers)
	assert.Equal(t, entities.SpeakerHighlights{
		MostActiveSpeaker:    "A",
		MostDominantSpeaker:  "A",
		StyleDiversity:       2,
		ParticipationBalance: entities.BalanceBalanced,
	}, ca.Speakers.Highlights)

	require.NotNil(t, ca.Agenda)
	assert.Equal(t, entities.AgendaHighlights{
		MostDiscussedTopic:  "project budget",
		HighConsensusTopics: 1,
		TotalDecisions:      1,
	}, ca.Agenda.Highlights)

	assert.Equal(t, map[string]int{"B": 1}, ca.Cross.DecisionsBySpeaker)
	assert.Equal(t, "B", ca.Cross.TopDecisionMaker)

	assert.Equal(t, entities.InsightBalanced, report.Insights.Participation.Status)
	assert.Equal(t, entities.InsightModerate, report.Insights.DecisionQuality.Status)
	assert.Equal(t, entities.InsightSteady, report.Insights.Pacing.Status)
	assert.Equal(t, 8.0, report.Insights.Pacing.Value)

	assert.Equal(t, "This meeting had 3 participants over 0.5 minutes with 4 utterances. "+
		"Participation was balanced. 1 topic was discussed and 1 decision was reached. "+
		"Overall consensus was 67.0%. B drove the most decisions (1).", report.ExecutiveSummary)
}

func TestOrchestratorSpeakerProfilerPanics(t *testing.T) {
	res := newTestResources(t)
	o := NewOrchestrator(res,
		&stubAgent{typ: entities.AgentTypeSpeakerProfiler, panicVal: "index out of range"},
		NewAgendaAnalyzer(res),
	)

	result, err := o.Analyze(context.Background(), input(budgetMeeting()...))
	require.NoError(t, err)
	assert.InDelta(t, 0.45, result.ConfidenceScore, 1e-9)

	report := reportOf(t, result)
	meta := report.ProcessingMetadata
	assert.Equal(t, 1, meta.SuccessfulAgents)
	assert.Equal(t, entities.StatePartialFailure, meta.State)
	require.Len(t, meta.Failures, 1)
	assert.Equal(t, entities.AgentTypeSpeakerProfiler, meta.Failures[0].AgentType)
	assert.Contains(t, meta.Failures[0].Error, "index out of range")

	require.Contains(t, report.PerAgentResults, entities.AgentTypeAgendaAnalyzer)
	assert.NotContains(t, report.PerAgentResults, entities.AgentTypeSpeakerProfiler)

	ca := report.ComprehensiveAnalysis
	assert.Nil(t, ca.Speakers)
	require.NotNil(t, ca.Agenda)
	assert.Equal(t, 1, ca.Agenda.Overview.TotalDecisions)
	assert.NotNil(t, ca.Cross.DecisionsBySpeaker)
	assert.Empty(t, ca.Cross.TopDecisionMaker)

	assert.Equal(t, entities.InsightUnknown, report.Insights.Participation.Status)
	assert.NotContains(t, report.ExecutiveSummary, "Participation was")
	assert.Contains(t, report.ExecutiveSummary, "1 topic was discussed")
}

func TestOrchestratorAgendaAnalyzerFails(t *testing.T) {
	res := newTestResources(t)
	o := NewOrchestrator(res,
		NewSpeakerProfiler(res),
		&stubAgent{typ: entities.AgentTypeAgendaAnalyzer, err: errors.New("lexicon exploded")},
	)

	result, err := o.Analyze(context.Background(), input(budgetMeeting()...))
	require.NoError(t, err)

	report := reportOf(t, result)
	assert.Equal(t, 1, report.ProcessingMetadata.SuccessfulAgents)
	require.Len(t, report.ProcessingMetadata.Failures, 1)
	assert.Equal(t, "agenda_analyzer: lexicon exploded", report.ProcessingMetadata.Failures[0].Error)

	assert.NotNil(t, report.ComprehensiveAnalysis.Speakers)
	assert.Nil(t, report.ComprehensiveAnalysis.Agenda)
	assert.Equal(t, entities.InsightUnknown, report.Insights.DecisionQuality.Status)
}

func TestOrchestratorAllAgentsFail(t *testing.T) {
	res := newTestResources(t)
	o := NewOrchestrator(res,
		&stubAgent{typ: entities.AgentTypeSpeakerProfiler},
		&stubAgent{typ: entities.AgentTypeAgendaAnalyzer, panicVal: errors.New("boom")},
	)

	result, err := o.Analyze(context.Background(), input(budgetMeeting()...))
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.ConfidenceScore)

	report := reportOf(t, result)
	assert.Equal(t, 0, report.ProcessingMetadata.SuccessfulAgents)
	assert.Equal(t, entities.StatePartialFailure, report.ProcessingMetadata.State)
	require.Len(t, report.ProcessingMetadata.Failures, 2)
	assert.Contains(t, report.ProcessingMetadata.Failures[0].Error, "agent returned no result")
	assert.Empty(t, report.PerAgentResults)
	assert.Equal(t, 4, report.ComprehensiveAnalysis.MeetingStats.UtteranceCount)
}

func TestOrchestratorRunsAgentsConcurrently(t *testing.T) {
	res := newTestResources(t)

	var arrived sync.WaitGroup
	arrived.Add(2)
	barrier := func(typ entities.AgentType) *stubAgent {
		return &stubAgent{typ: typ, run: func(ctx context.Context, in *entities.AnalysisInput) (*entities.AnalysisResult, error) {
			arrived.Done()
			done := make(chan struct{})
			go func() { arrived.Wait(); close(done) }()
			select {
			case <-done:
				return entities.NewAnalysisResult(typ, in.MeetingID, nil, 1), nil
			case <-time.After(2 * time.Second):
				return nil, errors.New("agents did not overlap")
			}
		}}
	}

	o := NewOrchestrator(res, barrier(entities.AgentTypeSpeakerProfiler), barrier(entities.AgentTypeAgendaAnalyzer))
	result, err := o.Analyze(context.Background(), input(budgetMeeting()...))
	require.NoError(t, err)
	assert.Equal(t, 2, reportOf(t, result).ProcessingMetadata.SuccessfulAgents)
}

func TestOrchestratorIsolatesInput(t *testing.T) {
	res := newTestResources(t)
	mutate := func(typ entities.AgentType) *stubAgent {
		return &stubAgent{typ: typ, run: func(_ context.Context, in *entities.AnalysisInput) (*entities.AnalysisResult, error) {
			for i := range in.Utterances {
				in.Utterances[i].Text = "overwritten"
			}
			return entities.NewAnalysisResult(typ, in.MeetingID, nil, 1), nil
		}}
	}

	in := input(budgetMeeting()...)
	o := NewOrchestrator(res, mutate(entities.AgentTypeSpeakerProfiler), mutate(entities.AgentTypeAgendaAnalyzer))
	_, err := o.Analyze(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, budgetMeeting(), in.Utterances)
}
