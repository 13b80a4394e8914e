package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/ai"
)

type fakeAnalysisRepo struct {
	mu      sync.Mutex
	saved   []*entities.AnalysisResult
	saveErr error
	getErr  error
	latest  *entities.AnalysisResult
}

func (f *fakeAnalysisRepo) SaveResults(_ context.Context, results []*entities.AnalysisResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, results...)
	return nil
}

func (f *fakeAnalysisRepo) GetLatest(_ context.Context, meetingID string, agent entities.AgentType) (*entities.AnalysisResult, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.latest != nil && f.latest.MeetingID == meetingID && f.latest.AgentType == agent {
		return f.latest, nil
	}
	return nil, nil
}

func (f *fakeAnalysisRepo) ListByMeeting(_ context.Context, _ string) ([]*entities.AnalysisResult, error) {
	return f.saved, nil
}

type fakeTranscriptRepo struct {
	rows       map[string][]*entities.TranscriptUtterance
	replaceErr error
	listErr    error
}

func (f *fakeTranscriptRepo) ReplaceUtterances(_ context.Context, meetingID string, rows []*entities.TranscriptUtterance) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.rows[meetingID] = rows
	return nil
}

func (f *fakeTranscriptRepo) ListUtterances(_ context.Context, meetingID string) ([]*entities.TranscriptUtterance, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.rows[meetingID], nil
}

type fakeSource struct {
	result *ai.TranscriptResult
	err    error
}

func (f *fakeSource) FetchTranscript(_ context.Context, _ string) (*ai.TranscriptResult, error) {
	return f.result, f.err
}

type fakeArchiver struct {
	err     error
	objects []string
}

func (f *fakeArchiver) ArchiveReport(_ context.Context, meetingID string, _ interface{}) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	name := "reports/" + meetingID + "/1.json"
	f.objects = append(f.objects, name)
	return name, nil
}

func TestServiceAnalyzeMeetingStoresAndArchives(t *testing.T) {
	repo := &fakeAnalysisRepo{}
	archiver := &fakeArchiver{}
	svc := NewService(NewDefaultOrchestrator(newTestResources(t)),
		WithAnalysisRepository(repo),
		WithReportArchiver(archiver),
	)

	result, err := svc.AnalyzeMeeting(context.Background(), input(budgetMeeting()...))
	require.NoError(t, err)
	assert.Equal(t, entities.AgentTypeOrchestrator, result.AgentType)
	assert.Equal(t, "reports/meeting-1/1.json", result.Metadata["archive_object"])

	require.Len(t, repo.saved, 3)
	assert.Equal(t, entities.AgentTypeOrchestrator, repo.saved[0].AgentType)
	assert.Equal(t, entities.AgentTypeSpeakerProfiler, repo.saved[1].AgentType)
	assert.Equal(t, entities.AgentTypeAgendaAnalyzer, repo.saved[2].AgentType)
}

func TestServiceStorageFailuresAreBestEffort(t *testing.T) {
	svc := NewService(NewDefaultOrchestrator(newTestResources(t)),
		WithAnalysisRepository(&fakeAnalysisRepo{saveErr: errors.New("db down")}),
		WithReportArchiver(&fakeArchiver{err: errors.New("bucket gone")}),
	)

	result, err := svc.AnalyzeMeeting(context.Background(), input(budgetMeeting()...))
	require.NoError(t, err)
	assert.NotContains(t, result.Metadata, "archive_object")
}

func TestServiceValidationErrorIsReturned(t *testing.T) {
	repo := &fakeAnalysisRepo{}
	svc := NewService(NewDefaultOrchestrator(newTestResources(t)), WithAnalysisRepository(repo))

	_, err := svc.AnalyzeMeeting(context.Background(), &entities.AnalysisInput{MeetingID: "m"})
	assert.ErrorIs(t, err, entities.ErrValidation)
	assert.Empty(t, repo.saved)
}

func TestServiceDefaultLanguage(t *testing.T) {
	var seen string
	orch := &stubAgent{typ: entities.AgentTypeOrchestrator, run: func(_ context.Context, in *entities.AnalysisInput) (*entities.AnalysisResult, error) {
		seen = in.Language
		return entities.NewAnalysisResult(entities.AgentTypeOrchestrator, in.MeetingID, nil, 0), nil
	}}
	svc := NewService(orch, WithDefaultLanguage("ko"))

	_, err := svc.AnalyzeMeeting(context.Background(), &entities.AnalysisInput{MeetingID: "m", Utterances: []entities.Utterance{}})
	require.NoError(t, err)
	assert.Equal(t, "ko", seen)
}

func TestServiceDefaultLanguageLeavesCallerInputUntouched(t *testing.T) {
	orch := &stubAgent{typ: entities.AgentTypeOrchestrator, run: func(_ context.Context, in *entities.AnalysisInput) (*entities.AnalysisResult, error) {
		return entities.NewAnalysisResult(entities.AgentTypeOrchestrator, in.MeetingID, nil, 0), nil
	}}
	svc := NewService(orch, WithDefaultLanguage("ko"))

	in := &entities.AnalysisInput{MeetingID: "m", Utterances: []entities.Utterance{}}
	_, err := svc.AnalyzeMeeting(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, in.Language)
}

func TestServiceDependencyErrors(t *testing.T) {
	orch := NewDefaultOrchestrator(newTestResources(t))
	down := errors.New("db down")

	_, err := NewService(orch, WithTranscriptRepository(&fakeTranscriptRepo{listErr: down})).
		AnalyzeStoredTranscript(context.Background(), "m")
	var derr *DependencyError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, DependencyDatabase, derr.Dependency)
	assert.Equal(t, "list utterances", derr.Op)
	assert.ErrorIs(t, err, down)

	_, err = NewService(orch, WithAnalysisRepository(&fakeAnalysisRepo{getErr: down})).
		GetLatestReport(context.Background(), "m")
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, DependencyDatabase, derr.Dependency)
	assert.Equal(t, "get latest analysis", derr.Op)

	unreachable := errors.New("connection reset")
	_, err = NewService(orch, WithTranscriptSource(&fakeSource{err: unreachable})).
		AnalyzeAssemblyAITranscript(context.Background(), "m", "tr")
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, DependencyAssemblyAI, derr.Dependency)
	assert.ErrorIs(t, err, unreachable)
}

func TestServiceAnalyzeStoredTranscript(t *testing.T) {
	transcripts := &fakeTranscriptRepo{rows: map[string][]*entities.TranscriptUtterance{}}
	for i, u := range budgetMeeting() {
		transcripts.rows["meeting-1"] = append(transcripts.rows["meeting-1"], entities.NewTranscriptUtterance("meeting-1", i, u))
	}
	svc := NewService(NewDefaultOrchestrator(newTestResources(t)), WithTranscriptRepository(transcripts))

	result, err := svc.AnalyzeStoredTranscript(context.Background(), "meeting-1")
	require.NoError(t, err)
	report := reportOf(t, result)
	assert.Equal(t, 4, report.ComprehensiveAnalysis.MeetingStats.UtteranceCount)

	_, err = svc.AnalyzeStoredTranscript(context.Background(), "other")
	assert.ErrorIs(t, err, entities.ErrTranscriptNotFound)

	_, err = svc.AnalyzeStoredTranscript(context.Background(), " ")
	assert.ErrorIs(t, err, entities.ErrValidation)

	noRepo := NewService(NewDefaultOrchestrator(newTestResources(t)))
	_, err = noRepo.AnalyzeStoredTranscript(context.Background(), "meeting-1")
	assert.ErrorIs(t, err, entities.ErrTranscriptNotFound)
}

func TestServiceAnalyzeAssemblyAITranscript(t *testing.T) {
	source := &fakeSource{result: &ai.TranscriptResult{
		ID:       "tr-1",
		Status:   "completed",
		Language: "en_us",
		Segments: []ai.TranscriptSegment{
			{Speaker: "Speaker A", Text: "First agenda item is the project budget", Start: 0, End: 4, Confidence: 0.9},
			{Speaker: "Speaker B", Text: "I agree we should increase the budget by 10 percent", Start: 10, End: 14},
		},
	}}
	transcripts := &fakeTranscriptRepo{rows: map[string][]*entities.TranscriptUtterance{}}
	svc := NewService(NewDefaultOrchestrator(newTestResources(t)),
		WithTranscriptSource(source),
		WithTranscriptRepository(transcripts),
	)

	result, err := svc.AnalyzeAssemblyAITranscript(context.Background(), "meeting-9", "tr-1")
	require.NoError(t, err)
	assert.Equal(t, "meeting-9", result.MeetingID)

	rows := transcripts.rows["meeting-9"]
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[1].Sequence)
	assert.Equal(t, "en", rows[0].Language)
	require.NotNil(t, rows[0].EndTime)
	assert.Equal(t, 4.0, *rows[0].EndTime)
	require.NotNil(t, rows[0].Confidence)
	assert.Nil(t, rows[1].Confidence)
}

func TestServiceAssemblyAIErrors(t *testing.T) {
	orch := NewDefaultOrchestrator(newTestResources(t))

	_, err := NewService(orch).AnalyzeAssemblyAITranscript(context.Background(), "m", "tr")
	assert.ErrorIs(t, err, ErrTranscriptSourceDisabled)

	_, err = NewService(orch, WithTranscriptSource(&fakeSource{})).AnalyzeAssemblyAITranscript(context.Background(), "m", "")
	assert.ErrorIs(t, err, entities.ErrValidation)

	notReady := &fakeSource{err: ai.ErrTranscriptNotReady}
	_, err = NewService(orch, WithTranscriptSource(notReady)).AnalyzeAssemblyAITranscript(context.Background(), "m", "tr")
	assert.ErrorIs(t, err, ai.ErrTranscriptNotReady)
	var derr *DependencyError
	assert.False(t, errors.As(err, &derr))

	// the analysis still runs when the utterances cannot be stored
	source := &fakeSource{result: &ai.TranscriptResult{Segments: []ai.TranscriptSegment{{Speaker: "Speaker A", Text: "hello"}}}}
	failing := &fakeTranscriptRepo{replaceErr: errors.New("db down")}
	_, err = NewService(orch, WithTranscriptSource(source), WithTranscriptRepository(failing)).
		AnalyzeAssemblyAITranscript(context.Background(), "m", "tr")
	assert.NoError(t, err)
}

func TestServiceGetLatestReport(t *testing.T) {
	stored := entities.NewAnalysisResult(entities.AgentTypeOrchestrator, "meeting-1", map[string]interface{}{}, 0.9)
	svc := NewService(&stubAgent{typ: entities.AgentTypeOrchestrator}, WithAnalysisRepository(&fakeAnalysisRepo{latest: stored}))

	got, err := svc.GetLatestReport(context.Background(), "meeting-1")
	require.NoError(t, err)
	assert.Same(t, stored, got)

	_, err = svc.GetLatestReport(context.Background(), "meeting-2")
	assert.ErrorIs(t, err, entities.ErrAnalysisNotFound)

	_, err = NewService(&stubAgent{typ: entities.AgentTypeOrchestrator}).GetLatestReport(context.Background(), "meeting-1")
	assert.ErrorIs(t, err, entities.ErrAnalysisNotFound)
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "en", normalizeLanguage("en_us"))
	assert.Equal(t, "ko", normalizeLanguage("KO"))
	assert.Equal(t, "pt", normalizeLanguage("pt-BR"))
	assert.Equal(t, "", normalizeLanguage(""))
}
