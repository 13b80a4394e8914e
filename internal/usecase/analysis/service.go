package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	domainrepo "github.com/johnquangdev/meeting-insights/internal/domain/repositories"
	"github.com/johnquangdev/meeting-insights/pkg/ai"
)

// ErrTranscriptSourceDisabled is returned when no upstream transcript
// source is configured
var ErrTranscriptSourceDisabled = errors.New("transcript source not configured")

// Dependency names a backing store or upstream service
type Dependency string

const (
	DependencyDatabase   Dependency = "database"
	DependencyAssemblyAI Dependency = "assemblyai"
)

// DependencyError reports a failed call to a Dependency. Op names the call.
type DependencyError struct {
	Dependency Dependency
	Op         string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Dependency, e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// TranscriptSource loads finished transcripts from an upstream provider
type TranscriptSource interface {
	FetchTranscript(ctx context.Context, transcriptID string) (*ai.TranscriptResult, error)
}

// ReportArchiver keeps a copy of every orchestration report
type ReportArchiver interface {
	ArchiveReport(ctx context.Context, meetingID string, report interface{}) (string, error)
}

// Service defines the meeting analysis use cases
type Service interface {
	AnalyzeMeeting(ctx context.Context, input *entities.AnalysisInput) (*entities.AnalysisResult, error)
	AnalyzeStoredTranscript(ctx context.Context, meetingID string) (*entities.AnalysisResult, error)
	AnalyzeAssemblyAITranscript(ctx context.Context, meetingID, transcriptID string) (*entities.AnalysisResult, error)
	GetLatestReport(ctx context.Context, meetingID string) (*entities.AnalysisResult, error)
}

type analysisService struct {
	orchestrator   Agent
	analysisRepo   domainrepo.AnalysisRepository
	transcriptRepo domainrepo.TranscriptRepository
	source         TranscriptSource
	archiver       ReportArchiver
	language       string
	logger         *zap.Logger
}

// ServiceOption configures NewService
type ServiceOption func(*analysisService)

// WithAnalysisRepository persists every envelope of a run
func WithAnalysisRepository(r domainrepo.AnalysisRepository) ServiceOption {
	return func(s *analysisService) { s.analysisRepo = r }
}

// WithTranscriptRepository enables stored transcripts
func WithTranscriptRepository(r domainrepo.TranscriptRepository) ServiceOption {
	return func(s *analysisService) { s.transcriptRepo = r }
}

// WithTranscriptSource enables AssemblyAI transcripts
func WithTranscriptSource(src TranscriptSource) ServiceOption {
	return func(s *analysisService) { s.source = src }
}

// WithReportArchiver archives each orchestration report
func WithReportArchiver(a ReportArchiver) ServiceOption {
	return func(s *analysisService) { s.archiver = a }
}

// WithDefaultLanguage sets the language used when a request carries none
func WithDefaultLanguage(lang string) ServiceOption {
	return func(s *analysisService) { s.language = lang }
}

// WithServiceLogger sets the logger
func WithServiceLogger(l *zap.Logger) ServiceOption {
	return func(s *analysisService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService wraps an orchestrator. Every dependency besides the
// orchestrator is optional.
func NewService(orchestrator Agent, opts ...ServiceOption) Service {
	s := &analysisService{
		orchestrator: orchestrator,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeMeeting runs the orchestrator, then archives and stores the result.
// Storage failures are logged and never fail the analysis.
func (s *analysisService) AnalyzeMeeting(ctx context.Context, input *entities.AnalysisInput) (*entities.AnalysisResult, error) {
	if input != nil && input.Language == "" {
		in := *input
		in.Language = s.language
		input = &in
	}

	result, err := s.orchestrator.Analyze(ctx, input)
	if err != nil {
		return nil, err
	}

	s.archive(ctx, result)
	s.persist(ctx, result)
	return result, nil
}

// AnalyzeStoredTranscript analyzes the utterances already stored for a meeting
func (s *analysisService) AnalyzeStoredTranscript(ctx context.Context, meetingID string) (*entities.AnalysisResult, error) {
	if strings.TrimSpace(meetingID) == "" {
		return nil, entities.NewValidationError("meeting_id", "is required")
	}
	if s.transcriptRepo == nil {
		return nil, entities.ErrTranscriptNotFound
	}

	rows, err := s.transcriptRepo.ListUtterances(ctx, meetingID)
	if err != nil {
		return nil, &DependencyError{Dependency: DependencyDatabase, Op: "list utterances", Err: err}
	}
	if len(rows) == 0 {
		return nil, entities.ErrTranscriptNotFound
	}

	utterances := make([]entities.Utterance, 0, len(rows))
	for _, row := range rows {
		utterances = append(utterances, row.ToUtterance())
	}

	return s.AnalyzeMeeting(ctx, &entities.AnalysisInput{
		MeetingID:  meetingID,
		Utterances: utterances,
		Language:   utterances[0].Language,
	})
}

// AnalyzeAssemblyAITranscript fetches a completed transcript, stores its
// utterances and analyzes them
func (s *analysisService) AnalyzeAssemblyAITranscript(ctx context.Context, meetingID, transcriptID string) (*entities.AnalysisResult, error) {
	if strings.TrimSpace(meetingID) == "" {
		return nil, entities.NewValidationError("meeting_id", "is required")
	}
	if strings.TrimSpace(transcriptID) == "" {
		return nil, entities.NewValidationError("transcript_id", "is required")
	}
	if s.source == nil {
		return nil, ErrTranscriptSourceDisabled
	}

	transcript, err := s.source.FetchTranscript(ctx, transcriptID)
	if err != nil {
		if errors.Is(err, ai.ErrTranscriptNotReady) {
			return nil, err
		}
		return nil, &DependencyError{Dependency: DependencyAssemblyAI, Op: "fetch transcript", Err: err}
	}

	lang := normalizeLanguage(transcript.Language)
	utterances := make([]entities.Utterance, 0, len(transcript.Segments))
	for _, seg := range transcript.Segments {
		u := entities.Utterance{
			Speaker:  seg.Speaker,
			Start:    seg.Start,
			Text:     seg.Text,
			Language: lang,
		}
		if seg.End > 0 {
			end := seg.End
			u.End = &end
		}
		if seg.Confidence > 0 {
			conf := seg.Confidence
			u.Confidence = &conf
		}
		utterances = append(utterances, u)
	}

	s.logger.Info("transcript fetched",
		zap.String("meeting_id", meetingID),
		zap.String("transcript_id", transcriptID),
		zap.Int("utterances", len(utterances)),
	)

	if s.transcriptRepo != nil {
		rows := make([]*entities.TranscriptUtterance, 0, len(utterances))
		for i, u := range utterances {
			rows = append(rows, entities.NewTranscriptUtterance(meetingID, i, u))
		}
		if err := s.transcriptRepo.ReplaceUtterances(ctx, meetingID, rows); err != nil {
			s.logger.Warn("failed to store transcript utterances",
				zap.String("meeting_id", meetingID),
				zap.Error(err),
			)
		}
	}

	return s.AnalyzeMeeting(ctx, &entities.AnalysisInput{
		MeetingID:  meetingID,
		Utterances: utterances,
		Language:   lang,
	})
}

// GetLatestReport returns the newest stored orchestration result
func (s *analysisService) GetLatestReport(ctx context.Context, meetingID string) (*entities.AnalysisResult, error) {
	if s.analysisRepo == nil {
		return nil, entities.ErrAnalysisNotFound
	}
	result, err := s.analysisRepo.GetLatest(ctx, meetingID, entities.AgentTypeOrchestrator)
	if err != nil {
		return nil, &DependencyError{Dependency: DependencyDatabase, Op: "get latest analysis", Err: err}
	}
	if result == nil {
		return nil, entities.ErrAnalysisNotFound
	}
	return result, nil
}

func (s *analysisService) persist(ctx context.Context, result *entities.AnalysisResult) {
	if s.analysisRepo == nil {
		return
	}

	envelopes := []*entities.AnalysisResult{result}
	if report, ok := result.ResultData.(*entities.OrchestrationReport); ok {
		for _, agent := range []entities.AgentType{entities.AgentTypeSpeakerProfiler, entities.AgentTypeAgendaAnalyzer} {
			if r := report.PerAgentResults[agent]; r != nil {
				envelopes = append(envelopes, r)
			}
		}
	}

	start := time.Now()
	if err := s.analysisRepo.SaveResults(ctx, envelopes); err != nil {
		s.logger.Warn("failed to store analysis results",
			zap.String("meeting_id", result.MeetingID),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("analysis results stored",
		zap.String("meeting_id", result.MeetingID),
		zap.Int("count", len(envelopes)),
		zap.Duration("duration", time.Since(start)),
	)
}

func (s *analysisService) archive(ctx context.Context, result *entities.AnalysisResult) {
	if s.archiver == nil {
		return
	}
	object, err := s.archiver.ArchiveReport(ctx, result.MeetingID, result)
	if err != nil {
		s.logger.Warn("failed to archive report",
			zap.String("meeting_id", result.MeetingID),
			zap.Error(err),
		)
		return
	}
	result.Metadata["archive_object"] = object
}

// normalizeLanguage reduces provider codes such as "en_us" to a base tag
func normalizeLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "_-"); i > 0 {
		code = code[:i]
	}
	return code
}
