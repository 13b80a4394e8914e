package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// AnalysisRepository defines persistence operations for agent results
type AnalysisRepository interface {
	// SaveResults stores the envelopes of one run in a single transaction
	SaveResults(ctx context.Context, results []*entities.AnalysisResult) error
	// GetLatest returns the newest result of an agent for a meeting
	GetLatest(ctx context.Context, meetingID string, agent entities.AgentType) (*entities.AnalysisResult, error)
	ListByMeeting(ctx context.Context, meetingID string) ([]*entities.AnalysisResult, error)
}

// TranscriptRepository defines persistence operations for meeting utterances
type TranscriptRepository interface {
	// ReplaceUtterances swaps the stored utterances of a meeting
	ReplaceUtterances(ctx context.Context, meetingID string, rows []*entities.TranscriptUtterance) error
	// ListUtterances returns the utterances of a meeting in sequence order
	ListUtterances(ctx context.Context, meetingID string) ([]*entities.TranscriptUtterance, error)
}
