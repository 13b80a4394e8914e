package analysis

import (
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// UtteranceRequest is one speaker turn in an analysis request
type UtteranceRequest struct {
	Speaker    string   `json:"speaker"`
	Start      float64  `json:"start" validate:"gte=0"`
	End        *float64 `json:"end,omitempty" validate:"omitempty,gte=0"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// AnalyzeMeetingRequest represents the request to analyze a transcript.
// An empty utterance list is accepted; a missing one is not.
type AnalyzeMeetingRequest struct {
	Utterances []UtteranceRequest `json:"utterances" validate:"required,dive"`
	Language   string             `json:"language,omitempty" validate:"omitempty,max=20"`
}

// ToInput converts the request into the pipeline input of a meeting
func (r *AnalyzeMeetingRequest) ToInput(meetingID string) *entities.AnalysisInput {
	utterances := make([]entities.Utterance, 0, len(r.Utterances))
	for _, u := range r.Utterances {
		utterances = append(utterances, entities.Utterance{
			Speaker:    u.Speaker,
			Start:      u.Start,
			End:        u.End,
			Text:       u.Text,
			Confidence: u.Confidence,
			Language:   r.Language,
		})
	}
	return &entities.AnalysisInput{
		MeetingID:  meetingID,
		Utterances: utterances,
		Language:   r.Language,
	}
}

// AnalyzeAssemblyAIRequest represents the request to analyze an AssemblyAI transcript
type AnalyzeAssemblyAIRequest struct {
	TranscriptID string `json:"transcript_id" validate:"required"`
}

// AssemblyAIWebhookRequest is the transcript status callback sent by AssemblyAI
type AssemblyAIWebhookRequest struct {
	TranscriptID string `json:"transcript_id"`
	Status       string `json:"status"`
	MeetingID    string `json:"meeting_id,omitempty"`
}
