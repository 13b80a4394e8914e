package analysis

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// AnalysisResponse represents an orchestration result
type AnalysisResponse struct {
	ID                    uuid.UUID              `json:"id"`
	MeetingID             string                 `json:"meeting_id"`
	AgentType             string                 `json:"agent_type"`
	ConfidenceScore       float64                `json:"confidence_score"`
	ProcessingTimeSeconds float64                `json:"processing_time_seconds"`
	Timestamp             time.Time              `json:"timestamp"`
	Report                interface{}            `json:"report"`
	Metadata              map[string]interface{} `json:"metadata,omitempty"`
}

// WebhookResponse reports what a webhook delivery triggered
type WebhookResponse struct {
	Status   string            `json:"status"`
	Analysis *AnalysisResponse `json:"analysis,omitempty"`
}

// ToAnalysisResponse converts an envelope into its API shape
func ToAnalysisResponse(r *entities.AnalysisResult) *AnalysisResponse {
	if r == nil {
		return nil
	}
	return &AnalysisResponse{
		ID:                    r.ID,
		MeetingID:             r.MeetingID,
		AgentType:             string(r.AgentType),
		ConfidenceScore:       r.ConfidenceScore,
		ProcessingTimeSeconds: r.ProcessingTimeSeconds,
		Timestamp:             r.Timestamp,
		Report:                r.ResultData,
		Metadata:              r.Metadata,
	}
}
