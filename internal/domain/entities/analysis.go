package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AgentType identifies the producer of an AnalysisResult
type AgentType string

const (
	AgentTypeSpeakerProfiler AgentType = "speaker_profiler"
	AgentTypeAgendaAnalyzer  AgentType = "agenda_analyzer"
	AgentTypeOrchestrator    AgentType = "orchestrator"
)

// AnalysisInput is the shared input contract of every agent.
// A nil Utterances slice counts as missing; an empty one is valid.
type AnalysisInput struct {
	MeetingID  string      `json:"meeting_id" validate:"required"`
	Utterances []Utterance `json:"utterances" validate:"required"`
	Language   string      `json:"language,omitempty"`
}

// AnalysisResult is the envelope produced once per agent invocation
type AnalysisResult struct {
	ID                    uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AgentType             AgentType         `json:"agent_type" gorm:"type:varchar(50);not null;index"`
	MeetingID             string            `json:"meeting_id" gorm:"type:varchar(255);not null;index"`
	ResultData            interface{}       `json:"result_data" gorm:"type:jsonb;serializer:json"`
	ConfidenceScore       float64           `json:"confidence_score"`
	ProcessingTimeSeconds float64           `json:"processing_time_seconds"`
	Timestamp             time.Time         `json:"timestamp" gorm:"not null"`
	Metadata              datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt             time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (AnalysisResult) TableName() string {
	return "analysis_results"
}

// NewAnalysisResult creates an envelope stamped with a new ID and the current time
func NewAnalysisResult(agent AgentType, meetingID string, data interface{}, confidence float64) *AnalysisResult {
	return &AnalysisResult{
		ID:              uuid.New(),
		AgentType:       agent,
		MeetingID:       meetingID,
		ResultData:      data,
		ConfidenceScore: confidence,
		Timestamp:       time.Now().UTC(),
		Metadata:        datatypes.JSONMap{},
	}
}
