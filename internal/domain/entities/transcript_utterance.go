package entities

import (
	"time"

	"github.com/google/uuid"
)

// Utterance is one timestamped unit of speech attributed to a speaker.
// The pipeline only reads utterances.
type Utterance struct {
	Speaker    string   `json:"speaker"`
	Start      float64  `json:"start"`
	End        *float64 `json:"end,omitempty"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
	Language   string   `json:"language,omitempty"`
}

// TranscriptUtterance represents a single speaker segment/turn stored for a meeting
type TranscriptUtterance struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID  string    `json:"meeting_id" gorm:"type:varchar(255);not null;index"`
	Sequence   int       `json:"sequence" gorm:"not null"`
	Speaker    string    `json:"speaker" gorm:"type:varchar(100);not null"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	StartTime  float64   `json:"start_time" gorm:"not null"`
	EndTime    *float64  `json:"end_time,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Language   string    `json:"language,omitempty" gorm:"type:varchar(20)"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (TranscriptUtterance) TableName() string {
	return "transcript_utterances"
}

// NewTranscriptUtterance creates a row for the given meeting from an utterance
func NewTranscriptUtterance(meetingID string, seq int, u Utterance) *TranscriptUtterance {
	return &TranscriptUtterance{
		ID:         uuid.New(),
		MeetingID:  meetingID,
		Sequence:   seq,
		Speaker:    u.Speaker,
		Text:       u.Text,
		StartTime:  u.Start,
		EndTime:    u.End,
		Confidence: u.Confidence,
		Language:   u.Language,
	}
}

// ToUtterance converts a stored row back into an Utterance
func (t *TranscriptUtterance) ToUtterance() Utterance {
	return Utterance{
		Speaker:    t.Speaker,
		Start:      t.StartTime,
		End:        t.EndTime,
		Text:       t.Text,
		Confidence: t.Confidence,
		Language:   t.Language,
	}
}
