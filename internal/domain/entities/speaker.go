package entities

// CommunicationStyle classifies how a speaker talks
type CommunicationStyle string

const (
	StyleQuestion CommunicationStyle = "question"
	StyleDetailed CommunicationStyle = "detailed"
	StyleConcise  CommunicationStyle = "concise"
	StyleBalanced CommunicationStyle = "balanced"
)

// EngagementLevel is derived from the mean gap between a speaker's turns
type EngagementLevel string

const (
	EngagementHigh   EngagementLevel = "high"
	EngagementMedium EngagementLevel = "medium"
	EngagementLow    EngagementLevel = "low"
)

// Participation balance labels
const (
	BalanceBalanced   = "balanced"
	BalanceImbalanced = "imbalanced"
)

// SpeakerProfile holds the behavioral profile of one speaker
type SpeakerProfile struct {
	Speaker            string             `json:"speaker"`
	UtteranceCount     int                `json:"utterance_count"`
	ParticipationRate  float64            `json:"participation_rate"`
	DominanceScore     float64            `json:"dominance_score"`
	CommunicationStyle CommunicationStyle `json:"communication_style"`
	EngagementLevel    EngagementLevel    `json:"engagement_level"`
	TopicPreferences   []string           `json:"topic_preferences"`
	QuestionCount      int                `json:"question_count"`
	StatementCount     int                `json:"statement_count"`
	AverageWords       float64            `json:"average_words"`
	TotalSpeakingTime  float64            `json:"total_speaking_time"`
	AverageGapSeconds  float64            `json:"average_gap_seconds"`
}

// SpeakerSummary is the meeting-level view over all profiles
type SpeakerSummary struct {
	TotalSpeakers        int     `json:"total_speakers"`
	MostActiveSpeaker    string  `json:"most_active_speaker"`
	ParticipationSpread  float64 `json:"participation_spread"`
	ParticipationBalance string  `json:"participation_balance"`
	AverageParticipation float64 `json:"average_participation"`
}

// SpeakerAnalysis is the result data of the speaker profiler
type SpeakerAnalysis struct {
	TotalUtterances int              `json:"total_utterances"`
	Profiles        []SpeakerProfile `json:"profiles"`
	Summary         SpeakerSummary   `json:"summary"`
}
