package entities

// ConsensusLevel is the tier assigned to a topic's opinions
type ConsensusLevel string

const (
	ConsensusHigh    ConsensusLevel = "high"
	ConsensusMedium  ConsensusLevel = "medium"
	ConsensusLow     ConsensusLevel = "low"
	ConsensusUnclear ConsensusLevel = "unclear"
)

// Polarity of a single opinion
type Polarity string

const (
	PolarityPositive  Polarity = "positive"
	PolarityNegative  Polarity = "negative"
	PolarityNeutral   Polarity = "neutral"
	PolarityUncertain Polarity = "uncertain"
)

// Where a decision or disagreement record came from
const (
	SourceRules     = "rules"
	SourceDistilled = "distilled"
)

// TopicItem is one detected or default discussion topic
type TopicItem struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Keywords     []string `json:"keywords"`
	IntroducedBy string   `json:"introduced_by"`
	IntroducedAt float64  `json:"introduced_at"`
}

// OpinionRecord is the polarity of one topic utterance
type OpinionRecord struct {
	Speaker    string   `json:"speaker"`
	Text       string   `json:"text"`
	Timestamp  float64  `json:"timestamp"`
	Polarity   Polarity `json:"polarity"`
	Confidence float64  `json:"confidence"`
	Reason     string   `json:"reason,omitempty"`
}

// DisagreementDetails describes what a topic's dissent was about
type DisagreementDetails struct {
	Dissenters      []string `json:"dissenters"`
	DisputedContent string   `json:"disputed_content"`
	Reasons         []string `json:"reasons"`
	Suggestions     string   `json:"suggestions,omitempty"`
	AnalysisQuality string   `json:"analysis_quality"`
}

// Decision is an extracted, deduplicated decision ranked by consensus
type Decision struct {
	Content             string               `json:"content"`
	Speaker             string               `json:"speaker"`
	Timestamp           float64              `json:"timestamp"`
	ConsensusLevel      ConsensusLevel       `json:"consensus_level"`
	ConsensusScore      float64              `json:"consensus_score"`
	AgreementLevel      int                  `json:"agreement_level"`
	Source              string               `json:"source"`
	Strategy            string               `json:"strategy"`
	DisagreementDetails *DisagreementDetails `json:"disagreement_details,omitempty"`
}

// Consensus is the scored agreement on one topic
type Consensus struct {
	Level          ConsensusLevel       `json:"level"`
	Score          float64              `json:"score"`
	AgreementLevel int                  `json:"agreement_level"`
	Justification  string               `json:"justification"`
	OpinionCount   int                  `json:"opinion_count"`
	PositiveRatio  float64              `json:"positive_ratio"`
	NegativeRatio  float64              `json:"negative_ratio"`
	NeutralRatio   float64              `json:"neutral_ratio"`
	UncertainRatio float64              `json:"uncertain_ratio"`
	Opinions       []OpinionRecord      `json:"opinions"`
	Disagreement   *DisagreementDetails `json:"disagreement,omitempty"`
}

// DiscussionStats summarizes the utterances assigned to a topic
type DiscussionStats struct {
	UtteranceCount        int     `json:"utterance_count"`
	UniqueSpeakers        int     `json:"unique_speakers"`
	MostActiveSpeaker     string  `json:"most_active_speaker"`
	DurationSeconds       float64 `json:"duration_seconds"`
	AverageUtteranceWords float64 `json:"average_utterance_words"`
}

// TopicAnalysis is the per-topic output of the agenda analyzer
type TopicAnalysis struct {
	Topic      TopicItem       `json:"topic"`
	Discussion DiscussionStats `json:"discussion"`
	Consensus  Consensus       `json:"consensus"`
	Decisions  []Decision      `json:"decisions"`
	Summary    string          `json:"summary"`
}

// AgendaOverview is the meeting-level view over all topics
type AgendaOverview struct {
	TotalTopics          int      `json:"total_topics"`
	TotalDecisions       int      `json:"total_decisions"`
	AverageConsensus     float64  `json:"average_consensus"`
	TopicTitles          []string `json:"topic_titles"`
	UnassignedUtterances int      `json:"unassigned_utterances"`
}

// AgendaAnalysis is the result data of the agenda analyzer
type AgendaAnalysis struct {
	Topics   []TopicAnalysis `json:"topics"`
	Overview AgendaOverview  `json:"overview"`
}
