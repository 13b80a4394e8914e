package entities

// OrchestrationState tracks a run through the orchestrator
type OrchestrationState string

const (
	StateIdle           OrchestrationState = "idle"
	StateDispatch       OrchestrationState = "dispatch"
	StateCollecting     OrchestrationState = "collecting"
	StateMerging        OrchestrationState = "merging"
	StateDone           OrchestrationState = "done"
	StatePartialFailure OrchestrationState = "partial_failure"
)

// Insight statuses
const (
	InsightBalanced        = "balanced"
	InsightImbalanced      = "imbalanced"
	InsightStrong          = "strong"
	InsightModerate        = "moderate"
	InsightNeedsDiscussion = "needs_further_discussion"
	InsightNoDecisions     = "no_decisions"
	InsightSlow            = "slow"
	InsightSteady          = "steady"
	InsightFast            = "fast"
	InsightUnknown         = "unknown"
)

// MeetingStats are basic figures over the raw utterances
type MeetingStats struct {
	UtteranceCount  int     `json:"utterance_count"`
	UniqueSpeakers  int     `json:"unique_speakers"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// SpeakerHighlights are derived from the speaker profiles
type SpeakerHighlights struct {
	MostActiveSpeaker    string `json:"most_active_speaker"`
	MostDominantSpeaker  string `json:"most_dominant_speaker"`
	StyleDiversity       int    `json:"style_diversity"`
	ParticipationBalance string `json:"participation_balance"`
}

// SpeakerInsights is the speaker part of the merged view
type SpeakerInsights struct {
	Profiles   []SpeakerProfile  `json:"profiles"`
	Summary    SpeakerSummary    `json:"summary"`
	Highlights SpeakerHighlights `json:"highlights"`
}

// AgendaHighlights are derived from the per-topic analysis
type AgendaHighlights struct {
	MostDiscussedTopic  string `json:"most_discussed_topic"`
	HighConsensusTopics int    `json:"high_consensus_topics"`
	TotalDecisions      int    `json:"total_decisions"`
}

// AgendaInsights is the agenda part of the merged view
type AgendaInsights struct {
	Topics     []TopicAnalysis  `json:"topics"`
	Overview   AgendaOverview   `json:"overview"`
	Highlights AgendaHighlights `json:"highlights"`
}

// CrossAnalysis relates speakers to decisions
type CrossAnalysis struct {
	DecisionsBySpeaker map[string]int `json:"decisions_by_speaker"`
	TopDecisionMaker   string         `json:"top_decision_maker"`
	TopDecisionCount   int            `json:"top_decision_count"`
}

// ComprehensiveAnalysis is the merged view of all agent results.
// Speakers or Agenda is nil when that agent failed.
type ComprehensiveAnalysis struct {
	MeetingStats MeetingStats     `json:"meeting_stats"`
	Speakers     *SpeakerInsights `json:"speakers,omitempty"`
	Agenda       *AgendaInsights  `json:"agenda,omitempty"`
	Cross        CrossAnalysis    `json:"cross_analysis"`
}

// Insight is a template-filled flag with a machine status
type Insight struct {
	Status  string  `json:"status"`
	Value   float64 `json:"value"`
	Message string  `json:"message"`
}

// Insights are the flags synthesized from the merged view
type Insights struct {
	Participation   Insight `json:"participation"`
	DecisionQuality Insight `json:"decision_quality"`
	Pacing          Insight `json:"pacing"`
}

// AgentFailure records why one agent contributed no result
type AgentFailure struct {
	AgentType AgentType `json:"agent_type"`
	Error     string    `json:"error"`
}

// ProcessingMetadata describes the orchestration run itself
type ProcessingMetadata struct {
	TotalTimeSeconds float64            `json:"total_time_seconds"`
	AgentsExecuted   int                `json:"agents_executed"`
	SuccessfulAgents int                `json:"successful_agents"`
	State            OrchestrationState `json:"state"`
	Failures         []AgentFailure     `json:"failures,omitempty"`
}

// OrchestrationReport is the result data of the orchestrator
type OrchestrationReport struct {
	MeetingID             string                        `json:"meeting_id"`
	ComprehensiveAnalysis ComprehensiveAnalysis         `json:"comprehensive_analysis"`
	Insights              Insights                      `json:"insights"`
	ExecutiveSummary      string                        `json:"executive_summary"`
	PerAgentResults       map[AgentType]*AnalysisResult `json:"per_agent_results"`
	ProcessingMetadata    ProcessingMetadata            `json:"processing_metadata"`
}
