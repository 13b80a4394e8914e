package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

const (
	agendaAnalyzerConfidence = 0.80

	summaryDecisions = 3
	summaryRunes     = 20
)

var summaryBreakPoints = []rune{'.', ',', ';', ' '}

// AgendaAnalyzer identifies topics, extracts their decisions and scores
// consensus per topic
type AgendaAnalyzer struct {
	res        *Resources
	topics     *TopicIdentifier
	classifier *UtteranceClassifier
	extractor  *DecisionExtractor
	scorer     *ConsensusScorer
}

// NewAgendaAnalyzer creates an agenda analyzer with its sub-components
func NewAgendaAnalyzer(res *Resources) *AgendaAnalyzer {
	return &AgendaAnalyzer{
		res:        res,
		topics:     NewTopicIdentifier(res.Lexicon),
		classifier: NewUtteranceClassifier(res.Lexicon),
		extractor:  NewDecisionExtractor(res),
		scorer:     NewConsensusScorer(res),
	}
}

// Type implements Agent
func (a *AgendaAnalyzer) Type() entities.AgentType {
	return entities.AgentTypeAgendaAnalyzer
}

// Analyze implements Agent
func (a *AgendaAnalyzer) Analyze(ctx context.Context, input *entities.AnalysisInput) (*entities.AnalysisResult, error) {
	if err := validateInput(a.res, input); err != nil {
		return nil, err
	}

	start := time.Now()
	data := a.AnalyzeUtterances(ctx, input.Utterances)

	if dropped := data.Overview.UnassignedUtterances; dropped > 0 {
		a.res.Metrics.RecordDroppedUtterances(dropped)
		a.res.Logger.Warn("utterances matched no topic",
			zap.String("meeting_id", input.MeetingID),
			zap.Int("dropped", dropped),
		)
	}

	result := entities.NewAnalysisResult(a.Type(), input.MeetingID, data, agendaAnalyzerConfidence)
	result.ProcessingTimeSeconds = time.Since(start).Seconds()
	result.Metadata["language"] = a.res.Lexicon.Language
	result.Metadata["total_topics"] = data.Overview.TotalTopics
	result.Metadata["unassigned_utterances"] = data.Overview.UnassignedUtterances

	a.res.Logger.Info("agenda analysis completed",
		zap.String("meeting_id", input.MeetingID),
		zap.Int("topics", data.Overview.TotalTopics),
		zap.Int("decisions", data.Overview.TotalDecisions),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// AnalyzeUtterances runs topic identification, classification, decision
// extraction and consensus scoring over utterances
func (a *AgendaAnalyzer) AnalyzeUtterances(ctx context.Context, utterances []entities.Utterance) *entities.AgendaAnalysis {
	topics := a.topics.Identify(utterances)
	classified := a.classifier.Classify(utterances, topics)

	analyses := make([]entities.TopicAnalysis, 0, len(topics))
	for _, topic := range topics {
		group := classified.ByTopic[topic.ID]
		decisions := a.extractor.Extract(ctx, group)
		consensus, ranked := a.scorer.Score(ctx, topic, group, decisions)

		analyses = append(analyses, entities.TopicAnalysis{
			Topic:      topic,
			Discussion: discussionStats(group),
			Consensus:  consensus,
			Decisions:  ranked,
			Summary:    a.topicSummary(consensus, ranked),
		})
	}

	return &entities.AgendaAnalysis{
		Topics:   analyses,
		Overview: agendaOverview(analyses, classified.Unassigned),
	}
}

func discussionStats(group []entities.Utterance) entities.DiscussionStats {
	stats := entities.DiscussionStats{UtteranceCount: len(group)}
	if len(group) == 0 {
		return stats
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	words := 0
	minStart, maxStart := group[0].Start, group[0].Start
	for _, u := range group {
		name := speakerName(u.Speaker)
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
		words += wordCount(u.Text)
		if u.Start < minStart {
			minStart = u.Start
		}
		if u.Start > maxStart {
			maxStart = u.Start
		}
	}

	best := order[0]
	for _, name := range order[1:] {
		if counts[name] > counts[best] {
			best = name
		}
	}

	stats.UniqueSpeakers = len(order)
	stats.MostActiveSpeaker = best
	stats.DurationSeconds = round2(maxStart - minStart)
	stats.AverageUtteranceWords = round2(float64(words) / float64(len(group)))
	return stats
}

func (a *AgendaAnalyzer) topicSummary(consensus entities.Consensus, decisions []entities.Decision) string {
	head := fmt.Sprintf("Consensus %s (%.1f%%)", consensus.Level, consensus.Score*100)
	if len(decisions) == 0 {
		return head
	}

	parts := make([]string, 0, summaryDecisions)
	for i := 0; i < len(decisions) && i < summaryDecisions; i++ {
		if s := a.decisionSummary(decisions[i].Content); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s - %d decisions", head, len(decisions))
	}
	return head + " - " + strings.Join(parts, ", ")
}

func (a *AgendaAnalyzer) decisionSummary(content string) string {
	content = strings.TrimSpace(stripPrefix(a.res.Lexicon.DecisionPrefixes, strings.TrimSpace(content)))
	return truncateAtBreak(content, summaryRunes, summaryBreakPoints)
}

func agendaOverview(analyses []entities.TopicAnalysis, unassigned int) entities.AgendaOverview {
	overview := entities.AgendaOverview{
		TotalTopics:          len(analyses),
		TopicTitles:          make([]string, 0, len(analyses)),
		UnassignedUtterances: unassigned,
	}
	sum := 0.0
	for _, ta := range analyses {
		overview.TotalDecisions += len(ta.Decisions)
		overview.TopicTitles = append(overview.TopicTitles, ta.Topic.Title)
		sum += ta.Consensus.Score
	}
	if len(analyses) > 0 {
		overview.AverageConsensus = round2(sum / float64(len(analyses)))
	}
	return overview
}
