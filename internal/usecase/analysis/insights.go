package analysis

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

const (
	strongConsensus = 0.7
	weakConsensus   = 0.4
	slowPace        = 2.0
	fastPace        = 10.0
)

func buildComprehensive(utterances []entities.Utterance, speakers *entities.SpeakerAnalysis, agenda *entities.AgendaAnalysis) entities.ComprehensiveAnalysis {
	out := entities.ComprehensiveAnalysis{
		MeetingStats: meetingStats(utterances),
		Cross:        entities.CrossAnalysis{DecisionsBySpeaker: map[string]int{}},
	}
	if speakers != nil {
		out.Speakers = &entities.SpeakerInsights{
			Profiles:   speakers.Profiles,
			Summary:    speakers.Summary,
			Highlights: speakerHighlights(speakers),
		}
	}
	if agenda != nil {
		out.Agenda = &entities.AgendaInsights{
			Topics:     agenda.Topics,
			Overview:   agenda.Overview,
			Highlights: agendaHighlights(agenda),
		}
	}
	if speakers != nil && agenda != nil {
		out.Cross = crossAnalysis(agenda)
	}
	return out
}

func meetingStats(utterances []entities.Utterance) entities.MeetingStats {
	stats := entities.MeetingStats{UtteranceCount: len(utterances)}
	if len(utterances) == 0 {
		return stats
	}

	speakers := make(map[string]struct{})
	minStart, maxStart := utterances[0].Start, utterances[0].Start
	for _, u := range utterances {
		speakers[speakerName(u.Speaker)] = struct{}{}
		if u.Start < minStart {
			minStart = u.Start
		}
		if u.Start > maxStart {
			maxStart = u.Start
		}
	}
	stats.UniqueSpeakers = len(speakers)
	stats.DurationSeconds = round2(maxStart - minStart)
	return stats
}

func speakerHighlights(sa *entities.SpeakerAnalysis) entities.SpeakerHighlights {
	h := entities.SpeakerHighlights{
		MostActiveSpeaker:    sa.Summary.MostActiveSpeaker,
		ParticipationBalance: sa.Summary.ParticipationBalance,
	}
	styles := make(map[entities.CommunicationStyle]struct{})
	best := -1.0
	for _, p := range sa.Profiles {
		styles[p.CommunicationStyle] = struct{}{}
		if p.DominanceScore > best {
			best = p.DominanceScore
			h.MostDominantSpeaker = p.Speaker
		}
	}
	h.StyleDiversity = len(styles)
	return h
}

func agendaHighlights(aa *entities.AgendaAnalysis) entities.AgendaHighlights {
	h := entities.AgendaHighlights{TotalDecisions: aa.Overview.TotalDecisions}
	most := -1
	for _, ta := range aa.Topics {
		if ta.Discussion.UtteranceCount > most {
			most = ta.Discussion.UtteranceCount
			h.MostDiscussedTopic = ta.Topic.Title
		}
		if ta.Consensus.Level == entities.ConsensusHigh {
			h.HighConsensusTopics++
		}
	}
	return h
}

// crossAnalysis counts decisions per speaker across topics; the first speaker
// to reach the highest count is the top decision maker
func crossAnalysis(aa *entities.AgendaAnalysis) entities.CrossAnalysis {
	out := entities.CrossAnalysis{DecisionsBySpeaker: map[string]int{}}
	order := make([]string, 0)
	for _, ta := range aa.Topics {
		for _, d := range ta.Decisions {
			if d.Speaker == "" {
				continue
			}
			if out.DecisionsBySpeaker[d.Speaker] == 0 {
				order = append(order, d.Speaker)
			}
			out.DecisionsBySpeaker[d.Speaker]++
		}
	}
	for _, s := range order {
		if n := out.DecisionsBySpeaker[s]; n > out.TopDecisionCount {
			out.TopDecisionMaker, out.TopDecisionCount = s, n
		}
	}
	return out
}

func buildInsights(ca entities.ComprehensiveAnalysis) entities.Insights {
	return entities.Insights{
		Participation:   participationInsight(ca.Speakers),
		DecisionQuality: decisionQualityInsight(ca.Agenda),
		Pacing:          pacingInsight(ca.MeetingStats),
	}
}

func participationInsight(si *entities.SpeakerInsights) entities.Insight {
	if si == nil {
		return entities.Insight{Status: entities.InsightUnknown, Message: "Speaker analysis is unavailable."}
	}
	in := entities.Insight{Value: si.Summary.ParticipationSpread}
	if si.Summary.ParticipationBalance == entities.BalanceImbalanced {
		in.Status = entities.InsightImbalanced
		in.Message = fmt.Sprintf("Participation is imbalanced: rates differ by %s between the most and least active speakers.", pct(in.Value))
		return in
	}
	in.Status = entities.InsightBalanced
	in.Message = "Participation is balanced across speakers."
	return in
}

func decisionQualityInsight(ai *entities.AgendaInsights) entities.Insight {
	if ai == nil {
		return entities.Insight{Status: entities.InsightUnknown, Message: "Agenda analysis is unavailable."}
	}
	total := ai.Overview.TotalDecisions
	in := entities.Insight{Value: ai.Overview.AverageConsensus}
	switch {
	case total == 0:
		in.Status = entities.InsightNoDecisions
		in.Message = "No decisions were reached."
	case in.Value > strongConsensus:
		in.Status = entities.InsightStrong
		in.Message = fmt.Sprintf("%s reached with strong consensus (%s).", counted(total, "decision was", "decisions were"), pct(in.Value))
	case in.Value < weakConsensus:
		in.Status = entities.InsightNeedsDiscussion
		in.Message = fmt.Sprintf("%s reached with low consensus (%s); further discussion may be needed.", counted(total, "decision was", "decisions were"), pct(in.Value))
	default:
		in.Status = entities.InsightModerate
		in.Message = fmt.Sprintf("%s reached with moderate consensus (%s).", counted(total, "decision was", "decisions were"), pct(in.Value))
	}
	return in
}

func pacingInsight(ms entities.MeetingStats) entities.Insight {
	if ms.DurationSeconds <= 0 {
		return entities.Insight{Status: entities.InsightUnknown, Message: "Meeting duration is unknown."}
	}
	rate := float64(ms.UtteranceCount) / (ms.DurationSeconds / 60)
	in := entities.Insight{Value: round2(rate)}
	switch {
	case rate < slowPace:
		in.Status = entities.InsightSlow
		in.Message = fmt.Sprintf("The meeting pace was slow at %.1f utterances per minute.", rate)
	case rate > fastPace:
		in.Status = entities.InsightFast
		in.Message = fmt.Sprintf("The meeting pace was fast at %.1f utterances per minute.", rate)
	default:
		in.Status = entities.InsightSteady
		in.Message = fmt.Sprintf("The meeting pace was steady at %.1f utterances per minute.", rate)
	}
	return in
}

func executiveSummary(ca entities.ComprehensiveAnalysis) string {
	ms := ca.MeetingStats
	parts := []string{fmt.Sprintf(
		"This meeting had %s over %.1f minutes with %s.",
		counted(ms.UniqueSpeakers, "participant", "participants"), ms.DurationSeconds/60,
		counted(ms.UtteranceCount, "utterance", "utterances"),
	)}

	if ca.Speakers != nil {
		parts = append(parts, fmt.Sprintf("Participation was %s.", ca.Speakers.Summary.ParticipationBalance))
	}
	if ca.Agenda != nil {
		ov := ca.Agenda.Overview
		parts = append(parts,
			fmt.Sprintf("%s discussed and %s reached.",
				counted(ov.TotalTopics, "topic was", "topics were"),
				counted(ov.TotalDecisions, "decision was", "decisions were")),
			fmt.Sprintf("Overall consensus was %.1f%%.", ov.AverageConsensus*100),
		)
	}
	if ca.Cross.TopDecisionMaker != "" {
		parts = append(parts, fmt.Sprintf("%s drove the most decisions (%d).", ca.Cross.TopDecisionMaker, ca.Cross.TopDecisionCount))
	}
	return strings.Join(parts, " ")
}

// counted prefixes n to the singular or plural phrase
func counted(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
