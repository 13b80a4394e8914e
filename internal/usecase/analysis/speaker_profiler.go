package analysis

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

const (
	speakerProfilerConfidence = 0.85

	questionRatio     = 0.3
	detailedWords     = 20
	conciseWords      = 10
	highEngagementGap = 30.0
	midEngagementGap  = 120.0
	balanceSpread     = 0.3
	maxPreferences    = 3
)

// SpeakerProfiler computes participation, dominance, style, engagement and
// topic interest per speaker
type SpeakerProfiler struct {
	res *Resources
}

// NewSpeakerProfiler creates a speaker profiler
func NewSpeakerProfiler(res *Resources) *SpeakerProfiler {
	return &SpeakerProfiler{res: res}
}

// Type implements Agent
func (p *SpeakerProfiler) Type() entities.AgentType {
	return entities.AgentTypeSpeakerProfiler
}

// Analyze implements Agent
func (p *SpeakerProfiler) Analyze(ctx context.Context, input *entities.AnalysisInput) (*entities.AnalysisResult, error) {
	if err := validateInput(p.res, input); err != nil {
		return nil, err
	}

	start := time.Now()
	data := p.Profile(input.Utterances)

	result := entities.NewAnalysisResult(p.Type(), input.MeetingID, data, speakerProfilerConfidence)
	result.ProcessingTimeSeconds = time.Since(start).Seconds()
	result.Metadata["language"] = p.res.Lexicon.Language
	result.Metadata["total_speakers"] = data.Summary.TotalSpeakers

	p.res.Logger.Info("speaker profiling completed",
		zap.String("meeting_id", input.MeetingID),
		zap.Int("speakers", data.Summary.TotalSpeakers),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// Profile builds the profiles of every speaker in utterances
func (p *SpeakerProfiler) Profile(utterances []entities.Utterance) *entities.SpeakerAnalysis {
	total := len(utterances)
	order := make([]string, 0)
	groups := make(map[string][]entities.Utterance)
	for _, u := range utterances {
		name := speakerName(u.Speaker)
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], u)
	}

	maxRate := 0.0
	for _, name := range order {
		if rate := float64(len(groups[name])) / float64(total); rate > maxRate {
			maxRate = rate
		}
	}

	profiles := make([]entities.SpeakerProfile, 0, len(order))
	for _, name := range order {
		profiles = append(profiles, p.profileSpeaker(name, groups[name], total, maxRate))
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].ParticipationRate != profiles[j].ParticipationRate {
			return profiles[i].ParticipationRate > profiles[j].ParticipationRate
		}
		return profiles[i].Speaker < profiles[j].Speaker
	})

	return &entities.SpeakerAnalysis{
		TotalUtterances: total,
		Profiles:        profiles,
		Summary:         summarizeSpeakers(profiles),
	}
}

func (p *SpeakerProfiler) profileSpeaker(name string, utts []entities.Utterance, total int, maxRate float64) entities.SpeakerProfile {
	rate := float64(len(utts)) / float64(total)

	questions, statements, words := 0, 0, 0
	speaking := 0.0
	texts := make([]string, 0, len(utts))
	starts := make([]float64, 0, len(utts))
	for _, u := range utts {
		text := strings.TrimSpace(u.Text)
		if strings.HasSuffix(text, "?") || strings.HasSuffix(text, "？") {
			questions++
		} else {
			statements++
		}
		words += wordCount(text)
		if u.End != nil && *u.End > u.Start {
			speaking += *u.End - u.Start
		}
		texts = append(texts, text)
		starts = append(starts, u.Start)
	}
	avgWords := float64(words) / float64(len(utts))

	gap := meanGap(starts)
	dominance := 0.0
	if maxRate > 0 {
		dominance = round2(rate / maxRate)
	}

	return entities.SpeakerProfile{
		Speaker:            name,
		UtteranceCount:     len(utts),
		ParticipationRate:  rate,
		DominanceScore:     dominance,
		CommunicationStyle: communicationStyle(questions, statements, avgWords),
		EngagementLevel:    engagementLevel(gap),
		TopicPreferences:   p.topicPreferences(strings.Join(texts, " ")),
		QuestionCount:      questions,
		StatementCount:     statements,
		AverageWords:       round2(avgWords),
		TotalSpeakingTime:  round2(speaking),
		AverageGapSeconds:  round2(gap),
	}
}

func communicationStyle(questions, statements int, avgWords float64) entities.CommunicationStyle {
	switch {
	case float64(questions) > questionRatio*float64(statements):
		return entities.StyleQuestion
	case avgWords > detailedWords:
		return entities.StyleDetailed
	case avgWords < conciseWords:
		return entities.StyleConcise
	default:
		return entities.StyleBalanced
	}
}

// meanGap is the mean distance between consecutive start times, 0 for a
// single utterance
func meanGap(starts []float64) float64 {
	if len(starts) < 2 {
		return 0
	}
	sorted := append([]float64(nil), starts...)
	sort.Float64s(sorted)
	return (sorted[len(sorted)-1] - sorted[0]) / float64(len(sorted)-1)
}

func engagementLevel(gap float64) entities.EngagementLevel {
	switch {
	case gap < highEngagementGap:
		return entities.EngagementHigh
	case gap < midEngagementGap:
		return entities.EngagementMedium
	default:
		return entities.EngagementLow
	}
}

// topicPreferences returns up to three interest categories with a nonzero
// keyword count, highest first
func (p *SpeakerProfiler) topicPreferences(text string) []string {
	lex := p.res.Lexicon
	type scored struct {
		name  string
		score int
	}
	scores := make([]scored, 0, len(lex.SpeakerInterests))
	for _, cat := range lex.SpeakerInterests {
		n := 0
		for _, kw := range cat.Keywords {
			n += lex.CountOccurrences(text, kw)
		}
		if n > 0 {
			scores = append(scores, scored{name: cat.Name, score: n})
		}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	out := make([]string, 0, maxPreferences)
	for i := 0; i < len(scores) && i < maxPreferences; i++ {
		out = append(out, scores[i].name)
	}
	return out
}

func summarizeSpeakers(profiles []entities.SpeakerProfile) entities.SpeakerSummary {
	summary := entities.SpeakerSummary{
		TotalSpeakers:        len(profiles),
		ParticipationBalance: entities.BalanceBalanced,
	}
	if len(profiles) == 0 {
		return summary
	}

	// profiles are sorted by participation, most active first
	maxRate := profiles[0].ParticipationRate
	minRate := profiles[len(profiles)-1].ParticipationRate
	sum := 0.0
	for _, pr := range profiles {
		sum += pr.ParticipationRate
	}

	summary.MostActiveSpeaker = profiles[0].Speaker
	summary.ParticipationSpread = round2(maxRate - minRate)
	summary.AverageParticipation = round2(sum / float64(len(profiles)))
	if maxRate-minRate >= balanceSpread {
		summary.ParticipationBalance = entities.BalanceImbalanced
	}
	return summary
}
