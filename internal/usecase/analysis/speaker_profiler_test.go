package analysis

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

func repeat(speaker string, n int, start float64) []entities.Utterance {
	out := make([]entities.Utterance, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, utt(speaker, start+float64(i)*10, fmt.Sprintf("update number %d from the team", i)))
	}
	return out
}

func profileOf(t *testing.T, sa *entities.SpeakerAnalysis, speaker string) entities.SpeakerProfile {
	t.Helper()
	for _, p := range sa.Profiles {
		if p.Speaker == speaker {
			return p
		}
	}
	t.Fatalf("no profile for %s", speaker)
	return entities.SpeakerProfile{}
}

func TestParticipationAndDominance(t *testing.T) {
	p := NewSpeakerProfiler(newTestResources(t))

	var utts []entities.Utterance
	utts = append(utts, repeat("A", 5, 0)...)
	utts = append(utts, repeat("B", 3, 1)...)
	utts = append(utts, repeat("C", 2, 2)...)
	sa := p.Profile(utts)

	require.Len(t, sa.Profiles, 3)
	assert.Equal(t, 10, sa.TotalUtterances)
	assert.Equal(t, []string{"A", "B", "C"}, []string{sa.Profiles[0].Speaker, sa.Profiles[1].Speaker, sa.Profiles[2].Speaker})

	want := map[string][2]float64{"A": {0.5, 1.0}, "B": {0.3, 0.6}, "C": {0.2, 0.4}}
	for speaker, w := range want {
		pr := profileOf(t, sa, speaker)
		assert.InDelta(t, w[0], pr.ParticipationRate, 1e-9, speaker)
		assert.InDelta(t, w[1], pr.DominanceScore, 1e-9, speaker)
	}
	assert.Equal(t, "A", sa.Summary.MostActiveSpeaker)
	assert.Equal(t, 3, sa.Summary.TotalSpeakers)
}

func TestParticipationSumsToOne(t *testing.T) {
	p := NewSpeakerProfiler(newTestResources(t))

	sets := [][]entities.Utterance{
		repeat("solo", 1, 0),
		append(repeat("A", 7, 0), repeat("B", 2, 3)...),
		append(append(repeat("A", 1, 0), repeat("B", 1, 0)...), repeat("", 5, 0)...),
	}
	for i, utts := range sets {
		sa := p.Profile(utts)
		sum := 0.0
		for _, pr := range sa.Profiles {
			sum += pr.ParticipationRate
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "set %d", i)
		assert.Equal(t, 1.0, sa.Profiles[0].DominanceScore, "set %d", i)
	}
}

func TestMissingSpeakerIsUnknown(t *testing.T) {
	p := NewSpeakerProfiler(newTestResources(t))
	sa := p.Profile([]entities.Utterance{utt("", 0, "hello"), utt("  ", 5, "hi"), utt("A", 9, "hey")})

	pr := profileOf(t, sa, UnknownSpeaker)
	assert.Equal(t, 2, pr.UtteranceCount)
}

func TestCommunicationStyle(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 25))
	medium := strings.TrimSpace(strings.Repeat("word ", 15))

	cases := []struct {
		name  string
		utts  []entities.Utterance
		style entities.CommunicationStyle
	}{
		{"question", []entities.Utterance{
			utt("A", 0, "Can we ship this week?"),
			utt("A", 5, "Who owns the rollout？"),
			utt("A", 9, "We ship on Friday."),
			utt("A", 12, "The docs are ready."),
			utt("A", 15, "Support is briefed."),
		}, entities.StyleQuestion},
		{"detailed", []entities.Utterance{utt("A", 0, long)}, entities.StyleDetailed},
		{"concise", []entities.Utterance{utt("A", 0, "Yes we can."), utt("A", 4, "Sure.")}, entities.StyleConcise},
		{"balanced", []entities.Utterance{utt("A", 0, medium)}, entities.StyleBalanced},
	}

	p := NewSpeakerProfiler(newTestResources(t))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sa := p.Profile(tc.utts)
			require.Len(t, sa.Profiles, 1)
			assert.Equal(t, tc.style, sa.Profiles[0].CommunicationStyle)
		})
	}
}

func TestEngagementLevel(t *testing.T) {
	cases := []struct {
		starts []float64
		level  entities.EngagementLevel
	}{
		{[]float64{42}, entities.EngagementHigh},
		{[]float64{0, 10, 20}, entities.EngagementHigh},
		{[]float64{120, 0, 60}, entities.EngagementMedium},
		{[]float64{0, 300}, entities.EngagementLow},
	}

	p := NewSpeakerProfiler(newTestResources(t))
	for _, tc := range cases {
		utts := make([]entities.Utterance, 0, len(tc.starts))
		for _, s := range tc.starts {
			utts = append(utts, utt("A", s, "status update"))
		}
		sa := p.Profile(utts)
		assert.Equal(t, tc.level, sa.Profiles[0].EngagementLevel, "%v", tc.starts)
	}
}

func TestTopicPreferences(t *testing.T) {
	p := NewSpeakerProfiler(newTestResources(t))
	sa := p.Profile([]entities.Utterance{
		utt("A", 0, "We need better code and a new system platform"),
		utt("A", 10, "Check the test results"),
		utt("B", 20, "Sounds fine"),
	})

	assert.Equal(t, []string{"technology", "quality"}, profileOf(t, sa, "A").TopicPreferences)
	assert.Empty(t, profileOf(t, sa, "B").TopicPreferences)
}

func TestTopicPreferencesCapsAtThree(t *testing.T) {
	p := NewSpeakerProfiler(newTestResources(t))
	sa := p.Profile([]entities.Utterance{
		utt("A", 0, "code code system, schedule plan, customer market, team"),
	})
	assert.Equal(t, []string{"technology", "project management", "business"}, sa.Profiles[0].TopicPreferences)
}

func TestParticipationBalance(t *testing.T) {
	p := NewSpeakerProfiler(newTestResources(t))

	even := p.Profile(append(repeat("A", 2, 0), repeat("B", 2, 1)...))
	assert.Equal(t, entities.BalanceBalanced, even.Summary.ParticipationBalance)
	assert.Equal(t, 0.0, even.Summary.ParticipationSpread)

	skewed := p.Profile(append(repeat("A", 8, 0), repeat("B", 2, 1)...))
	assert.Equal(t, entities.BalanceImbalanced, skewed.Summary.ParticipationBalance)
	assert.InDelta(t, 0.6, skewed.Summary.ParticipationSpread, 1e-9)
}

func TestSpeakerProfilerAnalyze(t *testing.T) {
	p := NewSpeakerProfiler(newTestResources(t))
	result, err := p.Analyze(context.Background(), input(repeat("A", 3, 0)...))
	require.NoError(t, err)

	assert.Equal(t, entities.AgentTypeSpeakerProfiler, result.AgentType)
	assert.Equal(t, 0.85, result.ConfidenceScore)
	assert.Equal(t, "en", result.Metadata["language"])
	assert.Equal(t, 1, result.Metadata["total_speakers"])

	data, ok := result.ResultData.(*entities.SpeakerAnalysis)
	require.True(t, ok)
	assert.Equal(t, 3, data.TotalUtterances)
}
