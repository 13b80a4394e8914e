package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/lexicon"
	"github.com/johnquangdev/meeting-insights/pkg/textsim"
)

func TestExtractDeduplicatesSimilarDecisions(t *testing.T) {
	res := newTestResources(t)
	e := NewDecisionExtractor(res)

	decisions := e.Extract(context.Background(), []entities.Utterance{
		utt("A", 10, "budget increased by 20%, agreed"),
		utt("B", 20, "agreed to increase budget 20%"),
	})

	require.Len(t, decisions, 1)
	assert.Equal(t, "budget increased by 20%, agreed", decisions[0].Content)
	assert.Equal(t, "A", decisions[0].Speaker)
	assert.Equal(t, 10.0, decisions[0].Timestamp)
	assert.Equal(t, entities.SourceRules, decisions[0].Source)
	assert.Equal(t, RuleStrategyName, decisions[0].Strategy)
	assert.Equal(t, entities.ConsensusUnclear, decisions[0].ConsensusLevel)
}

func TestExtractedDecisionsAreNeverNearDuplicates(t *testing.T) {
	res := newTestResources(t)
	e := NewDecisionExtractor(res)

	decisions := e.Extract(context.Background(), []entities.Utterance{
		utt("A", 0, "We decided to hire two engineers."),
		utt("B", 5, "Decided: hire two engineers!"),
		utt("C", 9, "We agreed to launch the beta in March."),
		utt("A", 12, "Let's approve the new vendor contract."),
		utt("B", 14, "approve the new vendor contract"),
	})

	require.NotEmpty(t, decisions)
	for i := range decisions {
		for j := i + 1; j < len(decisions); j++ {
			assert.LessOrEqual(t, res.Normalizer.Similarity(decisions[i].Content, decisions[j].Content), DuplicateThreshold,
				"%q vs %q", decisions[i].Content, decisions[j].Content)
			assert.LessOrEqual(t, textsim.Similarity(decisions[i].Content, decisions[j].Content), DuplicateThreshold,
				"%q vs %q", decisions[i].Content, decisions[j].Content)
		}
	}
}

func TestExtractDropsRawNearDuplicatesOfStopwords(t *testing.T) {
	res := newTestResources(t)
	e := NewDecisionExtractor(res)
	first := "so we will approve it and that is for the us"
	second := "so we will confirm it and that is for the us"

	// the normalized forms share nothing while the raw token sets nearly match
	require.Greater(t, textsim.Similarity(first, second), DuplicateThreshold)
	require.LessOrEqual(t, res.Normalizer.Similarity(first, second), DuplicateThreshold)

	decisions := e.Extract(context.Background(), []entities.Utterance{
		utt("A", 0, first),
		utt("B", 4, second),
	})

	require.Len(t, decisions, 1)
	assert.Equal(t, first, decisions[0].Content)
}

func TestExtractSkipsUtterancesWithoutIndicators(t *testing.T) {
	e := NewDecisionExtractor(newTestResources(t))
	decisions := e.Extract(context.Background(), []entities.Utterance{
		utt("A", 0, "We should start soon."),
		utt("B", 3, "Lunch is at noon."),
	})
	assert.Empty(t, decisions)
}

func TestExtractRuleDecision(t *testing.T) {
	lex := lexicon.English()

	cases := []struct {
		name string
		text string
		want string
	}{
		{"picks best sentence", "Thanks. We decide to launch the product", "We decide to launch the product"},
		{"strips prefix", "We agreed that the budget will be allocated to marketing.", "the budget will be allocated to marketing"},
		{"no weighted keyword", "OK, sounds good", ""},
		{"fullwidth punctuation", "Okay。We confirm the schedule！", "We confirm the schedule"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractRuleDecision(lex, tc.text))
		})
	}
}

func TestScoreSentencePenalties(t *testing.T) {
	lex := lexicon.English()

	assert.Equal(t, 5, scoreSentence(lex, "we decide today"))
	assert.Equal(t, 4, scoreSentence(lex, "we decide today, thanks"))
	assert.Equal(t, 2, scoreSentence(lex, "plan"), "short sentences lose two points")
	long := "we decide " + strings.Repeat("x", 100)
	assert.Equal(t, 2, scoreSentence(lex, long), "long sentences lose three points")
}

func TestTruncateAtBreak(t *testing.T) {
	short := "allocate budget"
	assert.Equal(t, short, truncateAtBreak(short, 50, decisionBreakPoints))

	s := "we will allocate the budget to marketing, sales and the support team next quarter"
	got := truncateAtBreak(s, 50, decisionBreakPoints)
	assert.Equal(t, "we will allocate the budget to marketing", got)

	words := "alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu"
	got = truncateAtBreak(words, 50, decisionBreakPoints)
	assert.True(t, strings.HasPrefix(words, got))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 50)
	assert.False(t, strings.HasSuffix(got, " "))

	// the only break point is too early, so the text is cut hard
	hard := "abc " + strings.Repeat("x", 60)
	assert.Equal(t, 50, utf8.RuneCountInString(truncateAtBreak(hard, 50, decisionBreakPoints)))
}

func TestCleanDecision(t *testing.T) {
	lex := lexicon.English()
	assert.Equal(t, "hire two engineers", cleanDecision(lex, "  The decision is   hire two engineers!! "))
	assert.Equal(t, "ship it", cleanDecision(lex, "IN CONCLUSION ship it."))
}

func TestDistillerDecisionStrategy(t *testing.T) {
	t.Run("distilled phrase wins", func(t *testing.T) {
		fd := &fakeDistiller{decision: "Hire two engineers"}
		e := NewDecisionExtractor(newTestResources(t, WithDistillers(fd)))

		decisions := e.Extract(context.Background(), []entities.Utterance{utt("A", 0, "After a long talk we decided to hire two engineers.")})
		require.Len(t, decisions, 1)
		assert.Equal(t, "Hire two engineers", decisions[0].Content)
		assert.Equal(t, entities.SourceDistilled, decisions[0].Source)
		assert.Equal(t, "distiller:fake", decisions[0].Strategy)
	})

	t.Run("sentinel means no decision", func(t *testing.T) {
		fd := &fakeDistiller{decision: "None."}
		e := NewDecisionExtractor(newTestResources(t, WithDistillers(fd)))

		decisions := e.Extract(context.Background(), []entities.Utterance{utt("A", 0, "We decided to hire two engineers.")})
		assert.Empty(t, decisions)
		assert.Equal(t, int32(1), fd.decisionCalls)
	})

	t.Run("errors fall through to rules", func(t *testing.T) {
		fd := &fakeDistiller{decisionErr: errors.New("groq returned status 503")}
		e := NewDecisionExtractor(newTestResources(t, WithDistillers(fd)))

		decisions := e.Extract(context.Background(), []entities.Utterance{utt("A", 0, "We decided to hire two engineers.")})
		require.Len(t, decisions, 1)
		assert.Equal(t, RuleStrategyName, decisions[0].Strategy)
		assert.Equal(t, entities.SourceRules, decisions[0].Source)
		assert.Equal(t, "We decided to hire two engineers", decisions[0].Content)
	})
}

func TestRunChainReportsLastError(t *testing.T) {
	res := newTestResources(t)
	chain := []DecisionStrategy{&distillerDecisionStrategy{d: &fakeDistiller{decisionErr: errors.New("down")}, lex: res.Lexicon}}

	_, _, err := runChain(context.Background(), res, OpExtractDecision, chain,
		func(ctx context.Context, s DecisionStrategy) (string, error) {
			return s.ExtractDecision(ctx, "we decide")
		})
	require.Error(t, err)
	assert.Contains(t, err.Error(), OpExtractDecision)
	assert.Contains(t, err.Error(), "down")

	_, _, err = runChain(context.Background(), res, OpExtractDecision, []DecisionStrategy{},
		func(ctx context.Context, s DecisionStrategy) (string, error) { return "", nil })
	assert.Error(t, err)
}

func TestKoreanDecisionExtraction(t *testing.T) {
	res := newTestResources(t, WithLexicon(lexicon.Korean()))
	e := NewDecisionExtractor(res)

	decisions := e.Extract(context.Background(), []entities.Utterance{
		utt("A", 0, "결정된 사항은 신규 플랫폼 개발을 추진하기로 했습니다."),
	})
	require.Len(t, decisions, 1)
	assert.Equal(t, "신규 플랫폼 개발을 추진하기로 했습니다", decisions[0].Content)
}
