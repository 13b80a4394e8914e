package analysis

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/lexicon"
	"github.com/johnquangdev/meeting-insights/pkg/textsim"
)

const (
	// DuplicateThreshold is the raw or normalized similarity above which a
	// new decision is dropped as a duplicate
	DuplicateThreshold = 0.8

	minSentenceRunes  = 5
	maxSentenceRunes  = 100
	maxDecisionRunes  = 50
	minBreakRuneIndex = 10
)

var decisionBreakPoints = []rune{',', ';', ' '}

// DecisionExtractor pulls deduplicated decisions out of a topic's utterances
type DecisionExtractor struct {
	res *Resources
}

// NewDecisionExtractor creates a decision extractor
func NewDecisionExtractor(res *Resources) *DecisionExtractor {
	return &DecisionExtractor{res: res}
}

// Extract returns the decisions found in utterances, in utterance order.
// Consensus fields are left for the ConsensusScorer.
func (e *DecisionExtractor) Extract(ctx context.Context, utterances []entities.Utterance) []entities.Decision {
	lex := e.res.Lexicon
	decisions := make([]entities.Decision, 0)
	for _, u := range utterances {
		if !lex.ContainsAny(u.Text, lex.DecisionIndicators) {
			continue
		}

		content, strategy, err := runChain(ctx, e.res, OpExtractDecision, e.res.DecisionStrategies,
			func(ctx context.Context, s DecisionStrategy) (string, error) {
				return s.ExtractDecision(ctx, u.Text)
			})
		if err != nil || content == "" {
			continue
		}
		if e.isDuplicate(content, decisions) {
			continue
		}

		decisions = append(decisions, entities.Decision{
			Content:        content,
			Speaker:        speakerName(u.Speaker),
			Timestamp:      u.Start,
			ConsensusLevel: entities.ConsensusUnclear,
			Source:         strategy.Source(),
			Strategy:       strategy.Name(),
		})
	}
	return decisions
}

// isDuplicate checks both the raw token overlap and the normalized overlap,
// since dropping stopwords can push a near-identical pair under the threshold.
func (e *DecisionExtractor) isDuplicate(content string, existing []entities.Decision) bool {
	for _, d := range existing {
		if textsim.Similarity(content, d.Content) > DuplicateThreshold ||
			e.res.Normalizer.Similarity(content, d.Content) > DuplicateThreshold {
			return true
		}
	}
	return false
}

// extractRuleDecision picks the sentence with the highest decision keyword
// weight and cleans it. Only a positive score yields a decision.
func extractRuleDecision(lex *lexicon.Lexicon, text string) string {
	best, bestScore := "", math.MinInt
	for _, sentence := range splitSentences(text) {
		if score := scoreSentence(lex, sentence); score > bestScore {
			best, bestScore = sentence, score
		}
	}
	if bestScore <= 0 {
		return ""
	}
	return cleanDecision(lex, best)
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '.', '!', '?', '。', '！', '？':
			return true
		}
		return false
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func scoreSentence(lex *lexicon.Lexicon, sentence string) int {
	score := 0
	for kw, weight := range lex.DecisionWeights {
		if lex.Contains(sentence, kw) {
			score += weight
		}
	}

	switch n := utf8.RuneCountInString(sentence); {
	case n < minSentenceRunes:
		score -= 2
	case n > maxSentenceRunes:
		score -= 3
	}

	for _, phrase := range lex.CourtesyPhrases {
		if lex.Contains(sentence, phrase) {
			score--
		}
	}
	return score
}

// cleanDecision strips a decision prefix, normalizes whitespace and edge
// punctuation and shortens the phrase at a natural break
func cleanDecision(lex *lexicon.Lexicon, s string) string {
	s = strings.TrimSpace(stripPrefix(lex.DecisionPrefixes, strings.TrimSpace(s)))
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimSpace(strings.Trim(s, ",.!?"))
	return truncateAtBreak(s, maxDecisionRunes, decisionBreakPoints)
}

func stripPrefix(prefixes []string, s string) string {
	for _, p := range prefixes {
		if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
			return s[len(p):]
		}
	}
	return s
}

// truncateAtBreak shortens s to at most limit runes, cutting at the last
// break point found past minBreakRuneIndex. Break points are tried in order.
func truncateAtBreak(s string, limit int, breaks []rune) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	head := runes[:limit]
	for _, bp := range breaks {
		if idx := lastRuneIndex(head, bp); idx > minBreakRuneIndex {
			return strings.TrimSpace(string(head[:idx]))
		}
	}
	return strings.TrimSpace(string(head))
}

func lastRuneIndex(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
