// Package lexicon holds the language-tagged keyword tables that drive the
// rule-based meeting analysis: decision cues, topic triggers, sentiment cues,
// interest categories and the disagreement reason taxonomy.
package lexicon

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MatchMode controls how a term is located inside an utterance.
type MatchMode string

const (
	// MatchPrefix requires the term to start at a word boundary; the word may
	// continue after it ("agree" matches "agreed" but not "disagree").
	MatchPrefix MatchMode = "prefix"
	// MatchSubstring is plain containment, used for agglutinative languages
	// where particles attach directly to the keyword.
	MatchSubstring MatchMode = "substring"
)

// Number of categories every lexicon must provide for default topics and
// speaker interests.
const (
	DefaultTopicCount    = 5
	SpeakerInterestCount = 5
)

// Category is a named keyword group.
type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Lexicon is the complete rule table for one language.
type Lexicon struct {
	Language  string    `yaml:"language"`
	MatchMode MatchMode `yaml:"match_mode"`

	DecisionIndicators  []string       `yaml:"decision_indicators"`
	DecisionWeights     map[string]int `yaml:"decision_weights"`
	DecisionPrefixes    []string       `yaml:"decision_prefixes"`
	CourtesyPhrases     []string       `yaml:"courtesy_phrases"`
	NoDecisionSentinels []string       `yaml:"no_decision_sentinels"`

	TopicTriggers    []string   `yaml:"topic_triggers"`
	TitlePrefixes    []string   `yaml:"title_prefixes"`
	TitleKeywords    []string   `yaml:"title_keywords"`
	TopicKeywords    []string   `yaml:"topic_keywords"`
	DefaultTopics    []Category `yaml:"default_topics"`
	SpeakerInterests []Category `yaml:"speaker_interests"`

	PositiveCues []string `yaml:"positive_cues"`
	NegativeCues []string `yaml:"negative_cues"`
	NeutralCues  []string `yaml:"neutral_cues"`

	DisagreementReasons []Category `yaml:"disagreement_reasons"`

	Stopwords    []string `yaml:"stopwords"`
	StemSuffixes []string `yaml:"stem_suffixes"`
	MinStemRunes int      `yaml:"min_stem_runes"`

	SystemSpeaker     string `yaml:"system_speaker"`
	GeneralTopicTitle string `yaml:"general_topic_title"`
	ReasonUnspecified string `yaml:"reason_unspecified"`
}

// Validate checks the structural requirements of a lexicon.
func (l *Lexicon) Validate() error {
	if l == nil {
		return fmt.Errorf("lexicon is nil")
	}
	if strings.TrimSpace(l.Language) == "" {
		return fmt.Errorf("lexicon language is required")
	}
	switch l.MatchMode {
	case MatchPrefix, MatchSubstring:
	default:
		return fmt.Errorf("lexicon %s: unknown match mode %q", l.Language, l.MatchMode)
	}
	if len(l.DefaultTopics) != DefaultTopicCount {
		return fmt.Errorf("lexicon %s: expected %d default topics, got %d", l.Language, DefaultTopicCount, len(l.DefaultTopics))
	}
	if len(l.SpeakerInterests) != SpeakerInterestCount {
		return fmt.Errorf("lexicon %s: expected %d speaker interests, got %d", l.Language, SpeakerInterestCount, len(l.SpeakerInterests))
	}
	if len(l.DecisionIndicators) == 0 {
		return fmt.Errorf("lexicon %s: decision indicators are required", l.Language)
	}
	if l.SystemSpeaker == "" || l.GeneralTopicTitle == "" || l.ReasonUnspecified == "" {
		return fmt.Errorf("lexicon %s: labels are required", l.Language)
	}
	return nil
}

// Contains reports whether term occurs in text.
func (l *Lexicon) Contains(text, term string) bool {
	return l.CountOccurrences(text, term) > 0
}

// ContainsAny reports whether any of terms occurs in text.
func (l *Lexicon) ContainsAny(text string, terms []string) bool {
	lowered := strings.ToLower(text)
	for _, term := range terms {
		if countTerm(lowered, strings.ToLower(term), l.MatchMode) > 0 {
			return true
		}
	}
	return false
}

// CountOccurrences counts non-overlapping occurrences of term in text.
func (l *Lexicon) CountOccurrences(text, term string) int {
	return countTerm(strings.ToLower(text), strings.ToLower(term), l.MatchMode)
}

// CountMatches counts how many of terms occur at least once in text.
func (l *Lexicon) CountMatches(text string, terms []string) int {
	lowered := strings.ToLower(text)
	n := 0
	for _, term := range terms {
		if countTerm(lowered, strings.ToLower(term), l.MatchMode) > 0 {
			n++
		}
	}
	return n
}

// MatchAll returns the terms found in text, in list order.
func (l *Lexicon) MatchAll(text string, terms []string) []string {
	lowered := strings.ToLower(text)
	found := make([]string, 0)
	for _, term := range terms {
		if countTerm(lowered, strings.ToLower(term), l.MatchMode) > 0 {
			found = append(found, term)
		}
	}
	return found
}

// IsNoDecision reports whether a distilled reply is one of the sentinels
// meaning "no decision".
func (l *Lexicon) IsNoDecision(reply string) bool {
	cleaned := strings.ToLower(strings.Trim(strings.TrimSpace(reply), ".!?\"'`"))
	if cleaned == "" {
		return true
	}
	for _, sentinel := range l.NoDecisionSentinels {
		if cleaned == strings.ToLower(sentinel) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers may override fields safely.
func (l *Lexicon) Clone() *Lexicon {
	c := *l
	c.DecisionIndicators = cloneStrings(l.DecisionIndicators)
	c.DecisionPrefixes = cloneStrings(l.DecisionPrefixes)
	c.CourtesyPhrases = cloneStrings(l.CourtesyPhrases)
	c.NoDecisionSentinels = cloneStrings(l.NoDecisionSentinels)
	c.TopicTriggers = cloneStrings(l.TopicTriggers)
	c.TitlePrefixes = cloneStrings(l.TitlePrefixes)
	c.TitleKeywords = cloneStrings(l.TitleKeywords)
	c.TopicKeywords = cloneStrings(l.TopicKeywords)
	c.PositiveCues = cloneStrings(l.PositiveCues)
	c.NegativeCues = cloneStrings(l.NegativeCues)
	c.NeutralCues = cloneStrings(l.NeutralCues)
	c.Stopwords = cloneStrings(l.Stopwords)
	c.StemSuffixes = cloneStrings(l.StemSuffixes)
	c.DefaultTopics = cloneCategories(l.DefaultTopics)
	c.SpeakerInterests = cloneCategories(l.SpeakerInterests)
	c.DisagreementReasons = cloneCategories(l.DisagreementReasons)
	if l.DecisionWeights != nil {
		c.DecisionWeights = make(map[string]int, len(l.DecisionWeights))
		for k, v := range l.DecisionWeights {
			c.DecisionWeights[k] = v
		}
	}
	return &c
}

func countTerm(text, term string, mode MatchMode) int {
	if term == "" || len(term) > len(text) {
		return 0
	}
	n := 0
	for i := 0; i <= len(text)-len(term); {
		idx := strings.Index(text[i:], term)
		if idx < 0 {
			break
		}
		pos := i + idx
		if mode == MatchSubstring || atWordStart(text, pos) {
			n++
			i = pos + len(term)
			continue
		}
		i = pos + 1
	}
	return n
}

func atWordStart(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneCategories(in []Category) []Category {
	if in == nil {
		return nil
	}
	out := make([]Category, len(in))
	for i, c := range in {
		out[i] = Category{Name: c.Name, Keywords: cloneStrings(c.Keywords)}
	}
	return out
}
