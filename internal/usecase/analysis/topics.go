package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/lexicon"
)

const (
	maxTitleKeywords = 3
	maxTitleRunes    = 30
)

// TopicIdentifier finds the discussion topics of a meeting
type TopicIdentifier struct {
	lex *lexicon.Lexicon
}

// NewTopicIdentifier creates a topic identifier over lex
func NewTopicIdentifier(lex *lexicon.Lexicon) *TopicIdentifier {
	return &TopicIdentifier{lex: lex}
}

// Identify returns one topic per trigger utterance, in transcript order.
// Without any trigger it falls back to the default categories whose keywords
// appear somewhere in the transcript.
func (t *TopicIdentifier) Identify(utterances []entities.Utterance) []entities.TopicItem {
	topics := make([]entities.TopicItem, 0)
	for _, u := range utterances {
		text := strings.ToLower(strings.TrimSpace(u.Text))
		if !t.lex.ContainsAny(text, t.lex.TopicTriggers) {
			continue
		}
		topics = append(topics, entities.TopicItem{
			ID:           topicID(len(topics) + 1),
			Title:        t.title(text),
			Keywords:     t.lex.MatchAll(text, t.lex.TopicKeywords),
			IntroducedBy: speakerName(u.Speaker),
			IntroducedAt: u.Start,
		})
	}
	if len(topics) > 0 {
		return topics
	}
	return t.defaultTopics(utterances)
}

func (t *TopicIdentifier) title(text string) string {
	for _, prefix := range t.lex.TitlePrefixes {
		prefix = strings.ToLower(prefix)
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimSpace(text[len(prefix):])
			break
		}
	}

	if kws := t.lex.MatchAll(text, t.lex.TitleKeywords); len(kws) > 0 {
		if len(kws) > maxTitleKeywords {
			kws = kws[:maxTitleKeywords]
		}
		return strings.Join(kws, " ")
	}

	if utf8.RuneCountInString(text) > maxTitleRunes {
		return string([]rune(text)[:maxTitleRunes]) + "..."
	}
	if text == "" {
		return t.lex.GeneralTopicTitle
	}
	return text
}

func (t *TopicIdentifier) defaultTopics(utterances []entities.Utterance) []entities.TopicItem {
	texts := make([]string, 0, len(utterances))
	for _, u := range utterances {
		texts = append(texts, u.Text)
	}
	all := strings.Join(texts, " ")

	topics := make([]entities.TopicItem, 0)
	for _, cat := range t.lex.DefaultTopics {
		if !t.lex.ContainsAny(all, cat.Keywords) {
			continue
		}
		topics = append(topics, entities.TopicItem{
			ID:           topicID(len(topics) + 1),
			Title:        cat.Name,
			Keywords:     append([]string(nil), cat.Keywords...),
			IntroducedBy: t.lex.SystemSpeaker,
			IntroducedAt: 0,
		})
	}
	return topics
}

func topicID(n int) string {
	return fmt.Sprintf("topic_%d", n)
}
