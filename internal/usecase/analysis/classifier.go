package analysis

import (
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/lexicon"
)

// Classification groups utterances by topic ID. Utterances that matched no
// topic are only counted.
type Classification struct {
	ByTopic    map[string][]entities.Utterance
	Unassigned int
}

// UtteranceClassifier assigns utterances to topics by keyword overlap
type UtteranceClassifier struct {
	lex *lexicon.Lexicon
}

// NewUtteranceClassifier creates a classifier over lex
func NewUtteranceClassifier(lex *lexicon.Lexicon) *UtteranceClassifier {
	return &UtteranceClassifier{lex: lex}
}

// Classify assigns each utterance to the topic with the most matching
// keywords. The first topic wins ties and a score of zero joins nothing.
func (c *UtteranceClassifier) Classify(utterances []entities.Utterance, topics []entities.TopicItem) Classification {
	out := Classification{ByTopic: make(map[string][]entities.Utterance, len(topics))}
	for _, u := range utterances {
		id, ok := c.best(u.Text, topics)
		if !ok {
			out.Unassigned++
			continue
		}
		out.ByTopic[id] = append(out.ByTopic[id], u)
	}
	return out
}

func (c *UtteranceClassifier) best(text string, topics []entities.TopicItem) (string, bool) {
	bestID, bestScore := "", 0
	for _, topic := range topics {
		if score := c.lex.CountMatches(text, topic.Keywords); score > bestScore {
			bestID, bestScore = topic.ID, score
		}
	}
	return bestID, bestScore > 0
}
