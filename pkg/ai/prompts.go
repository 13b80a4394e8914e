package ai

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const decisionSystemPrompt = `You extract decisions from meeting utterances.
Reply with the decision itself as a short phrase of at most 30 characters.
If the utterance contains no decision, reply with exactly: none
Do not add explanations, quotes or punctuation.`

const decisionUserPrompt = `Language: %s
Utterance: %s`

const opinionSystemPrompt = `You classify the stance of meeting utterances toward the topic under discussion.
Allowed polarities: positive, negative, neutral, uncertain.
Reply with a JSON array only, one object per utterance:
[{"index": 0, "polarity": "positive", "confidence": 0.9, "reason": "short reason"}]`

const opinionUserPrompt = `Language of the reasons: %s
Utterances:
%s`

const disagreementSystemPrompt = `You summarize disagreements in meetings.
Reply with a JSON object only:
{"dissenters": ["speaker"], "disputed_content": "what was disputed", "reasons": ["why"], "suggestions": "how to resolve"}`

const disagreementUserPrompt = `Language: %s
Topic: %s
Opinions:
%s`

// languageName renders a BCP 47 tag as an English language name for prompts
func languageName(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return "English"
	}
	name := display.English.Tags().Name(t)
	if name == "" {
		return "English"
	}
	return name
}
