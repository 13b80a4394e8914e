// Package textsim provides token-set similarity for short texts.
package textsim

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Tokens lowercases text, strips punctuation and symbols and splits it on
// whitespace.
func Tokens(text string) []string {
	// Casers are stateful, so each call gets its own.
	text = cases.Fold().String(norm.NFKC.String(text))
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return r
	}, text)
	return strings.Fields(cleaned)
}

// Jaccard returns |A∩B| / |A∪B| over the distinct elements of a and b.
// Either side being empty yields 0.
func Jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inter := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// Similarity is the Jaccard similarity of the token sets of a and b.
func Similarity(a, b string) float64 {
	return Jaccard(Tokens(a), Tokens(b))
}

// Normalizer reduces tokens to comparable stems by dropping stopwords and
// stripping one inflection suffix.
type Normalizer struct {
	stopwords    map[string]struct{}
	suffixes     []string
	minStemRunes int
}

// NewNormalizer builds a normalizer. Suffixes are tried in order and the
// first one that leaves at least minStemRunes runes is stripped.
func NewNormalizer(stopwords, suffixes []string, minStemRunes int) *Normalizer {
	if minStemRunes < 1 {
		minStemRunes = 1
	}
	sw := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		for _, tok := range Tokens(w) {
			sw[tok] = struct{}{}
		}
	}
	return &Normalizer{stopwords: sw, suffixes: suffixes, minStemRunes: minStemRunes}
}

// Normalize returns the stemmed content tokens of text.
func (n *Normalizer) Normalize(text string) []string {
	raw := Tokens(text)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := n.stopwords[tok]; stop {
			continue
		}
		out = append(out, n.stem(tok))
	}
	return out
}

// Similarity is the Jaccard similarity of the normalized token sets.
func (n *Normalizer) Similarity(a, b string) float64 {
	return Jaccard(n.Normalize(a), n.Normalize(b))
}

func (n *Normalizer) stem(tok string) string {
	for _, suffix := range n.suffixes {
		if suffix == "" || !strings.HasSuffix(tok, suffix) {
			continue
		}
		stem := strings.TrimSuffix(tok, suffix)
		if utf8.RuneCountInString(stem) >= n.minStemRunes {
			return stem
		}
	}
	return tok
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
