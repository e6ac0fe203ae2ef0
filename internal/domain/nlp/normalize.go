package nlp

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var urlPattern = regexp.MustCompile(`(?:https?://|www\.)[^\s]+`)

// Normalizer cleans raw news text before classification and enrichment.
// It is safe for concurrent use.
type Normalizer struct {
	stopwords wordSet
}

// NewNormalizer creates a normalizer using the lexicon's stopwords
func NewNormalizer(lex *Lexicon) *Normalizer {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Normalizer{stopwords: newWordSet(lex.Stopwords)}
}

// Normalize lowercases text, strips URLs, digit runs and punctuation, then
// drops stopwords and tokens of two runes or fewer. The result is stable
// under repeated application.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.ToLower(raw)
	text = urlPattern.ReplaceAllString(text, " ")
	text = dropDigitRuns(text)
	text = keepWordRunes(text)
	// stripping punctuation can join digits that were apart
	text = dropDigitRuns(text)

	fields := strings.Fields(text)
	kept := fields[:0]
	for _, w := range fields {
		if n.stopwords.has(w) || utf8.RuneCountInString(w) <= 2 {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// dropDigitRuns removes every run of two or more digits
func dropDigitRuns(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(runes); {
		if !unicode.IsDigit(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}
		j := i
		for j < len(runes) && unicode.IsDigit(runes[j]) {
			j++
		}
		if j-i == 1 {
			b.WriteRune(runes[i])
		}
		i = j
	}
	return b.String()
}

// keepWordRunes deletes everything except letters, digits, underscore and
// whitespace
func keepWordRunes(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}
