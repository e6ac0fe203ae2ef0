package nlp

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fahrezi93/hoax-detection/internal/domain/service"
)

// KeywordExtractor returns the most salient phrases of a text. It prefers
// an embedding ranker and falls back to word frequency when the ranker is
// absent, fails or returns too few phrases.
type KeywordExtractor struct {
	ranker    service.PhraseRanker
	stopwords wordSet
	logger    *zap.Logger
}

// NewKeywordExtractor creates an extractor. ranker may be nil.
func NewKeywordExtractor(ranker service.PhraseRanker, lex *Lexicon, logger *zap.Logger) *KeywordExtractor {
	if lex == nil {
		lex = DefaultLexicon()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeywordExtractor{
		ranker:    ranker,
		stopwords: newWordSet(lex.KeywordStopwords),
		logger:    logger,
	}
}

// HasRanker reports whether an embedding ranker is configured
func (e *KeywordExtractor) HasRanker() bool {
	return e.ranker != nil
}

// Extract returns at most topK keywords. The second return value reports
// whether frequency ranking supplied any of them. It never fails.
func (e *KeywordExtractor) Extract(ctx context.Context, text string, topK int) ([]string, bool) {
	if topK <= 0 || strings.TrimSpace(text) == "" {
		return []string{}, false
	}

	var primary []string
	if e.ranker != nil {
		phrases, err := e.ranker.Rank(ctx, text, topK)
		if err != nil {
			e.logger.Warn("keyword ranker failed, using frequency fallback", zap.Error(err))
		} else {
			primary = phrases
		}
	}

	if len(primary) > topK {
		primary = primary[:topK]
	}
	if len(primary) == topK {
		return primary, false
	}

	return pad(primary, e.frequencyKeywords(text), topK), true
}

// frequencyKeywords ranks tokens longer than three runes by count, ties in
// order of first appearance
func (e *KeywordExtractor) frequencyKeywords(text string) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(w) <= 3 || e.stopwords.has(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

func pad(primary, fallback []string, topK int) []string {
	out := make([]string, 0, topK)
	seen := make(map[string]struct{}, topK)
	for _, list := range [][]string{primary, fallback} {
		for _, w := range list {
			if len(out) == topK {
				return out
			}
			if _, dup := seen[w]; dup || w == "" {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}
