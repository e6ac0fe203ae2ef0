package nlp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fahrezi93/hoax-detection/internal/domain/service"
)

// maxSumLimit bounds the exhaustive Max-Sum search. Larger requests are
// ranked by relevance only.
const maxSumLimit = 10

// ErrNoCandidates is returned when a text yields no rankable phrase
var ErrNoCandidates = errors.New("no candidate phrases")

// EmbeddingRanker ranks one and two word phrases by embedding similarity to
// the whole text, then diversifies with Max-Sum selection over a pool of
// 2*topK candidates.
type EmbeddingRanker struct {
	embedder  service.Embedder
	stopwords wordSet
}

// NewEmbeddingRanker creates a ranker backed by embedder
func NewEmbeddingRanker(embedder service.Embedder, lex *Lexicon) *EmbeddingRanker {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &EmbeddingRanker{
		embedder:  embedder,
		stopwords: newWordSet(lex.Stopwords, lex.KeywordStopwords),
	}
}

type scoredPhrase struct {
	phrase string
	vec    []float32
	score  float64
}

// Rank implements service.PhraseRanker
func (r *EmbeddingRanker) Rank(ctx context.Context, text string, topK int) ([]string, error) {
	if topK <= 0 {
		return nil, nil
	}

	candidates := r.candidates(text)
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	vectors, err := r.embedder.Embed(ctx, append([]string{text}, candidates...))
	if err != nil {
		return nil, fmt.Errorf("embed candidates: %w", err)
	}
	if len(vectors) != len(candidates)+1 {
		return nil, fmt.Errorf("embedder returned %d vectors for %d inputs", len(vectors), len(candidates)+1)
	}

	doc := vectors[0]
	scored := make([]scoredPhrase, len(candidates))
	for i, c := range candidates {
		scored[i] = scoredPhrase{phrase: c, vec: vectors[i+1], score: cosine(doc, vectors[i+1])}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	pool := scored
	if n := 2 * topK; len(pool) > n {
		pool = pool[:n]
	}

	var picked []scoredPhrase
	switch {
	case len(pool) <= topK || topK > maxSumLimit:
		picked = pool
		if len(picked) > topK {
			picked = picked[:topK]
		}
	default:
		picked = maxSum(pool, topK)
	}

	sort.SliceStable(picked, func(i, j int) bool { return picked[i].score > picked[j].score })
	out := make([]string, len(picked))
	for i, p := range picked {
		out[i] = p.phrase
	}
	return out, nil
}

// candidates builds unique unigrams and bigrams over non-stopword tokens in
// order of first appearance
func (r *EmbeddingRanker) candidates(text string) []string {
	var tokens []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if !r.stopwords.has(w) {
			tokens = append(tokens, w)
		}
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for i, t := range tokens {
		add(t)
		if i+1 < len(tokens) {
			add(t + " " + tokens[i+1])
		}
	}
	return out
}

// maxSum picks the k-subset of pool with the lowest summed pairwise
// similarity. Ties keep the first subset found in lexicographic order.
func maxSum(pool []scoredPhrase, k int) []scoredPhrase {
	n := len(pool)
	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
		for j := range sim[i] {
			if i != j {
				sim[i][j] = cosine(pool[i].vec, pool[j].vec)
			}
		}
	}

	best := math.Inf(1)
	var bestIdx []int
	idx := make([]int, 0, k)

	var walk func(start int, sum float64)
	walk = func(start int, sum float64) {
		if len(idx) == k {
			if sum < best {
				best = sum
				bestIdx = append(bestIdx[:0], idx...)
			}
			return
		}
		for i := start; i <= n-(k-len(idx)); i++ {
			added := 0.0
			for _, j := range idx {
				added += sim[i][j]
			}
			idx = append(idx, i)
			walk(i+1, sum+added)
			idx = idx[:len(idx)-1]
		}
	}
	walk(0, 0)

	out := make([]scoredPhrase, len(bestIdx))
	for i, j := range bestIdx {
		out[i] = pool[j]
	}
	return out
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
