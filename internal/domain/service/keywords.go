package service

import "context"

// Embedder turns texts into dense vectors, one per input, in input order
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// PhraseRanker returns up to topK salient phrases of text, best first
type PhraseRanker interface {
	Rank(ctx context.Context, text string, topK int) ([]string, error)
}
