package client

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// geminiBatchLimit is the maximum number of requests per BatchEmbedContents call
const geminiBatchLimit = 100

type batchEmbedder interface {
	NewBatch() *genai.EmbeddingBatch
	BatchEmbedContents(ctx context.Context, b *genai.EmbeddingBatch) (*genai.BatchEmbedContentsResponse, error)
}

// GeminiEmbedder adapts a Gemini embedding model to service.Embedder
type GeminiEmbedder struct {
	model batchEmbedder
}

// Embed implements service.Embedder
func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += geminiBatchLimit {
		end := min(start+geminiBatchLimit, len(texts))

		batch := e.model.NewBatch()
		for _, t := range texts[start:end] {
			batch.AddContent(genai.Text(t))
		}

		resp, err := e.model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("gemini embed: %w", err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("gemini returned %d embeddings for %d texts", len(resp.Embeddings), end-start)
		}
		for _, emb := range resp.Embeddings {
			out = append(out, emb.Values)
		}
	}
	return out, nil
}
