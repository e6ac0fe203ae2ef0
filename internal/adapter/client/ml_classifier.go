package client

import (
	"context"
	"errors"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
	"github.com/fahrezi93/hoax-detection/internal/domain/service"
)

// ErrUnsuccessful is returned when the inference service answers with success=false
var ErrUnsuccessful = errors.New("inference service reported failure")

// MLClassifier adapts MLClient to the Classifier interface
type MLClassifier struct {
	client *MLClient
}

// NewMLClassifier creates a new MLClassifier
func NewMLClassifier(client *MLClient) *MLClassifier {
	return &MLClassifier{client: client}
}

// Name implements service.Classifier
func (c *MLClassifier) Name() string {
	return "indobert"
}

// Classify classifies a single text
func (c *MLClassifier) Classify(ctx context.Context, text, requestID string) (*service.ClassificationResult, error) {
	resp, err := c.client.Classify(ctx, text, requestID)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, ErrUnsuccessful
	}

	probs := make(map[entity.Label]float64, len(resp.Probabilities))
	for k, v := range resp.Probabilities {
		probs[entity.Label(k)] = v
	}

	return &service.ClassificationResult{
		Label:         entity.Label(resp.Label),
		Probabilities: probs,
		ModelVersion:  resp.ModelVersion,
	}, nil
}

// MLEmbedder adapts MLClient to the Embedder interface
type MLEmbedder struct {
	client *MLClient
}

// NewMLEmbedder creates a new MLEmbedder
func NewMLEmbedder(client *MLClient) *MLEmbedder {
	return &MLEmbedder{client: client}
}

// Embed implements service.Embedder
func (e *MLEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	return resp.Embeddings, nil
}
