package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
)

// ClassificationResult is the raw output of a label classifier
type ClassificationResult struct {
	Label         entity.Label             `json:"label"`
	Probabilities map[entity.Label]float64 `json:"probabilities"`
	ModelVersion  string                   `json:"model_version,omitempty"`
}

// Classifier scores text against the fixed label set
type Classifier interface {
	// Classify runs a single inference over text
	Classify(ctx context.Context, text, requestID string) (*ClassificationResult, error)

	// Name identifies the backend in logs and health output
	Name() string
}

// Validate checks that the result names a known label and carries a usable
// probability for every label
func (r *ClassificationResult) Validate() error {
	if r == nil {
		return errors.New("empty classification result")
	}
	if !r.Label.Valid() {
		return fmt.Errorf("unknown label %q", r.Label)
	}
	total := 0.0
	for _, l := range entity.LabelSet {
		p, ok := r.Probabilities[l]
		if !ok || math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return fmt.Errorf("missing or invalid probability for %q", l)
		}
		total += p
	}
	if total <= 0 {
		return errors.New("probabilities sum to zero")
	}
	return nil
}
