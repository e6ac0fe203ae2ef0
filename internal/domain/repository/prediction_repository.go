package repository

import (
	"context"
	"time"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
)

// PredictionRepository defines the interface for prediction log operations
type PredictionRepository interface {
	// Create stores a single prediction
	Create(ctx context.Context, prediction *entity.Prediction) error

	// List retrieves predictions, most recent first
	List(ctx context.Context, limit, offset int) ([]*entity.Prediction, error)

	// Stats aggregates stored predictions and feedback
	Stats(ctx context.Context) (*entity.PredictionStats, error)

	// DeleteOlderThan removes predictions created before cutoff
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// FeedbackRepository defines the interface for feedback operations
type FeedbackRepository interface {
	// Create stores feedback and assigns its ID
	Create(ctx context.Context, feedback *entity.Feedback) error

	// List retrieves feedback, most recent first
	List(ctx context.Context, limit, offset int) ([]*entity.Feedback, error)

	// DeleteOlderThan removes feedback created before cutoff
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
