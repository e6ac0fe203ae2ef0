package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fahrezi93/hoax-detection/internal/domain/repository"
)

// ErrInvalidRetention is returned for a non-positive retention period
var ErrInvalidRetention = errors.New("retention days must be positive")

// CleanupOutput reports how many rows a cleanup removed
type CleanupOutput struct {
	Predictions int64     `json:"predictions"`
	Feedback    int64     `json:"feedback"`
	Cutoff      time.Time `json:"cutoff"`
}

// CleanupRecorder receives per-table deletion counts
type CleanupRecorder interface {
	CleanedRecords(table string, n int64)
}

// RetentionUsecase deletes stored records past their retention period
type RetentionUsecase interface {
	Cleanup(ctx context.Context, days int) (*CleanupOutput, error)
}

type retentionUsecase struct {
	predictions repository.PredictionRepository
	feedback    repository.FeedbackRepository
	recorder    CleanupRecorder
	logger      *zap.Logger
	now         func() time.Time
}

// NewRetentionUsecase creates a new retention usecase. recorder may be nil.
func NewRetentionUsecase(
	predictions repository.PredictionRepository,
	feedback repository.FeedbackRepository,
	recorder CleanupRecorder,
	logger *zap.Logger,
) RetentionUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &retentionUsecase{
		predictions: predictions,
		feedback:    feedback,
		recorder:    recorder,
		logger:      logger,
		now:         time.Now,
	}
}

func (u *retentionUsecase) Cleanup(ctx context.Context, days int) (*CleanupOutput, error) {
	if days <= 0 {
		return nil, ErrInvalidRetention
	}
	cutoff := u.now().UTC().AddDate(0, 0, -days)
	out := &CleanupOutput{Cutoff: cutoff}

	n, err := u.predictions.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to clean predictions: %w", err)
	}
	out.Predictions = n

	n, err = u.feedback.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return out, fmt.Errorf("failed to clean feedback: %w", err)
	}
	out.Feedback = n

	if u.recorder != nil {
		u.recorder.CleanedRecords("predictions", out.Predictions)
		u.recorder.CleanedRecords("feedback", out.Feedback)
	}

	u.logger.Info("old records cleaned",
		zap.Time("cutoff", cutoff),
		zap.Int64("predictions", out.Predictions),
		zap.Int64("feedback", out.Feedback))
	return out, nil
}
