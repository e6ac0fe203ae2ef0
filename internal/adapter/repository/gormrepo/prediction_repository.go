package gormrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
	"github.com/fahrezi93/hoax-detection/internal/domain/repository"
)

type predictionRepository struct {
	db *gorm.DB
}

// NewPredictionRepository creates a new prediction repository
func NewPredictionRepository(db *gorm.DB) repository.PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(ctx context.Context, prediction *entity.Prediction) error {
	return r.db.WithContext(ctx).Create(prediction).Error
}

func (r *predictionRepository) List(ctx context.Context, limit, offset int) ([]*entity.Prediction, error) {
	var predictions []*entity.Prediction
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

type labelCount struct {
	PredictedLabel string
	Count          int64
}

type averages struct {
	AvgConfidence     float64
	AvgProcessingTime float64
}

func (r *predictionRepository) Stats(ctx context.Context) (*entity.PredictionStats, error) {
	db := r.db.WithContext(ctx)
	stats := &entity.PredictionStats{LabelCounts: make(map[string]int64)}

	if err := db.Model(&entity.Prediction{}).Count(&stats.TotalPredictions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.Feedback{}).Count(&stats.TotalFeedback).Error; err != nil {
		return nil, err
	}

	var counts []labelCount
	err := db.Model(&entity.Prediction{}).
		Select("predicted_label, COUNT(*) AS count").
		Group("predicted_label").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.LabelCounts[c.PredictedLabel] = c.Count
	}

	if stats.TotalPredictions > 0 {
		var avg averages
		err := db.Model(&entity.Prediction{}).
			Select("AVG(confidence) AS avg_confidence, AVG(processing_time) AS avg_processing_time").
			Scan(&avg).Error
		if err != nil {
			return nil, err
		}
		stats.AverageConfidence = avg.AvgConfidence
		stats.AverageProcessingTime = avg.AvgProcessingTime
	}

	return stats, nil
}

func (r *predictionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&entity.Prediction{})
	return result.RowsAffected, result.Error
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *gorm.DB) repository.FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepository) List(ctx context.Context, limit, offset int) ([]*entity.Feedback, error) {
	var feedback []*entity.Feedback
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&feedback).Error
	if err != nil {
		return nil, err
	}
	return feedback, nil
}

func (r *feedbackRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&entity.Feedback{})
	return result.RowsAffected, result.Error
}
