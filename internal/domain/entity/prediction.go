package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Prediction is a persisted prediction row
type Prediction struct {
	ID             uuid.UUID `json:"request_id" gorm:"type:uuid;primary_key"`
	InputText      string    `json:"input_text" gorm:"type:text;not null"`
	PredictedLabel Label     `json:"predicted_label" gorm:"type:varchar(20);not null;index"`
	Confidence     float64   `json:"confidence" gorm:"not null"`
	ProcessingTime float64   `json:"processing_time" gorm:"not null"`
	CreatedAt      time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
}

// TableName returns the table name for GORM
func (Prediction) TableName() string {
	return "predictions"
}

// PredictionResult is the outcome of one pass through the prediction pipeline.
// Label is the arg-max of Probabilities on the model path; the rule-based
// fallback reports an even split regardless of its label.
type PredictionResult struct {
	RequestID      uuid.UUID
	InputText      string
	ProcessedText  string
	Label          Label
	Confidence     float64
	Probabilities  map[Label]float64
	Keywords       []string
	Rationale      string
	ProcessingTime time.Duration

	// Degraded marks a rule-based classification. Never shown to callers.
	Degraded bool
}

// ProcessingSeconds returns the processing time in seconds rounded to milliseconds
func (r *PredictionResult) ProcessingSeconds() float64 {
	return math.Round(r.ProcessingTime.Seconds()*1000) / 1000
}

// ToRecord converts the result into a persistable row
func (r *PredictionResult) ToRecord() *Prediction {
	return &Prediction{
		ID:             r.RequestID,
		InputText:      r.InputText,
		PredictedLabel: r.Label,
		Confidence:     r.Confidence,
		ProcessingTime: r.ProcessingSeconds(),
	}
}

// PredictionStats aggregates stored predictions and feedback
type PredictionStats struct {
	TotalPredictions      int64            `json:"total_predictions"`
	TotalFeedback         int64            `json:"total_feedback"`
	LabelCounts           map[string]int64 `json:"label_counts"`
	AverageConfidence     float64          `json:"average_confidence"`
	AverageProcessingTime float64          `json:"average_processing_time"`
}
