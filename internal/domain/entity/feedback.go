package entity

import "time"

// Feedback is a user's correction of a prediction. Labels are stored as given.
type Feedback struct {
	ID             uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Text           string    `json:"text" gorm:"type:text;not null"`
	PredictedLabel string    `json:"predicted_label" gorm:"type:varchar(20);not null"`
	UserLabel      string    `json:"user_label" gorm:"type:varchar(20);not null"`
	CreatedAt      time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
}

// TableName returns the table name for GORM
func (Feedback) TableName() string {
	return "feedback"
}

// NewFeedback creates a new Feedback
func NewFeedback(text, predictedLabel, userLabel string) *Feedback {
	return &Feedback{
		Text:           text,
		PredictedLabel: predictedLabel,
		UserLabel:      userLabel,
	}
}
