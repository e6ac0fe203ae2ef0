package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
	"github.com/fahrezi93/hoax-detection/internal/domain/repository"
)

// MsgFeedbackRequired is returned when a feedback field is blank
const MsgFeedbackRequired = "text, predicted_label, and user_label are required"

const defaultFeedbackLimit = 50

// SubmitFeedbackInput represents a user's correction of a prediction
type SubmitFeedbackInput struct {
	Text           string `json:"text" binding:"required"`
	PredictedLabel string `json:"predicted_label" binding:"required"`
	UserLabel      string `json:"user_label" binding:"required"`
}

// FeedbackOutput represents a stored feedback record
type FeedbackOutput struct {
	ID             uint      `json:"id"`
	Text           string    `json:"text"`
	PredictedLabel string    `json:"predicted_label"`
	UserLabel      string    `json:"user_label"`
	Timestamp      time.Time `json:"timestamp"`
}

// FeedbackUsecase defines the interface for feedback business logic
type FeedbackUsecase interface {
	Submit(ctx context.Context, input *SubmitFeedbackInput) (uint, error)
	List(ctx context.Context, limit int) ([]*FeedbackOutput, error)
}

type feedbackUsecase struct {
	repo   repository.FeedbackRepository
	logger *zap.Logger
}

// NewFeedbackUsecase creates a new feedback usecase
func NewFeedbackUsecase(repo repository.FeedbackRepository, logger *zap.Logger) FeedbackUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &feedbackUsecase{repo: repo, logger: logger}
}

func (u *feedbackUsecase) Submit(ctx context.Context, input *SubmitFeedbackInput) (uint, error) {
	if input == nil {
		return 0, invalidInput(MsgFeedbackRequired)
	}
	text := strings.TrimSpace(input.Text)
	predicted := strings.TrimSpace(input.PredictedLabel)
	user := strings.TrimSpace(input.UserLabel)
	if text == "" || predicted == "" || user == "" {
		return 0, invalidInput(MsgFeedbackRequired)
	}

	fb := entity.NewFeedback(text, predicted, user)
	if err := u.repo.Create(ctx, fb); err != nil {
		u.logger.Error("failed to store feedback", zap.Error(err))
		return 0, &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
	}

	u.logger.Info("feedback stored",
		zap.Uint("feedback_id", fb.ID),
		zap.String("predicted_label", predicted),
		zap.String("user_label", user))
	return fb.ID, nil
}

func (u *feedbackUsecase) List(ctx context.Context, limit int) ([]*FeedbackOutput, error) {
	if limit <= 0 {
		limit = defaultFeedbackLimit
	}
	rows, err := u.repo.List(ctx, limit, 0)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
	}

	out := make([]*FeedbackOutput, len(rows))
	for i, fb := range rows {
		out[i] = &FeedbackOutput{
			ID:             fb.ID,
			Text:           entity.Truncate(fb.Text, historyTextLimit),
			PredictedLabel: fb.PredictedLabel,
			UserLabel:      fb.UserLabel,
			Timestamp:      fb.CreatedAt,
		}
	}
	return out, nil
}
