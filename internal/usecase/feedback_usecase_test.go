package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
)

func TestFeedbackUsecase_Submit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(MockFeedbackRepository)
		uc := NewFeedbackUsecase(repo, nil)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(fb *entity.Feedback) bool {
			return fb.Text == "teks berita" && fb.PredictedLabel == "hoax" && fb.UserLabel == "faktual"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Feedback).ID = 7
		}).Return(nil)

		id, err := uc.Submit(context.Background(), &SubmitFeedbackInput{
			Text:           " teks berita ",
			PredictedLabel: "hoax",
			UserLabel:      "faktual",
		})

		require.NoError(t, err)
		assert.Equal(t, uint(7), id)
		repo.AssertExpectations(t)
	})

	t.Run("labels are stored as given", func(t *testing.T) {
		repo := new(MockFeedbackRepository)
		uc := NewFeedbackUsecase(repo, nil)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(fb *entity.Feedback) bool {
			return fb.UserLabel == "satire"
		})).Return(nil)

		_, err := uc.Submit(context.Background(), &SubmitFeedbackInput{
			Text: "teks", PredictedLabel: "hoax", UserLabel: "satire",
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("missing field", func(t *testing.T) {
		repo := new(MockFeedbackRepository)
		uc := NewFeedbackUsecase(repo, nil)

		_, err := uc.Submit(context.Background(), &SubmitFeedbackInput{Text: "teks", PredictedLabel: "hoax", UserLabel: "  "})

		assertUsecaseError(t, err, KindInvalidInput, MsgFeedbackRequired)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("nil input", func(t *testing.T) {
		uc := NewFeedbackUsecase(new(MockFeedbackRepository), nil)

		_, err := uc.Submit(context.Background(), nil)

		assertUsecaseError(t, err, KindInvalidInput, MsgFeedbackRequired)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockFeedbackRepository)
		uc := NewFeedbackUsecase(repo, nil)

		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

		_, err := uc.Submit(context.Background(), &SubmitFeedbackInput{Text: "teks", PredictedLabel: "hoax", UserLabel: "faktual"})

		assertUsecaseError(t, err, KindInternal, "")
	})
}

func TestFeedbackUsecase_List(t *testing.T) {
	t.Run("truncates text", func(t *testing.T) {
		repo := new(MockFeedbackRepository)
		uc := NewFeedbackUsecase(repo, nil)

		ts := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
		repo.On("List", mock.Anything, 20, 0).Return([]*entity.Feedback{{
			ID:             3,
			Text:           strings.Repeat("f", 101),
			PredictedLabel: "hoax",
			UserLabel:      "faktual",
			CreatedAt:      ts,
		}}, nil)

		out, err := uc.List(context.Background(), 20)

		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, uint(3), out[0].ID)
		assert.Equal(t, strings.Repeat("f", 100)+"...", out[0].Text)
		assert.Equal(t, ts, out[0].Timestamp)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockFeedbackRepository)
		uc := NewFeedbackUsecase(repo, nil)

		repo.On("List", mock.Anything, 50, 0).Return(nil, errors.New("db down"))

		_, err := uc.List(context.Background(), 0)

		assertUsecaseError(t, err, KindInternal, "")
	})
}
