package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
	"github.com/fahrezi93/hoax-detection/internal/usecase"
)

// MockPredictionUsecase is a mock implementation of PredictionUsecase
type MockPredictionUsecase struct {
	mock.Mock
}

func (m *MockPredictionUsecase) Predict(ctx context.Context, input *usecase.PredictInput) (*entity.PredictionResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PredictionResult), args.Error(1)
}

func (m *MockPredictionUsecase) PredictBatch(ctx context.Context, texts []string) []*usecase.BatchEntry {
	args := m.Called(ctx, texts)
	return args.Get(0).([]*usecase.BatchEntry)
}

func (m *MockPredictionUsecase) History(ctx context.Context, limit int) ([]*usecase.HistoryEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*usecase.HistoryEntry), args.Error(1)
}

func (m *MockPredictionUsecase) Stats(ctx context.Context) (*entity.PredictionStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PredictionStats), args.Error(1)
}

// MockFeedbackUsecase is a mock implementation of FeedbackUsecase
type MockFeedbackUsecase struct {
	mock.Mock
}

func (m *MockFeedbackUsecase) Submit(ctx context.Context, input *usecase.SubmitFeedbackInput) (uint, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockFeedbackUsecase) List(ctx context.Context, limit int) ([]*usecase.FeedbackOutput, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*usecase.FeedbackOutput), args.Error(1)
}
