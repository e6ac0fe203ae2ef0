package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
	"github.com/fahrezi93/hoax-detection/internal/domain/service"
)

// MockPredictionRepository is a mock implementation of PredictionRepository
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) Create(ctx context.Context, p *entity.Prediction) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPredictionRepository) List(ctx context.Context, limit, offset int) ([]*entity.Prediction, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) Stats(ctx context.Context) (*entity.PredictionStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PredictionStats), args.Error(1)
}

func (m *MockPredictionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockFeedbackRepository is a mock implementation of FeedbackRepository
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(ctx context.Context, fb *entity.Feedback) error {
	args := m.Called(ctx, fb)
	return args.Error(0)
}

func (m *MockFeedbackRepository) List(ctx context.Context, limit, offset int) ([]*entity.Feedback, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockClassifier is a mock implementation of service.Classifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, text, requestID string) (*service.ClassificationResult, error) {
	args := m.Called(ctx, text, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ClassificationResult), args.Error(1)
}

func (m *MockClassifier) Name() string {
	return "mock"
}

// MockSourceResolver is a mock implementation of service.SourceResolver
type MockSourceResolver struct {
	mock.Mock
}

func (m *MockSourceResolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	args := m.Called(ctx, rawURL)
	return args.String(0), args.Error(1)
}

// MockPhraseRanker is a mock implementation of service.PhraseRanker
type MockPhraseRanker struct {
	mock.Mock
}

func (m *MockPhraseRanker) Rank(ctx context.Context, text string, topK int) ([]string, error) {
	args := m.Called(ctx, text, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// funcClassifier runs fn for every call
type funcClassifier struct {
	fn func(text string) (*service.ClassificationResult, error)
}

func (f *funcClassifier) Classify(_ context.Context, text, _ string) (*service.ClassificationResult, error) {
	return f.fn(text)
}

func (f *funcClassifier) Name() string {
	return "func"
}

// spyRecorder counts pipeline events
type spyRecorder struct {
	mu             sync.Mutex
	served         []string
	ruleFallbacks  int
	kwFallbacks    int
	persistFailed  int
	resolvedOK     int
	resolvedFailed int
	cleaned        map[string]int64
}

func (s *spyRecorder) PredictionServed(label string, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.served = append(s.served, label)
}

func (s *spyRecorder) RuleFallback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ruleFallbacks++
}

func (s *spyRecorder) KeywordFallback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kwFallbacks++
}

func (s *spyRecorder) PersistenceFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistFailed++
}

func (s *spyRecorder) URLResolved(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.resolvedOK++
	} else {
		s.resolvedFailed++
	}
}

func (s *spyRecorder) CleanedRecords(table string, n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cleaned == nil {
		s.cleaned = map[string]int64{}
	}
	s.cleaned[table] += n
}
