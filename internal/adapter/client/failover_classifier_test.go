package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
	"github.com/fahrezi93/hoax-detection/internal/domain/service"
)

// MockClassifier is a mock implementation of service.Classifier
type MockClassifier struct {
	mock.Mock
	name string
}

func (m *MockClassifier) Classify(ctx context.Context, text, requestID string) (*service.ClassificationResult, error) {
	args := m.Called(ctx, text, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ClassificationResult), args.Error(1)
}

func (m *MockClassifier) Name() string {
	return m.name
}

func validResult(label entity.Label) *service.ClassificationResult {
	probs := map[entity.Label]float64{entity.LabelHoax: 0.2, entity.LabelFactual: 0.2}
	probs[label] = 0.8
	return &service.ClassificationResult{Label: label, Probabilities: probs}
}

func TestFailoverClassifier_Classify(t *testing.T) {
	ctx := context.Background()

	t.Run("first backend answers", func(t *testing.T) {
		primary := &MockClassifier{name: "indobert"}
		backup := &MockClassifier{name: "gemini"}
		primary.On("Classify", ctx, "teks", "req").Return(validResult(entity.LabelHoax), nil)

		f := NewFailoverClassifier(nil, nil, primary, backup)
		result, err := f.Classify(ctx, "teks", "req")

		require.NoError(t, err)
		assert.Equal(t, entity.LabelHoax, result.Label)
		backup.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("falls over on error and invalid result", func(t *testing.T) {
		primary := &MockClassifier{name: "indobert"}
		middle := &MockClassifier{name: "gemini"}
		last := &MockClassifier{name: "anthropic"}
		primary.On("Classify", ctx, "teks", "req").Return(nil, errors.New("connection refused"))
		middle.On("Classify", ctx, "teks", "req").Return(&service.ClassificationResult{Label: "satire"}, nil)
		last.On("Classify", ctx, "teks", "req").Return(validResult(entity.LabelFactual), nil)

		var failed []string
		f := NewFailoverClassifier(nil, func(name string) { failed = append(failed, name) }, primary, middle, last)
		result, err := f.Classify(ctx, "teks", "req")

		require.NoError(t, err)
		assert.Equal(t, entity.LabelFactual, result.Label)
		assert.Equal(t, []string{"indobert", "gemini"}, failed)
	})

	t.Run("all backends fail", func(t *testing.T) {
		primary := &MockClassifier{name: "indobert"}
		backup := &MockClassifier{name: "gemini"}
		primary.On("Classify", ctx, "teks", "req").Return(nil, errors.New("down"))
		backup.On("Classify", ctx, "teks", "req").Return(nil, errors.New("quota"))

		f := NewFailoverClassifier(nil, nil, primary, backup)
		_, err := f.Classify(ctx, "teks", "req")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "indobert: down")
		assert.Contains(t, err.Error(), "gemini: quota")
	})

	t.Run("empty chain", func(t *testing.T) {
		f := NewFailoverClassifier(nil, nil, nil, nil)

		_, err := f.Classify(ctx, "teks", "req")

		assert.ErrorIs(t, err, ErrNoBackends)
		assert.Empty(t, f.Backends())
	})
}

func TestFailoverClassifier_Backends(t *testing.T) {
	f := NewFailoverClassifier(nil, nil, &MockClassifier{name: "indobert"}, nil, &MockClassifier{name: "anthropic"})

	assert.Equal(t, []string{"indobert", "anthropic"}, f.Backends())
	assert.Equal(t, "failover", f.Name())
}
