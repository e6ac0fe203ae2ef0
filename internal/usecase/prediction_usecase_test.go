package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
	"github.com/fahrezi93/hoax-detection/internal/domain/nlp"
	"github.com/fahrezi93/hoax-detection/internal/domain/service"
)

const factualText = "Pemerintah resmi merilis data penelitian terbaru 2024 di https://example.com/berita"

func modelResult(hoax, factual float64) *service.ClassificationResult {
	return &service.ClassificationResult{
		Label: entity.LabelFactual,
		Probabilities: map[entity.Label]float64{
			entity.LabelHoax:    hoax,
			entity.LabelFactual: factual,
		},
		ModelVersion: "test",
	}
}

func assertUsecaseError(t *testing.T, err error, kind Kind, msg string) *Error {
	t.Helper()
	var ue *Error
	require.True(t, errors.As(err, &ue), "expected *usecase.Error, got %v", err)
	assert.Equal(t, kind, ue.Kind)
	if msg != "" {
		assert.Contains(t, ue.Message, msg)
	}
	return ue
}

func TestPredictionUsecase_Predict(t *testing.T) {
	t.Run("model path", func(t *testing.T) {
		classifier := new(MockClassifier)
		repo := new(MockPredictionRepository)
		rec := &spyRecorder{}
		uc := NewPredictionUsecase(PredictionDeps{Classifier: classifier, Predictions: repo, Recorder: rec})

		classifier.On("Classify", mock.Anything, "pemerintah resmi merilis data penelitian terbaru", mock.AnythingOfType("string")).
			Return(modelResult(0.2, 0.6), nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Prediction")).Return(nil)

		result, err := uc.Predict(context.Background(), &PredictInput{Text: "  " + factualText + "  "})

		require.NoError(t, err)
		assert.Equal(t, entity.LabelFactual, result.Label)
		assert.InDelta(t, 0.75, result.Confidence, 1e-9)
		assert.InDelta(t, 0.25, result.Probabilities[entity.LabelHoax], 1e-9)
		assert.Equal(t, factualText, result.InputText)
		assert.Equal(t, "pemerintah resmi merilis data penelitian terbaru", result.ProcessedText)
		assert.False(t, result.Degraded)
		assert.NotEqual(t, uuid.Nil, result.RequestID)
		assert.LessOrEqual(t, len(result.Keywords), 5)
		assert.NotEmpty(t, result.Keywords)
		assert.Equal(t, nlp.Explain(entity.LabelFactual, 0.75), result.Rationale)
		assert.Equal(t, []string{"faktual"}, rec.served)
		assert.Zero(t, rec.ruleFallbacks)
		classifier.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("label is argmax of probabilities", func(t *testing.T) {
		classifier := new(MockClassifier)
		uc := NewPredictionUsecase(PredictionDeps{Classifier: classifier})

		res := modelResult(0.9, 0.1)
		res.Label = entity.LabelFactual
		classifier.On("Classify", mock.Anything, mock.Anything, mock.Anything).Return(res, nil)

		result, err := uc.Predict(context.Background(), &PredictInput{Text: factualText})

		require.NoError(t, err)
		assert.Equal(t, entity.LabelHoax, result.Label)
		assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	})

	t.Run("classifier failure falls back to rules", func(t *testing.T) {
		classifier := new(MockClassifier)
		rec := &spyRecorder{}
		uc := NewPredictionUsecase(PredictionDeps{Classifier: classifier, Recorder: rec})

		classifier.On("Classify", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused"))

		result, err := uc.Predict(context.Background(), &PredictInput{Text: factualText})

		require.NoError(t, err)
		assert.Equal(t, entity.LabelFactual, result.Label)
		assert.Equal(t, nlp.RuleWinnerConfidence, result.Confidence)
		assert.Equal(t, map[entity.Label]float64{entity.LabelHoax: 0.5, entity.LabelFactual: 0.5}, result.Probabilities)
		assert.True(t, result.Degraded)
		assert.NotEmpty(t, result.Rationale)
		assert.Equal(t, 1, rec.ruleFallbacks)
	})

	t.Run("invalid classifier output falls back to rules", func(t *testing.T) {
		classifier := new(MockClassifier)
		uc := NewPredictionUsecase(PredictionDeps{Classifier: classifier})

		bad := &service.ClassificationResult{
			Label:         entity.Label("satire"),
			Probabilities: map[entity.Label]float64{entity.LabelHoax: math.NaN()},
		}
		classifier.On("Classify", mock.Anything, mock.Anything, mock.Anything).Return(bad, nil)

		result, err := uc.Predict(context.Background(), &PredictInput{Text: "Video viral heboh ini mengagetkan semua orang"})

		require.NoError(t, err)
		assert.Equal(t, entity.LabelHoax, result.Label)
		assert.True(t, result.Degraded)
	})

	t.Run("nil classifier uses rules", func(t *testing.T) {
		uc := NewPredictionUsecase(PredictionDeps{})

		result, err := uc.Predict(context.Background(), &PredictInput{Text: "Berita biasa tanpa penanda apapun hari"})

		require.NoError(t, err)
		assert.Equal(t, entity.LabelHoax, result.Label)
		assert.Equal(t, nlp.RuleTieConfidence, result.Confidence)
	})

	t.Run("text too short", func(t *testing.T) {
		uc := NewPredictionUsecase(PredictionDeps{})

		result, err := uc.Predict(context.Background(), &PredictInput{Text: "ab"})

		assert.Nil(t, result)
		assertUsecaseError(t, err, KindInvalidInput, "too short")
	})

	t.Run("text too long", func(t *testing.T) {
		uc := NewPredictionUsecase(PredictionDeps{})

		result, err := uc.Predict(context.Background(), &PredictInput{Text: strings.Repeat("a", 5000)})

		assert.Nil(t, result)
		assertUsecaseError(t, err, KindInvalidInput, "too long")
	})

	t.Run("length counts characters not bytes", func(t *testing.T) {
		uc := NewPredictionUsecase(PredictionDeps{})

		_, err := uc.Predict(context.Background(), &PredictInput{Text: strings.Repeat("é", 4096)})

		assert.NoError(t, err)
	})

	t.Run("neither text nor url", func(t *testing.T) {
		uc := NewPredictionUsecase(PredictionDeps{})

		_, err := uc.Predict(context.Background(), &PredictInput{Text: "   "})

		assertUsecaseError(t, err, KindInvalidInput, "must be provided")
	})

	t.Run("both text and url", func(t *testing.T) {
		uc := NewPredictionUsecase(PredictionDeps{})

		_, err := uc.Predict(context.Background(), &PredictInput{Text: factualText, URL: "https://example.com"})

		assertUsecaseError(t, err, KindInvalidInput, MsgAmbiguousInput)
	})

	t.Run("url is resolved to article text", func(t *testing.T) {
		resolver := new(MockSourceResolver)
		rec := &spyRecorder{}
		uc := NewPredictionUsecase(PredictionDeps{Resolver: resolver, Recorder: rec})

		resolver.On("Resolve", mock.Anything, "https://news.example.com/a").Return(factualText, nil)

		result, err := uc.Predict(context.Background(), &PredictInput{URL: " https://news.example.com/a "})

		require.NoError(t, err)
		assert.Equal(t, factualText, result.InputText)
		assert.Equal(t, 1, rec.resolvedOK)
		resolver.AssertExpectations(t)
	})

	t.Run("url resolution failure wraps cause", func(t *testing.T) {
		resolver := new(MockSourceResolver)
		rec := &spyRecorder{}
		uc := NewPredictionUsecase(PredictionDeps{Resolver: resolver, Recorder: rec})

		cause := errors.New("status 404")
		resolver.On("Resolve", mock.Anything, mock.Anything).Return("", cause)

		_, err := uc.Predict(context.Background(), &PredictInput{URL: "https://news.example.com/missing"})

		assertUsecaseError(t, err, KindResolution, MsgResolution)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 1, rec.resolvedFailed)
	})

	t.Run("resolved text is still length checked", func(t *testing.T) {
		resolver := new(MockSourceResolver)
		uc := NewPredictionUsecase(PredictionDeps{Resolver: resolver})

		resolver.On("Resolve", mock.Anything, mock.Anything).Return("pendek", nil)

		_, err := uc.Predict(context.Background(), &PredictInput{URL: "https://news.example.com/short"})

		assertUsecaseError(t, err, KindInvalidInput, "too short")
	})

	t.Run("url without resolver", func(t *testing.T) {
		uc := NewPredictionUsecase(PredictionDeps{})

		_, err := uc.Predict(context.Background(), &PredictInput{URL: "https://news.example.com/a"})

		assertUsecaseError(t, err, KindResolution, "")
	})

	t.Run("persistence failure is invisible to caller", func(t *testing.T) {
		repo := new(MockPredictionRepository)
		rec := &spyRecorder{}
		uc := NewPredictionUsecase(PredictionDeps{Predictions: repo, Recorder: rec})

		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		result, err := uc.Predict(context.Background(), &PredictInput{Text: factualText})

		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, 1, rec.persistFailed)
		repo.AssertExpectations(t)
	})

	t.Run("stored record keeps full input", func(t *testing.T) {
		repo := new(MockPredictionRepository)
		uc := NewPredictionUsecase(PredictionDeps{Predictions: repo})

		long := strings.Repeat("berita resmi ", 50)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Prediction) bool {
			return p.InputText == strings.TrimSpace(long)
		})).Return(nil)

		_, err := uc.Predict(context.Background(), &PredictInput{Text: long})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("prediction id is generated even with a caller request id", func(t *testing.T) {
		uc := NewPredictionUsecase(PredictionDeps{})
		header := uuid.New()

		first, err := uc.Predict(context.Background(), &PredictInput{Text: factualText, RequestID: header.String()})
		require.NoError(t, err)
		second, err := uc.Predict(context.Background(), &PredictInput{Text: factualText, RequestID: header.String()})
		require.NoError(t, err)

		assert.NotEqual(t, header, first.RequestID)
		assert.NotEqual(t, first.RequestID, second.RequestID)
	})

	t.Run("store write survives a cancelled request", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		classifier := &funcClassifier{fn: func(string) (*service.ClassificationResult, error) {
			cancel()
			return modelResult(0.2, 0.8), nil
		}}
		repo := new(MockPredictionRepository)
		uc := NewPredictionUsecase(PredictionDeps{Classifier: classifier, Predictions: repo})

		repo.On("Create", mock.MatchedBy(func(ctx context.Context) bool {
			return ctx.Err() == nil
		}), mock.Anything).Return(nil)

		_, err := uc.Predict(ctx, &PredictInput{Text: factualText})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("panic becomes internal error with request id", func(t *testing.T) {
		classifier := &funcClassifier{fn: func(string) (*service.ClassificationResult, error) {
			panic("boom")
		}}
		uc := NewPredictionUsecase(PredictionDeps{Classifier: classifier})
		id := uuid.New()

		result, err := uc.Predict(context.Background(), &PredictInput{Text: factualText, RequestID: id.String()})

		assert.Nil(t, result)
		ue := assertUsecaseError(t, err, KindInternal, MsgInternal)
		assert.Equal(t, id.String(), ue.RequestID)
	})

	t.Run("keyword ranker failure is counted", func(t *testing.T) {
		ranker := new(MockPhraseRanker)
		rec := &spyRecorder{}
		uc := NewPredictionUsecase(PredictionDeps{
			Keywords: nlp.NewKeywordExtractor(ranker, nil, nil),
			Recorder: rec,
		})

		ranker.On("Rank", mock.Anything, mock.Anything, 5).Return(nil, errors.New("embedder down"))

		result, err := uc.Predict(context.Background(), &PredictInput{Text: factualText})

		require.NoError(t, err)
		assert.NotEmpty(t, result.Keywords)
		assert.Equal(t, 1, rec.kwFallbacks)
	})
}

func TestPredictionUsecase_ProbabilitiesSumToOne(t *testing.T) {
	inputs := []*service.ClassificationResult{
		modelResult(0.3, 0.7),
		modelResult(2, 6),
		modelResult(0, 1e-9),
		nil,
	}
	texts := []string{
		factualText,
		"Video viral heboh ini mengagetkan semua orang",
		strings.Repeat("x", 10),
		strings.Repeat("kabar ", 600),
	}

	for _, in := range inputs {
		in := in
		classifier := &funcClassifier{fn: func(string) (*service.ClassificationResult, error) {
			if in == nil {
				return nil, errors.New("unavailable")
			}
			return in, nil
		}}
		uc := NewPredictionUsecase(PredictionDeps{Classifier: classifier})

		for _, text := range texts {
			result, err := uc.Predict(context.Background(), &PredictInput{Text: text})
			require.NoError(t, err)
			assert.True(t, result.Label.Valid())

			sum := 0.0
			for _, p := range result.Probabilities {
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-6)
		}
	}
}

func TestPredictionUsecase_PredictBatch(t *testing.T) {
	t.Run("successful row always carries keywords", func(t *testing.T) {
		uc := NewPredictionUsecase(PredictionDeps{})

		entries := uc.PredictBatch(context.Background(), []string{"ab cd ef gh ij kl"})

		require.Len(t, entries, 1)
		require.NotNil(t, entries[0].Prediction)
		raw, err := json.Marshal(entries[0])
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"keywords":[]`)
	})

	t.Run("bad row does not stop the rest", func(t *testing.T) {
		repo := new(MockPredictionRepository)
		uc := NewPredictionUsecase(PredictionDeps{Predictions: repo})

		entries := uc.PredictBatch(context.Background(), []string{
			factualText,
			"abcd",
			"Video viral heboh ini mengagetkan semua orang",
		})

		require.Len(t, entries, 3)
		assert.Equal(t, 1, entries[0].Row)
		require.NotNil(t, entries[0].Prediction)
		assert.Equal(t, entity.LabelFactual, entries[0].Prediction.Label)
		assert.LessOrEqual(t, len(entries[0].Keywords), 3)
		assert.Empty(t, entries[0].Error)

		assert.Equal(t, 2, entries[1].Row)
		assert.Nil(t, entries[1].Prediction)
		assert.Equal(t, MsgBatchLength, entries[1].Error)
		assert.Equal(t, "abcd", entries[1].Text)

		assert.Equal(t, 3, entries[2].Row)
		require.NotNil(t, entries[2].Prediction)
		assert.Equal(t, entity.LabelHoax, entries[2].Prediction.Label)

		// batch rows are not stored
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("row text is truncated", func(t *testing.T) {
		uc := NewPredictionUsecase(PredictionDeps{})
		long := strings.Repeat("b", 150)

		entries := uc.PredictBatch(context.Background(), []string{long})

		require.Len(t, entries, 1)
		assert.Equal(t, strings.Repeat("b", 100)+"...", entries[0].Text)
	})

	t.Run("panicking row is isolated", func(t *testing.T) {
		classifier := &funcClassifier{fn: func(text string) (*service.ClassificationResult, error) {
			if strings.Contains(text, "meledak") {
				panic("boom")
			}
			return modelResult(0.1, 0.9), nil
		}}
		uc := NewPredictionUsecase(PredictionDeps{Classifier: classifier})

		entries := uc.PredictBatch(context.Background(), []string{
			"Server meledak ketika memproses teks ini",
			factualText,
		})

		require.Len(t, entries, 2)
		assert.Equal(t, MsgInternal, entries[0].Error)
		require.NotNil(t, entries[1].Prediction)
		assert.InDelta(t, 0.9, entries[1].Prediction.Confidence, 1e-9)
	})

	t.Run("cancelled context marks remaining rows", func(t *testing.T) {
		uc := NewPredictionUsecase(PredictionDeps{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		entries := uc.PredictBatch(ctx, []string{factualText, factualText})

		require.Len(t, entries, 2)
		for _, e := range entries {
			assert.Nil(t, e.Prediction)
			assert.NotEmpty(t, e.Error)
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		uc := NewPredictionUsecase(PredictionDeps{})

		assert.Empty(t, uc.PredictBatch(context.Background(), nil))
	})
}

func TestPredictionUsecase_History(t *testing.T) {
	t.Run("truncates input text", func(t *testing.T) {
		repo := new(MockPredictionRepository)
		uc := NewPredictionUsecase(PredictionDeps{Predictions: repo})

		id := uuid.New()
		ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		repo.On("List", mock.Anything, 10, 0).Return([]*entity.Prediction{{
			ID:             id,
			InputText:      strings.Repeat("k", 120),
			PredictedLabel: entity.LabelHoax,
			Confidence:     0.91,
			ProcessingTime: 0.123,
			CreatedAt:      ts,
		}}, nil)

		history, err := uc.History(context.Background(), 10)

		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, id, history[0].RequestID)
		assert.Equal(t, strings.Repeat("k", 100)+"...", history[0].InputText)
		assert.Equal(t, entity.LabelHoax, history[0].PredictedLabel)
		assert.Equal(t, ts, history[0].Timestamp)
		repo.AssertExpectations(t)
	})

	t.Run("default limit", func(t *testing.T) {
		repo := new(MockPredictionRepository)
		uc := NewPredictionUsecase(PredictionDeps{Predictions: repo})

		repo.On("List", mock.Anything, 50, 0).Return([]*entity.Prediction{}, nil)

		history, err := uc.History(context.Background(), 0)

		require.NoError(t, err)
		assert.Empty(t, history)
		repo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockPredictionRepository)
		uc := NewPredictionUsecase(PredictionDeps{Predictions: repo})

		repo.On("List", mock.Anything, 50, 0).Return(nil, errors.New("db down"))

		_, err := uc.History(context.Background(), 50)

		assertUsecaseError(t, err, KindInternal, "")
	})
}

func TestPredictionUsecase_Stats(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(MockPredictionRepository)
		uc := NewPredictionUsecase(PredictionDeps{Predictions: repo})

		stats := &entity.PredictionStats{TotalPredictions: 3, LabelCounts: map[string]int64{"hoax": 2, "faktual": 1}}
		repo.On("Stats", mock.Anything).Return(stats, nil)

		got, err := uc.Stats(context.Background())

		require.NoError(t, err)
		assert.Equal(t, stats, got)
	})

	t.Run("without store", func(t *testing.T) {
		uc := NewPredictionUsecase(PredictionDeps{})

		got, err := uc.Stats(context.Background())

		require.NoError(t, err)
		assert.Zero(t, got.TotalPredictions)
		assert.NotNil(t, got.LabelCounts)
	})
}
