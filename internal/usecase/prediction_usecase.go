package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fahrezi93/hoax-detection/internal/domain/entity"
	"github.com/fahrezi93/hoax-detection/internal/domain/nlp"
	"github.com/fahrezi93/hoax-detection/internal/domain/repository"
	"github.com/fahrezi93/hoax-detection/internal/domain/service"
)

// Text length policy, in characters
const (
	MinTextLength = 10
	MaxTextLength = 4096
)

const (
	defaultTopK         = 5
	defaultBatchTopK    = 3
	defaultHistoryLimit = 50
	historyTextLimit    = 100
)

// PredictInput is a single prediction request. Exactly one of Text and URL
// must be set.
type PredictInput struct {
	Text string `json:"text"`
	URL  string `json:"url"`
	// RequestID correlates logs and errors with the caller's request. The
	// stored prediction always gets a fresh id.
	RequestID string `json:"-"`
}

// BatchPrediction is the short prediction reported per batch row
type BatchPrediction struct {
	Label      entity.Label `json:"label"`
	Confidence float64      `json:"confidence"`
}

// BatchEntry is the outcome of one batch row. Exactly one of Prediction
// and Error is set.
type BatchEntry struct {
	Row        int              `json:"row"`
	Text       string           `json:"text"`
	Prediction *BatchPrediction `json:"prediction,omitempty"`
	Keywords   []string         `json:"keywords"`
	Error      string           `json:"error,omitempty"`
}

// HistoryEntry is a stored prediction as shown in history listings
type HistoryEntry struct {
	RequestID      uuid.UUID    `json:"request_id"`
	InputText      string       `json:"input_text"`
	PredictedLabel entity.Label `json:"predicted_label"`
	Confidence     float64      `json:"confidence"`
	ProcessingTime float64      `json:"processing_time"`
	Timestamp      time.Time    `json:"timestamp"`
}

// Recorder receives pipeline events for monitoring
type Recorder interface {
	PredictionServed(label string, took time.Duration)
	RuleFallback()
	KeywordFallback()
	PersistenceFailed()
	URLResolved(ok bool)
}

type nopRecorder struct{}

func (nopRecorder) PredictionServed(string, time.Duration) {}
func (nopRecorder) RuleFallback()                          {}
func (nopRecorder) KeywordFallback()                       {}
func (nopRecorder) PersistenceFailed()                     {}
func (nopRecorder) URLResolved(bool)                       {}

// PredictionDeps carries the collaborators of the prediction pipeline.
// Classifier, Resolver, Predictions and Recorder may be nil.
type PredictionDeps struct {
	Normalizer  *nlp.Normalizer
	Rules       *nlp.RuleClassifier
	Keywords    *nlp.KeywordExtractor
	Classifier  service.Classifier
	Resolver    service.SourceResolver
	Predictions repository.PredictionRepository
	Recorder    Recorder
	Logger      *zap.Logger
	TopK        int
	BatchTopK   int
}

// PredictionUsecase defines the interface for prediction business logic
type PredictionUsecase interface {
	Predict(ctx context.Context, input *PredictInput) (*entity.PredictionResult, error)
	PredictBatch(ctx context.Context, texts []string) []*BatchEntry
	History(ctx context.Context, limit int) ([]*HistoryEntry, error)
	Stats(ctx context.Context) (*entity.PredictionStats, error)
}

type predictionUsecase struct {
	deps PredictionDeps
}

// NewPredictionUsecase creates a new prediction usecase
func NewPredictionUsecase(deps PredictionDeps) PredictionUsecase {
	if deps.Normalizer == nil {
		deps.Normalizer = nlp.NewNormalizer(nil)
	}
	if deps.Rules == nil {
		deps.Rules = nlp.NewRuleClassifier(nil)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Keywords == nil {
		deps.Keywords = nlp.NewKeywordExtractor(nil, nil, deps.Logger)
	}
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}
	if deps.TopK <= 0 {
		deps.TopK = defaultTopK
	}
	if deps.BatchTopK <= 0 {
		deps.BatchTopK = defaultBatchTopK
	}
	return &predictionUsecase{deps: deps}
}

func (u *predictionUsecase) Predict(ctx context.Context, input *PredictInput) (result *entity.PredictionResult, err error) {
	start := time.Now()
	id := uuid.New()
	requestID := correlationID(input, id)
	log := u.deps.Logger.With(zap.String("request_id", requestID), zap.String("prediction_id", id.String()))

	defer func() {
		if r := recover(); r != nil {
			log.Error("prediction pipeline panicked", zap.Any("panic", r), zap.Stack("stack"))
			result = nil
			err = &Error{
				Kind:      KindInternal,
				Message:   MsgInternal,
				RequestID: requestID,
				Err:       fmt.Errorf("panic: %v", r),
			}
		}
	}()

	text, err := u.resolveText(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := validateLength(text); err != nil {
		return nil, err
	}

	processed := u.deps.Normalizer.Normalize(text)
	verdict := u.classify(ctx, processed, requestID, log)
	keywords := u.extractKeywords(ctx, processed, u.deps.TopK)

	result = &entity.PredictionResult{
		RequestID:      id,
		InputText:      text,
		ProcessedText:  processed,
		Label:          verdict.label,
		Confidence:     verdict.confidence,
		Probabilities:  verdict.probabilities,
		Keywords:       keywords,
		Rationale:      nlp.Explain(verdict.label, verdict.confidence),
		ProcessingTime: time.Since(start),
		Degraded:       verdict.degraded,
	}

	u.persist(ctx, result, log)
	u.deps.Recorder.PredictionServed(result.Label.String(), result.ProcessingTime)

	log.Info("prediction completed",
		zap.String("label", result.Label.String()),
		zap.Float64("confidence", result.Confidence),
		zap.Bool("degraded", result.Degraded),
		zap.Float64("processing_time", result.ProcessingSeconds()))

	return result, nil
}

func correlationID(input *PredictInput, id uuid.UUID) string {
	if input != nil && input.RequestID != "" {
		return input.RequestID
	}
	return id.String()
}

func (u *predictionUsecase) resolveText(ctx context.Context, input *PredictInput) (string, error) {
	if input == nil {
		return "", invalidInput(MsgMissingInput)
	}
	text := strings.TrimSpace(input.Text)
	rawURL := strings.TrimSpace(input.URL)

	switch {
	case text == "" && rawURL == "":
		return "", invalidInput(MsgMissingInput)
	case text != "" && rawURL != "":
		return "", invalidInput(MsgAmbiguousInput)
	case text != "":
		return text, nil
	}

	if u.deps.Resolver == nil {
		return "", &Error{Kind: KindResolution, Message: MsgResolution, Err: fmt.Errorf("no source resolver configured")}
	}

	resolved, err := u.deps.Resolver.Resolve(ctx, rawURL)
	resolved = strings.TrimSpace(resolved)
	if err == nil && resolved == "" {
		err = fmt.Errorf("empty article text")
	}
	u.deps.Recorder.URLResolved(err == nil)
	if err != nil {
		return "", &Error{Kind: KindResolution, Message: MsgResolution, Err: err}
	}
	return resolved, nil
}

func validateLength(text string) error {
	n := utf8.RuneCountInString(text)
	switch {
	case n < MinTextLength:
		return invalidInput(MsgTooShort)
	case n > MaxTextLength:
		return invalidInput(MsgTooLong)
	}
	return nil
}

type verdict struct {
	label         entity.Label
	confidence    float64
	probabilities map[entity.Label]float64
	degraded      bool
}

// classify asks the model backend and falls back to the indicator rules on
// any failure
func (u *predictionUsecase) classify(ctx context.Context, processed, requestID string, log *zap.Logger) verdict {
	if u.deps.Classifier != nil {
		res, err := u.deps.Classifier.Classify(ctx, processed, requestID)
		if err == nil {
			err = res.Validate()
		}
		if err == nil {
			probs := normalizeProbabilities(res.Probabilities)
			label := argmax(probs)
			return verdict{label: label, confidence: probs[label], probabilities: probs}
		}
		log.Warn("classifier failed, using rule-based fallback", zap.Error(err))
	}

	u.deps.Recorder.RuleFallback()
	rv := u.deps.Rules.Classify(processed)
	return verdict{
		label:         rv.Label,
		confidence:    rv.Confidence,
		probabilities: rv.Probabilities,
		degraded:      true,
	}
}

// normalizeProbabilities keeps only LabelSet entries and rescales them to
// sum to one. The input must have passed Validate.
func normalizeProbabilities(in map[entity.Label]float64) map[entity.Label]float64 {
	total := 0.0
	for _, l := range entity.LabelSet {
		total += in[l]
	}
	out := make(map[entity.Label]float64, len(entity.LabelSet))
	for _, l := range entity.LabelSet {
		out[l] = in[l] / total
	}
	return out
}

// argmax returns the most probable label; ties go to the earlier label in LabelSet
func argmax(probs map[entity.Label]float64) entity.Label {
	best := entity.LabelSet[0]
	for _, l := range entity.LabelSet[1:] {
		if probs[l] > probs[best] {
			best = l
		}
	}
	return best
}

func (u *predictionUsecase) extractKeywords(ctx context.Context, processed string, topK int) []string {
	keywords, fellBack := u.deps.Keywords.Extract(ctx, processed, topK)
	if fellBack && u.deps.Keywords.HasRanker() {
		u.deps.Recorder.KeywordFallback()
	}
	return keywords
}

func (u *predictionUsecase) persist(ctx context.Context, result *entity.PredictionResult, log *zap.Logger) {
	if u.deps.Predictions == nil {
		return
	}
	// the row outlives a disconnected client
	if err := u.deps.Predictions.Create(context.WithoutCancel(ctx), result.ToRecord()); err != nil {
		u.deps.Recorder.PersistenceFailed()
		log.Error("failed to store prediction", zap.Error(err))
	}
}

func (u *predictionUsecase) PredictBatch(ctx context.Context, texts []string) []*BatchEntry {
	entries := make([]*BatchEntry, 0, len(texts))
	for i, text := range texts {
		row := i + 1
		if err := ctx.Err(); err != nil {
			entries = append(entries, &BatchEntry{
				Row:   row,
				Text:  entity.Truncate(strings.TrimSpace(text), historyTextLimit),
				Error: err.Error(),
			})
			continue
		}
		entries = append(entries, u.predictRow(ctx, row, text))
	}
	return entries
}

func (u *predictionUsecase) predictRow(ctx context.Context, row int, raw string) (entry *BatchEntry) {
	text := strings.TrimSpace(raw)
	entry = &BatchEntry{Row: row, Text: entity.Truncate(text, historyTextLimit)}

	defer func() {
		if r := recover(); r != nil {
			u.deps.Logger.Error("batch row panicked", zap.Int("row", row), zap.Any("panic", r))
			entry = &BatchEntry{Row: row, Text: entity.Truncate(text, historyTextLimit), Error: MsgInternal}
		}
	}()

	if err := validateLength(text); err != nil {
		entry.Error = MsgBatchLength
		return entry
	}

	processed := u.deps.Normalizer.Normalize(text)
	v := u.classify(ctx, processed, fmt.Sprintf("batch-row-%d", row), u.deps.Logger.With(zap.Int("row", row)))

	entry.Prediction = &BatchPrediction{Label: v.label, Confidence: v.confidence}
	entry.Keywords = u.extractKeywords(ctx, processed, u.deps.BatchTopK)
	return entry
}

func (u *predictionUsecase) History(ctx context.Context, limit int) ([]*HistoryEntry, error) {
	if u.deps.Predictions == nil {
		return []*HistoryEntry{}, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := u.deps.Predictions.List(ctx, limit, 0)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
	}

	out := make([]*HistoryEntry, len(rows))
	for i, p := range rows {
		out[i] = &HistoryEntry{
			RequestID:      p.ID,
			InputText:      entity.Truncate(p.InputText, historyTextLimit),
			PredictedLabel: p.PredictedLabel,
			Confidence:     p.Confidence,
			ProcessingTime: p.ProcessingTime,
			Timestamp:      p.CreatedAt,
		}
	}
	return out, nil
}

func (u *predictionUsecase) Stats(ctx context.Context) (*entity.PredictionStats, error) {
	if u.deps.Predictions == nil {
		return &entity.PredictionStats{LabelCounts: map[string]int64{}}, nil
	}
	stats, err := u.deps.Predictions.Stats(ctx)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
	}
	return stats, nil
}
