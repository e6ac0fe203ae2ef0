package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/fahrezi93/hoax-detection/internal/domain/service"
)

// GeminiConfig configures the Gemini backends
type GeminiConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	MaxRetries     int
	RetryDelay     time.Duration
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClient owns the underlying genai client shared by the classifier
// and the embedder
type GeminiClient struct {
	client *genai.Client
	cfg    GeminiConfig
}

// NewGeminiClient creates a Gemini API client
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-004"
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, cfg: cfg}, nil
}

// Close releases the underlying connection
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// Classifier returns a JSON-mode classifier on the configured model
func (g *GeminiClient) Classifier(logger *zap.Logger) *GeminiClassifier {
	model := g.client.GenerativeModel(g.cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemInstruction)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0.2),
		TopP:            genai.Ptr[float32](0.9),
		MaxOutputTokens: genai.Ptr[int32](500),
	}
	model.ResponseMIMEType = "application/json"

	return newGeminiClassifier(model, g.cfg.Model, g.cfg.MaxRetries, g.cfg.RetryDelay, logger)
}

// Embedder returns an embedder on the configured embedding model
func (g *GeminiClient) Embedder() *GeminiEmbedder {
	return &GeminiEmbedder{model: g.client.EmbeddingModel(g.cfg.EmbeddingModel)}
}

// GeminiClassifier asks Gemini for a hoax/faktual verdict
type GeminiClassifier struct {
	model      contentGenerator
	modelName  string
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

func newGeminiClassifier(model contentGenerator, name string, retries int, delay time.Duration, logger *zap.Logger) *GeminiClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if retries < 1 {
		retries = 1
	}
	return &GeminiClassifier{
		model:      model,
		modelName:  name,
		maxRetries: retries,
		retryDelay: delay,
		logger:     logger,
	}
}

// Name implements service.Classifier
func (c *GeminiClassifier) Name() string {
	return "gemini"
}

// Classify implements service.Classifier
func (c *GeminiClassifier) Classify(ctx context.Context, text, requestID string) (*service.ClassificationResult, error) {
	prompt := BuildPrompt(text)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying gemini request",
				zap.String("request_id", requestID),
				zap.Int("attempt", attempt+1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = fmt.Errorf("gemini API error: %w", err)
			continue
		}

		raw, err := firstText(resp)
		if err != nil {
			lastErr = err
			continue
		}

		result, err := ParseVerdict(raw, c.modelName)
		if err != nil {
			lastErr = err
			c.logger.Debug("unparseable gemini verdict",
				zap.String("request_id", requestID),
				zap.String("response", raw),
				zap.Error(err))
			continue
		}
		return result, nil
	}

	return nil, fmt.Errorf("gemini failed after %d attempts: %w", c.maxRetries, lastErr)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response type from gemini")
	}
	return string(text), nil
}
