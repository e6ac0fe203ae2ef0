package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/fahrezi93/hoax-detection/internal/domain/service"
)

// AnthropicConfig configures the Anthropic backup classifier
type AnthropicConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint; empty uses the SDK default
	BaseURL string
}

// AnthropicClassifier asks Claude for a hoax/faktual verdict
type AnthropicClassifier struct {
	client anthropic.Client
	model  string
	logger *zap.Logger
}

// NewAnthropicClassifier creates a classifier backed by the Messages API
func NewAnthropicClassifier(cfg AnthropicConfig, logger *zap.Logger) (*AnthropicClassifier, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-haiku-latest"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL), option.WithMaxRetries(0))
	}

	return &AnthropicClassifier{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
		logger: logger,
	}, nil
}

// Name implements service.Classifier
func (c *AnthropicClassifier) Name() string {
	return "anthropic"
}

// Classify implements service.Classifier
func (c *AnthropicClassifier) Classify(ctx context.Context, text, requestID string) (*service.ClassificationResult, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 512,
		System: []anthropic.TextBlockParam{
			{Text: SystemInstruction},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(text))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type != "text" {
			continue
		}
		c.logger.Debug("anthropic verdict received",
			zap.String("request_id", requestID),
			zap.Int64("tokens_in", message.Usage.InputTokens),
			zap.Int64("tokens_out", message.Usage.OutputTokens))
		return ParseVerdict(block.Text, c.model)
	}
	return nil, errors.New("no text content in anthropic response")
}
