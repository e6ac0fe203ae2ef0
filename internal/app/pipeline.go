// Package app assembles the prediction pipeline from configuration. The API
// server and the CLI share it.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fahrezi93/hoax-detection/internal/adapter/client"
	"github.com/fahrezi93/hoax-detection/internal/adapter/scraper"
	"github.com/fahrezi93/hoax-detection/internal/domain/nlp"
	"github.com/fahrezi93/hoax-detection/internal/domain/repository"
	"github.com/fahrezi93/hoax-detection/internal/domain/service"
	"github.com/fahrezi93/hoax-detection/internal/infrastructure/config"
	"github.com/fahrezi93/hoax-detection/internal/usecase"
)

// Embedder backends for keyword ranking
const (
	EmbedderML     = "ml"
	EmbedderGemini = "gemini"
	EmbedderNone   = "none"
)

// Pipeline holds the long-lived collaborators of the prediction usecase
type Pipeline struct {
	Normalizer *nlp.Normalizer
	Rules      *nlp.RuleClassifier
	Keywords   *nlp.KeywordExtractor
	Resolver   service.SourceResolver
	// Classifier is nil when no model backend is configured
	Classifier service.Classifier
	// ML is nil when no inference service is configured
	ML *client.MLClient

	TopK      int
	BatchTopK int

	closers []func() error
}

// Build creates the pipeline. onClassifierFail is called with the backend
// name whenever a model backend fails and may be nil.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, onClassifierFail func(string)) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	lex := nlp.DefaultLexicon()
	if cfg.Lexicon.Path != "" {
		loaded, err := nlp.LoadLexicon(cfg.Lexicon.Path)
		if err != nil {
			return nil, err
		}
		lex = loaded
		logger.Info("lexicon loaded", zap.String("path", cfg.Lexicon.Path))
	}

	p := &Pipeline{
		Normalizer: nlp.NewNormalizer(lex),
		Rules:      nlp.NewRuleClassifier(lex),
		Resolver: scraper.NewArticleResolver(
			scraper.WithTimeout(cfg.Scraper.Timeout),
			scraper.WithUserAgent(cfg.Scraper.UserAgent),
			scraper.WithLogger(logger),
		),
		TopK:      cfg.Keywords.TopK,
		BatchTopK: cfg.Keywords.BatchTopK,
	}

	var backends []service.Classifier

	if cfg.Classifier.BaseURL != "" {
		p.ML = client.NewMLClient(cfg.Classifier.BaseURL, cfg.Classifier.Timeout)
		backends = append(backends, client.NewMLClassifier(p.ML))
	}

	var gemini *client.GeminiClient
	if cfg.Gemini.APIKey != "" {
		g, err := client.NewGeminiClient(ctx, client.GeminiConfig{
			APIKey:         cfg.Gemini.APIKey,
			Model:          cfg.Gemini.Model,
			EmbeddingModel: cfg.Gemini.EmbeddingModel,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		gemini = g
		p.closers = append(p.closers, g.Close)
		backends = append(backends, g.Classifier(logger))
	}

	if cfg.Anthropic.APIKey != "" {
		a, err := client.NewAnthropicClassifier(client.AnthropicConfig{
			APIKey: cfg.Anthropic.APIKey,
			Model:  cfg.Anthropic.Model,
		}, logger)
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("failed to create anthropic classifier: %w", err)
		}
		backends = append(backends, a)
	}

	if len(backends) > 0 {
		chain := client.NewFailoverClassifier(logger, onClassifierFail, backends...)
		p.Classifier = chain
		logger.Info("classifier chain ready", zap.Strings("backends", chain.Backends()))
	} else {
		logger.Warn("no classifier backend configured, predictions use rule-based fallback only")
	}

	var embedder service.Embedder
	switch cfg.Keywords.Embedder {
	case EmbedderML:
		if p.ML != nil {
			embedder = client.NewMLEmbedder(p.ML)
		}
	case EmbedderGemini:
		if gemini != nil {
			embedder = gemini.Embedder()
		}
	case EmbedderNone, "":
	default:
		_ = p.Close()
		return nil, fmt.Errorf("unknown keyword embedder %q", cfg.Keywords.Embedder)
	}

	var ranker service.PhraseRanker
	if embedder != nil {
		ranker = nlp.NewEmbeddingRanker(embedder, lex)
	} else if cfg.Keywords.Embedder != EmbedderNone {
		logger.Warn("keyword embedder unavailable, using frequency keywords",
			zap.String("embedder", cfg.Keywords.Embedder))
	}
	p.Keywords = nlp.NewKeywordExtractor(ranker, lex, logger)

	return p, nil
}

// PredictionDeps wires the pipeline into usecase dependencies. predictions
// and recorder may be nil.
func (p *Pipeline) PredictionDeps(predictions repository.PredictionRepository, recorder usecase.Recorder, logger *zap.Logger) usecase.PredictionDeps {
	deps := usecase.PredictionDeps{
		Normalizer:  p.Normalizer,
		Rules:       p.Rules,
		Keywords:    p.Keywords,
		Classifier:  p.Classifier,
		Resolver:    p.Resolver,
		Predictions: predictions,
		Logger:      logger,
		TopK:        p.TopK,
		BatchTopK:   p.BatchTopK,
	}
	if recorder != nil {
		deps.Recorder = recorder
	}
	return deps
}

// Components reports which pipeline parts are available
func (p *Pipeline) Components() map[string]bool {
	return map[string]bool{
		"hoax_detector":   p.Classifier != nil,
		"text_processor":  p.Normalizer != nil,
		"keyword_ranker":  p.Keywords != nil && p.Keywords.HasRanker(),
		"article_scraper": p.Resolver != nil,
	}
}

// Close releases backend clients
func (p *Pipeline) Close() error {
	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c())
	}
	p.closers = nil
	return errors.Join(errs...)
}
