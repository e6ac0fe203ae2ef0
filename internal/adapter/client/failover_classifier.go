package client

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fahrezi93/hoax-detection/internal/domain/service"
)

// ErrNoBackends is returned by an empty failover chain
var ErrNoBackends = errors.New("no classifier backends configured")

// FailoverClassifier tries each backend in order and returns the first
// valid result
type FailoverClassifier struct {
	backends []service.Classifier
	logger   *zap.Logger
	onFail   func(backend string)
}

// NewFailoverClassifier creates a chain over backends. Nil entries are skipped.
// onFail, when set, is called with the name of each backend that fails.
func NewFailoverClassifier(logger *zap.Logger, onFail func(backend string), backends ...service.Classifier) *FailoverClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	kept := make([]service.Classifier, 0, len(backends))
	for _, b := range backends {
		if b != nil {
			kept = append(kept, b)
		}
	}
	return &FailoverClassifier{backends: kept, logger: logger, onFail: onFail}
}

// Name implements service.Classifier
func (f *FailoverClassifier) Name() string {
	return "failover"
}

// Backends lists the configured backend names in order
func (f *FailoverClassifier) Backends() []string {
	names := make([]string, len(f.backends))
	for i, b := range f.backends {
		names[i] = b.Name()
	}
	return names
}

// Classify implements service.Classifier
func (f *FailoverClassifier) Classify(ctx context.Context, text, requestID string) (*service.ClassificationResult, error) {
	if len(f.backends) == 0 {
		return nil, ErrNoBackends
	}

	var errs []error
	for _, b := range f.backends {
		result, err := b.Classify(ctx, text, requestID)
		if err == nil {
			err = result.Validate()
		}
		if err == nil {
			return result, nil
		}

		f.logger.Warn("classifier backend failed",
			zap.String("request_id", requestID),
			zap.String("backend", b.Name()),
			zap.Error(err))
		if f.onFail != nil {
			f.onFail(b.Name())
		}
		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}
	return nil, errors.Join(errs...)
}
