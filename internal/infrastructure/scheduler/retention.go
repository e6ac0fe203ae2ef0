package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CleanupFunc removes expired records
type CleanupFunc func(ctx context.Context) error

// RetentionJob runs a cleanup function on a cron schedule
type RetentionJob struct {
	cron    *cron.Cron
	run     CleanupFunc
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	started bool
}

// NewRetentionJob schedules run according to schedule. Standard five-field
// expressions and descriptors such as "@daily" are accepted.
func NewRetentionJob(schedule string, run CleanupFunc, logger *zap.Logger) (*RetentionJob, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &RetentionJob{
		cron:    cron.New(),
		run:     run,
		timeout: 5 * time.Minute,
		logger:  logger,
	}
	if _, err := j.cron.AddFunc(schedule, j.RunNow); err != nil {
		return nil, fmt.Errorf("add cron job: %w", err)
	}
	return j, nil
}

// RunNow executes the cleanup once, logging the outcome
func (j *RetentionJob) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	if err := j.run(ctx); err != nil {
		j.logger.Error("retention cleanup failed", zap.Error(err))
		return
	}
	j.logger.Info("retention cleanup completed", zap.Duration("took", time.Since(start)))
}

// Start begins the schedule
func (j *RetentionJob) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.started {
		j.cron.Start()
		j.started = true
	}
}

// Stop halts the schedule and waits for a running cleanup to finish
func (j *RetentionJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.started {
		<-j.cron.Stop().Done()
		j.started = false
	}
}
