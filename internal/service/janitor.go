package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionJanitor evicts drill sessions and configuration drafts abandoned
// by their learners.
type SessionJanitor struct {
	sweepers    []SessionSweeper
	schedule    string
	idleTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewSessionJanitor creates a new session janitor.
func NewSessionJanitor(
	schedule string,
	idleTimeout time.Duration,
	logger *zap.Logger,
	sweepers ...SessionSweeper,
) *SessionJanitor {
	return &SessionJanitor{
		sweepers:    sweepers,
		schedule:    schedule,
		idleTimeout: idleTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Start runs the sweep on the configured schedule until ctx is done.
func (j *SessionJanitor) Start(ctx context.Context) {
	j.logger.Info("session janitor started",
		zap.String("schedule", j.schedule),
		zap.Duration("idle_timeout", j.idleTimeout),
	)

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(j.schedule, func() {
		j.Sweep()
	})
	if err != nil {
		j.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()

	<-ctx.Done()

	<-c.Stop().Done()
	j.logger.Info("session janitor stopped")
}

// Sweep evicts entries idle for longer than the idle timeout and returns
// how many were removed.
func (j *SessionJanitor) Sweep() int {
	before := j.now().Add(-j.idleTimeout)

	evicted := 0
	for _, s := range j.sweepers {
		evicted += s.Sweep(before)
	}

	if evicted > 0 {
		j.logger.Info("abandoned drill sessions evicted", zap.Int("count", evicted))
	}
	return evicted
}
