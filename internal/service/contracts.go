package service

import (
	"context"
	"time"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
)

// StatsRepository is the durable key-value store behind StatsStore.
// Implementations return repository-level errors; StatsStore absorbs them.
type StatsRepository interface {
	Get(ctx context.Context, learnerID int64, key string) (*entities.PerformanceRecord, error)
	Put(ctx context.Context, learnerID int64, key string, record entities.PerformanceRecord) error
	GetAll(ctx context.Context, learnerID int64) (map[string]entities.PerformanceRecord, error)
}

// StatsIncrementer is implemented by repositories that can apply an attempt
// atomically in storage, so concurrent writers never lose updates.
type StatsIncrementer interface {
	Increment(ctx context.Context, learnerID int64, key string, correct bool, at time.Time) (*entities.PerformanceRecord, error)
}

// CatalogRepository provides the vocabulary lists.
type CatalogRepository interface {
	Get(ctx context.Context, contentType entities.ContentType) ([]entities.VocabularyItem, error)
}

// StatsReader is the read side of the per-learner statistics contract.
type StatsReader interface {
	Get(ctx context.Context, item entities.VocabularyItem) entities.PerformanceRecord
}

// StatsRecorder is the write side used by SessionRunner.
type StatsRecorder interface {
	RecordAttempt(ctx context.Context, item entities.VocabularyItem, correct bool, at time.Time) entities.PerformanceRecord
}

// SessionSweeper evicts sessions that were not touched since the given time.
type SessionSweeper interface {
	Sweep(before time.Time) int
}
