package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/infra/migrations"
	"github.com/aliskhannn/lingua-bot/internal/repository"
)

func newTestRepository(t *testing.T) *StatsRepository {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db.DB, migrations.SQLite))

	return NewStatsRepository(db)
}

func TestStatsRepository_GetMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), 1, "кот|chat")
	require.ErrorIs(t, err, repository.ErrStatsNotFound)
}

func TestStatsRepository_PutGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seen := time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Put(ctx, 1, "кот|chat", entities.PerformanceRecord{
		TotalAttempts: 2, CorrectAttempts: 1, LastSeen: &seen,
	}))
	require.NoError(t, repo.Put(ctx, 1, "кот|chat", entities.PerformanceRecord{
		TotalAttempts: 3, CorrectAttempts: 2, LastSeen: &seen,
	}))

	got, err := repo.Get(ctx, 1, "кот|chat")
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalAttempts)
	assert.Equal(t, 2, got.CorrectAttempts)
	require.NotNil(t, got.LastSeen)
	assert.True(t, seen.Equal(*got.LastSeen))

	// Learners do not share history.
	_, err = repo.Get(ctx, 2, "кот|chat")
	require.ErrorIs(t, err, repository.ErrStatsNotFound)
}

func TestStatsRepository_PutRejectsInvalidRecord(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.Put(context.Background(), 1, "k", entities.PerformanceRecord{TotalAttempts: 1, CorrectAttempts: 5})
	require.ErrorIs(t, err, entities.ErrPersistence)
}

func TestStatsRepository_IncrementIsAtomic(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	const writers = 20
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Increment(ctx, 1, "дом|maison", i%2 == 0, now)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, 1, "дом|maison")
	require.NoError(t, err)
	assert.Equal(t, writers, got.TotalAttempts)
	assert.Equal(t, writers/2, got.CorrectAttempts)
}

func TestStatsRepository_GetAll(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	_, err := repo.Increment(ctx, 1, "кот|chat", true, now)
	require.NoError(t, err)
	_, err = repo.Increment(ctx, 1, "собака|chien", false, now)
	require.NoError(t, err)
	_, err = repo.Increment(ctx, 2, "дом|maison", true, now)
	require.NoError(t, err)

	all, err := repo.GetAll(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 1, all["кот|chat"].CorrectAttempts)
	assert.Equal(t, 0, all["собака|chien"].CorrectAttempts)
}
