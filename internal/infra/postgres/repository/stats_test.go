package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/repository"
)

const key = "кот|chat"

func newMock(t *testing.T) (*StatsRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	return NewStatsRepository(mock), mock
}

func TestStatsRepository_Get(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		want    *entities.PerformanceRecord
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"total_attempts", "correct_attempts", "last_seen"}).
					AddRow(3, 2, &now)
				mock.ExpectQuery(`SELECT total_attempts, correct_attempts, last_seen FROM learner_stats`).
					WithArgs(int64(7), key).
					WillReturnRows(rows)
			},
			want: &entities.PerformanceRecord{TotalAttempts: 3, CorrectAttempts: 2, LastSeen: &now},
		},
		{
			name: "not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT`).
					WithArgs(int64(7), key).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: repository.ErrStatsNotFound,
		},
		{
			name: "database error",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT`).
					WithArgs(int64(7), key).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: entities.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMock(t)
			tt.setup(mock)

			got, err := repo.Get(context.Background(), 7, key)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.TotalAttempts, got.TotalAttempts)
			assert.Equal(t, tt.want.CorrectAttempts, got.CorrectAttempts)
			require.NotNil(t, got.LastSeen)
			assert.True(t, tt.want.LastSeen.Equal(*got.LastSeen))
		})
	}
}

func TestStatsRepository_Put(t *testing.T) {
	now := time.Now()
	record := entities.PerformanceRecord{TotalAttempts: 4, CorrectAttempts: 1, LastSeen: &now}

	t.Run("upserts the record", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(`INSERT INTO learner_stats`).
			WithArgs(int64(7), key, 4, 1, &now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.Put(context.Background(), 7, key, record))
	})

	t.Run("rejects a record breaking the invariant", func(t *testing.T) {
		repo, _ := newMock(t)

		err := repo.Put(context.Background(), 7, key, entities.PerformanceRecord{TotalAttempts: 1, CorrectAttempts: 2})
		require.ErrorIs(t, err, repository.ErrCorruptRecord)
		require.ErrorIs(t, err, entities.ErrPersistence)
	})

	t.Run("wraps database errors", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(`INSERT INTO learner_stats`).
			WithArgs(int64(7), key, 4, 1, &now).
			WillReturnError(errors.New("disk full"))

		err := repo.Put(context.Background(), 7, key, record)

		var pe *entities.PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "put", pe.Op)
		assert.Equal(t, key, pe.Key)
	})
}

func TestStatsRepository_Increment(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	repo, mock := newMock(t)
	rows := pgxmock.NewRows([]string{"total_attempts", "correct_attempts", "last_seen"}).
		AddRow(5, 3, &at)
	mock.ExpectQuery(`(?s)INSERT INTO learner_stats.+RETURNING`).
		WithArgs(int64(7), key, 1, 1, at).
		WillReturnRows(rows)

	got, err := repo.Increment(context.Background(), 7, key, true, at)
	require.NoError(t, err)
	assert.Equal(t, 5, got.TotalAttempts)
	assert.Equal(t, 3, got.CorrectAttempts)
}

func TestStatsRepository_GetAll(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	repo, mock := newMock(t)
	rows := pgxmock.NewRows([]string{"item_key", "total_attempts", "correct_attempts", "last_seen"}).
		AddRow("кот|chat", 2, 2, &at).
		AddRow("дом|maison", 3, 0, &at)
	mock.ExpectQuery(`SELECT item_key, (.+) FROM learner_stats`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.GetAll(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got["кот|chat"].CorrectAttempts)
	assert.Equal(t, 3, got["дом|maison"].TotalAttempts)
}
