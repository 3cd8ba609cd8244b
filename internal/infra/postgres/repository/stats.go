package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/infra/postgres"
	"github.com/aliskhannn/lingua-bot/internal/repository"
)

const statsTable = "learner_stats"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// StatsRepository stores performance records in PostgreSQL, one row per
// learner and item key.
type StatsRepository struct {
	db postgres.DBTX
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(db postgres.DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

// Get returns the record for the key, or repository.ErrStatsNotFound.
func (r *StatsRepository) Get(ctx context.Context, learnerID int64, key string) (*entities.PerformanceRecord, error) {
	query, args, err := psql.
		Select("total_attempts", "correct_attempts", "last_seen").
		From(statsTable).
		Where(sq.Eq{"learner_id": learnerID}).
		Where(sq.Eq{"item_key": key}).
		ToSql()
	if err != nil {
		return nil, entities.NewPersistenceError("get", key, err)
	}

	var rec entities.PerformanceRecord
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&rec.TotalAttempts,
		&rec.CorrectAttempts,
		&rec.LastSeen,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrStatsNotFound
		}
		return nil, entities.NewPersistenceError("get", key, err)
	}

	return &rec, nil
}

// Put overwrites the record for the key.
func (r *StatsRepository) Put(ctx context.Context, learnerID int64, key string, record entities.PerformanceRecord) error {
	if !record.Valid() {
		return entities.NewPersistenceError("put", key, repository.ErrCorruptRecord)
	}

	query, args, err := psql.
		Insert(statsTable).
		Columns("learner_id", "item_key", "total_attempts", "correct_attempts", "last_seen").
		Values(learnerID, key, record.TotalAttempts, record.CorrectAttempts, record.LastSeen).
		Suffix(`ON CONFLICT (learner_id, item_key) DO UPDATE SET
			total_attempts = EXCLUDED.total_attempts,
			correct_attempts = EXCLUDED.correct_attempts,
			last_seen = EXCLUDED.last_seen`).
		ToSql()
	if err != nil {
		return entities.NewPersistenceError("put", key, err)
	}

	if _, err = r.db.Exec(ctx, query, args...); err != nil {
		return entities.NewPersistenceError("put", key, err)
	}

	return nil
}

// Increment applies one attempt in a single upsert and returns the stored
// record, so concurrent writers never lose an attempt.
func (r *StatsRepository) Increment(
	ctx context.Context,
	learnerID int64,
	key string,
	correct bool,
	at time.Time,
) (*entities.PerformanceRecord, error) {
	correctDelta := 0
	if correct {
		correctDelta = 1
	}

	query, args, err := psql.
		Insert(statsTable).
		Columns("learner_id", "item_key", "total_attempts", "correct_attempts", "last_seen").
		Values(learnerID, key, 1, correctDelta, at).
		Suffix(`ON CONFLICT (learner_id, item_key) DO UPDATE SET
			total_attempts = ` + statsTable + `.total_attempts + 1,
			correct_attempts = ` + statsTable + `.correct_attempts + EXCLUDED.correct_attempts,
			last_seen = EXCLUDED.last_seen
		RETURNING total_attempts, correct_attempts, last_seen`).
		ToSql()
	if err != nil {
		return nil, entities.NewPersistenceError("increment", key, err)
	}

	var rec entities.PerformanceRecord
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&rec.TotalAttempts,
		&rec.CorrectAttempts,
		&rec.LastSeen,
	)
	if err != nil {
		return nil, entities.NewPersistenceError("increment", key, err)
	}

	return &rec, nil
}

// GetAll returns every record of the learner keyed by item key.
func (r *StatsRepository) GetAll(ctx context.Context, learnerID int64) (map[string]entities.PerformanceRecord, error) {
	query, args, err := psql.
		Select("item_key", "total_attempts", "correct_attempts", "last_seen").
		From(statsTable).
		Where(sq.Eq{"learner_id": learnerID}).
		ToSql()
	if err != nil {
		return nil, entities.NewPersistenceError("list", "", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, entities.NewPersistenceError("list", "", err)
	}
	defer rows.Close()

	out := make(map[string]entities.PerformanceRecord)
	for rows.Next() {
		var (
			key string
			rec entities.PerformanceRecord
		)
		if err = rows.Scan(&key, &rec.TotalAttempts, &rec.CorrectAttempts, &rec.LastSeen); err != nil {
			return nil, entities.NewPersistenceError("list", "", err)
		}
		out[key] = rec
	}

	if err = rows.Err(); err != nil {
		return nil, entities.NewPersistenceError("list", "", err)
	}

	return out, nil
}
