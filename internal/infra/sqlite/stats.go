// Package sqlite is the embedded single-file statistics backend.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/repository"
)

// Open connects to the SQLite database at path. Use ":memory:" for tests.
func Open(path string) (*sqlx.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite doesn't support multiple writers; a single connection also
	// keeps an in-memory database alive for the whole process.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, nil
}

type statsRow struct {
	ItemKey         string       `db:"item_key"`
	TotalAttempts   int          `db:"total_attempts"`
	CorrectAttempts int          `db:"correct_attempts"`
	LastSeen        sql.NullTime `db:"last_seen"`
}

func (r statsRow) record() entities.PerformanceRecord {
	rec := entities.PerformanceRecord{
		TotalAttempts:   r.TotalAttempts,
		CorrectAttempts: r.CorrectAttempts,
	}
	if r.LastSeen.Valid {
		t := r.LastSeen.Time
		rec.LastSeen = &t
	}
	return rec
}

// StatsRepository stores performance records in SQLite.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Get(ctx context.Context, learnerID int64, key string) (*entities.PerformanceRecord, error) {
	var row statsRow
	err := r.db.GetContext(ctx, &row, `
		SELECT item_key, total_attempts, correct_attempts, last_seen
		FROM learner_stats
		WHERE learner_id = ? AND item_key = ?`,
		learnerID, key,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrStatsNotFound
		}
		return nil, entities.NewPersistenceError("get", key, err)
	}

	rec := row.record()
	return &rec, nil
}

func (r *StatsRepository) Put(ctx context.Context, learnerID int64, key string, record entities.PerformanceRecord) error {
	if !record.Valid() {
		return entities.NewPersistenceError("put", key, repository.ErrCorruptRecord)
	}

	var lastSeen sql.NullTime
	if record.LastSeen != nil {
		lastSeen = sql.NullTime{Time: record.LastSeen.UTC(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO learner_stats (learner_id, item_key, total_attempts, correct_attempts, last_seen)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (learner_id, item_key) DO UPDATE SET
			total_attempts = excluded.total_attempts,
			correct_attempts = excluded.correct_attempts,
			last_seen = excluded.last_seen`,
		learnerID, key, record.TotalAttempts, record.CorrectAttempts, lastSeen,
	)
	if err != nil {
		return entities.NewPersistenceError("put", key, err)
	}

	return nil
}

// Increment applies one attempt in a single upsert statement.
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

	var row statsRow
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO learner_stats (learner_id, item_key, total_attempts, correct_attempts, last_seen)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT (learner_id, item_key) DO UPDATE SET
			total_attempts = learner_stats.total_attempts + 1,
			correct_attempts = learner_stats.correct_attempts + excluded.correct_attempts,
			last_seen = excluded.last_seen
		RETURNING item_key, total_attempts, correct_attempts, last_seen`,
		learnerID, key, correctDelta, at.UTC(),
	)
	if err != nil {
		return nil, entities.NewPersistenceError("increment", key, err)
	}

	rec := row.record()
	return &rec, nil
}

func (r *StatsRepository) GetAll(ctx context.Context, learnerID int64) (map[string]entities.PerformanceRecord, error) {
	var rows []statsRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT item_key, total_attempts, correct_attempts, last_seen
		FROM learner_stats
		WHERE learner_id = ?`,
		learnerID,
	)
	if err != nil {
		return nil, entities.NewPersistenceError("list", "", err)
	}

	out := make(map[string]entities.PerformanceRecord, len(rows))
	for _, row := range rows {
		out[row.ItemKey] = row.record()
	}

	return out, nil
}
