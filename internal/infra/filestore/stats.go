// Package filestore keeps statistics in a single JSON document on disk,
// mapping learner id to item key to record.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/repository"
)

type document map[string]map[string]entities.PerformanceRecord

// StatsRepository is a file-backed statistics store.
type StatsRepository struct {
	path string
	mu   sync.Mutex
}

// NewStatsRepository creates a store backed by path. The file is created on
// the first write.
func NewStatsRepository(path string) *StatsRepository {
	return &StatsRepository{path: path}
}

func (r *StatsRepository) Get(_ context.Context, learnerID int64, key string) (*entities.PerformanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, entities.NewPersistenceError("get", key, err)
	}

	rec, ok := doc[learnerKey(learnerID)][key]
	if !ok {
		return nil, repository.ErrStatsNotFound
	}
	if !rec.Valid() {
		return nil, entities.NewPersistenceError("get", key, repository.ErrCorruptRecord)
	}

	return &rec, nil
}

// Put writes the record. A corrupt document is replaced by a fresh one.
func (r *StatsRepository) Put(_ context.Context, learnerID int64, key string, record entities.PerformanceRecord) error {
	if !record.Valid() {
		return entities.NewPersistenceError("put", key, repository.ErrCorruptRecord)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.update(learnerID, key, func(entities.PerformanceRecord) entities.PerformanceRecord {
		return record
	}); err != nil {
		return entities.NewPersistenceError("put", key, err)
	}

	return nil
}

// Increment applies one attempt under the store lock.
func (r *StatsRepository) Increment(
	_ context.Context,
	learnerID int64,
	key string,
	correct bool,
	at time.Time,
) (*entities.PerformanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var next entities.PerformanceRecord
	err := r.update(learnerID, key, func(current entities.PerformanceRecord) entities.PerformanceRecord {
		next = current.WithAttempt(correct, at)
		return next
	})
	if err != nil {
		return nil, entities.NewPersistenceError("increment", key, err)
	}

	return &next, nil
}

// update rewrites one record of the document. Must be called with mu held.
func (r *StatsRepository) update(
	learnerID int64,
	key string,
	fn func(current entities.PerformanceRecord) entities.PerformanceRecord,
) error {
	doc, err := r.load()
	if err != nil {
		if !errors.Is(err, repository.ErrCorruptRecord) {
			return err
		}
		doc = make(document)
	}

	learner := learnerKey(learnerID)
	if doc[learner] == nil {
		doc[learner] = make(map[string]entities.PerformanceRecord)
	}

	current := doc[learner][key]
	if !current.Valid() {
		current = entities.PerformanceRecord{}
	}
	doc[learner][key] = fn(current)

	return r.save(doc)
}

func (r *StatsRepository) GetAll(_ context.Context, learnerID int64) (map[string]entities.PerformanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, entities.NewPersistenceError("list", "", err)
	}

	out := make(map[string]entities.PerformanceRecord, len(doc[learnerKey(learnerID)]))
	for k, rec := range doc[learnerKey(learnerID)] {
		if rec.Valid() {
			out[k] = rec
		}
	}

	return out, nil
}

// load reads the document. A missing file is an empty document; an
// unparseable one returns ErrCorruptRecord.
func (r *StatsRepository) load() (document, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(document), nil
		}
		return nil, err
	}

	if len(data) == 0 {
		return make(document), nil
	}

	var doc document
	if err = json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrCorruptRecord, err)
	}
	if doc == nil {
		doc = make(document)
	}

	return doc, nil
}

// save replaces the file atomically.
func (r *StatsRepository) save(doc document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), r.path)
}

func learnerKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
