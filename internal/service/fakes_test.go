package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/repository"
)

var errStorageDown = errors.New("storage down")

type storedKey struct {
	learnerID int64
	key       string
}

// memRepo is an in-memory StatsRepository with switchable failures.
type memRepo struct {
	mu      sync.Mutex
	records map[storedKey]entities.PerformanceRecord
	failGet error
	failPut error
	failAll error
	puts    int
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[storedKey]entities.PerformanceRecord)}
}

func (r *memRepo) Get(_ context.Context, learnerID int64, key string) (*entities.PerformanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failGet != nil {
		return nil, r.failGet
	}
	rec, ok := r.records[storedKey{learnerID, key}]
	if !ok {
		return nil, repository.ErrStatsNotFound
	}
	return &rec, nil
}

func (r *memRepo) Put(_ context.Context, learnerID int64, key string, record entities.PerformanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.puts++
	if r.failPut != nil {
		return r.failPut
	}
	r.records[storedKey{learnerID, key}] = record
	return nil
}

func (r *memRepo) GetAll(_ context.Context, learnerID int64) (map[string]entities.PerformanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failAll != nil {
		return nil, r.failAll
	}
	out := make(map[string]entities.PerformanceRecord)
	for k, rec := range r.records {
		if k.learnerID == learnerID {
			out[k.key] = rec
		}
	}
	return out, nil
}

func (r *memRepo) set(learnerID int64, key string, rec entities.PerformanceRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[storedKey{learnerID, key}] = rec
}

func (r *memRepo) record(learnerID int64, key string) (entities.PerformanceRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[storedKey{learnerID, key}]
	return rec, ok
}

func (r *memRepo) setFailPut(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failPut = err
}

// incRepo adds an atomic Increment to memRepo.
type incRepo struct {
	*memRepo
	failInc error
	incs    int
}

func newIncRepo() *incRepo {
	return &incRepo{memRepo: newMemRepo()}
}

func (r *incRepo) Increment(
	_ context.Context,
	learnerID int64,
	key string,
	correct bool,
	at time.Time,
) (*entities.PerformanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.incs++
	if r.failInc != nil {
		return nil, r.failInc
	}
	k := storedKey{learnerID, key}
	next := r.records[k].WithAttempt(correct, at)
	r.records[k] = next
	return &next, nil
}

type fakeCatalogRepo map[entities.ContentType][]entities.VocabularyItem

func (c fakeCatalogRepo) Get(_ context.Context, ct entities.ContentType) ([]entities.VocabularyItem, error) {
	items, ok := c[ct]
	if !ok {
		return nil, repository.ErrCatalogNotFound
	}
	return items, nil
}

// staticStats serves fixed records by item key.
type staticStats map[string]entities.PerformanceRecord

func (s staticStats) Get(_ context.Context, item entities.VocabularyItem) entities.PerformanceRecord {
	return s[item.Key()]
}
