package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/repository"
)

// StatsStore wraps a StatsRepository with the total read / best-effort write
// contract of the drill core: reads never fail and write failures are logged
// and swallowed.
//
// Writes of one learner are serialised by a per-learner lock, so a slow
// backend call of one learner never blocks another.
type StatsStore struct {
	repo    StatsRepository
	logger  *zap.Logger
	timeout time.Duration

	mu    sync.Mutex
	locks map[int64]*learnerLock
}

type learnerLock struct {
	mu   sync.Mutex
	refs int
}

// NewStatsStore creates a new StatsStore. A zero timeout disables the per-call deadline.
func NewStatsStore(repo StatsRepository, logger *zap.Logger, timeout time.Duration) *StatsStore {
	return &StatsStore{
		repo:    repo,
		logger:  logger,
		timeout: timeout,
		locks:   make(map[int64]*learnerLock),
	}
}

// ForLearner returns a fresh statistics view of one learner. Attempts whose
// write failed are remembered by the view only, so they are dropped with it.
func (s *StatsStore) ForLearner(learnerID int64) *LearnerStats {
	return &LearnerStats{
		store:     s,
		learnerID: learnerID,
		pending:   make(map[string]entities.PerformanceRecord),
	}
}

// Get returns the record for the key. Missing, corrupt or unreadable data
// yields the zero record.
func (s *StatsStore) Get(ctx context.Context, learnerID int64, key string) entities.PerformanceRecord {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	record, err := s.repo.Get(callCtx, learnerID, key)
	if err != nil {
		if !errors.Is(err, repository.ErrStatsNotFound) {
			s.logger.Warn("stats read failed, treating history as empty",
				zap.Int64("learner_id", learnerID),
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return entities.PerformanceRecord{}
	}

	if record == nil || !record.Valid() {
		s.logger.Warn("stats record is corrupt, treating history as empty",
			zap.Int64("learner_id", learnerID),
			zap.String("key", key),
		)
		return entities.PerformanceRecord{}
	}

	return *record
}

// Put stores the record and reports whether it reached durable storage.
// A failed write leaves the stored record unchanged.
func (s *StatsStore) Put(ctx context.Context, learnerID int64, key string, record entities.PerformanceRecord) bool {
	unlock := s.lockLearner(learnerID)
	defer unlock()

	return s.put(ctx, learnerID, key, record)
}

// RecordAttempt applies one attempt to the stored record of the key. It
// returns the new record and whether it was persisted; the record is valid
// for the caller either way.
func (s *StatsStore) RecordAttempt(
	ctx context.Context,
	learnerID int64,
	key string,
	correct bool,
	at time.Time,
) (entities.PerformanceRecord, bool) {
	unlock := s.lockLearner(learnerID)
	defer unlock()

	next := s.Get(ctx, learnerID, key).WithAttempt(correct, at)

	inc, ok := s.repo.(StatsIncrementer)
	if !ok {
		return next, s.put(ctx, learnerID, key, next)
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	stored, err := inc.Increment(callCtx, learnerID, key, correct, at)
	if err != nil {
		s.logger.Warn("stats increment failed, attempt not persisted",
			zap.Int64("learner_id", learnerID),
			zap.String("key", key),
			zap.Error(err),
		)
		return next, false
	}

	if stored == nil || !stored.Valid() {
		return next, true
	}

	return *stored, true
}

// All returns every valid stored record of the learner.
func (s *StatsStore) All(ctx context.Context, learnerID int64) map[string]entities.PerformanceRecord {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	records, err := s.repo.GetAll(callCtx, learnerID)
	if err != nil {
		s.logger.Warn("stats list failed, treating history as empty",
			zap.Int64("learner_id", learnerID),
			zap.Error(err),
		)
		records = nil
	}

	out := make(map[string]entities.PerformanceRecord, len(records))
	for k, r := range records {
		if r.Valid() {
			out[k] = r
		}
	}

	return out
}

func (s *StatsStore) put(ctx context.Context, learnerID int64, key string, record entities.PerformanceRecord) bool {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	if err := s.repo.Put(callCtx, learnerID, key, record); err != nil {
		s.logger.Warn("stats write failed, attempt not persisted",
			zap.Int64("learner_id", learnerID),
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}

	return true
}

// lockLearner locks the learner and returns the unlock func. Idle locks are
// dropped so the map only holds learners with a write in flight.
func (s *StatsStore) lockLearner(learnerID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[learnerID]
	if !ok {
		l = &learnerLock{}
		s.locks[learnerID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, learnerID)
		}
		s.mu.Unlock()
	}
}

func (s *StatsStore) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// LearnerStats is the per-learner get/put view of a StatsStore keyed by
// vocabulary items. A drill session owns one view.
//
// A record whose write failed stays in the view so the session keeps
// weighting with it. The next write of that key rewrites the whole record
// and clears it on success; nothing of it outlives the view.
type LearnerStats struct {
	store     *StatsStore
	learnerID int64

	mu      sync.Mutex
	pending map[string]entities.PerformanceRecord
}

// LearnerID returns the learner this view is bound to.
func (l *LearnerStats) LearnerID() int64 {
	return l.learnerID
}

// Get returns the record of the item, or the zero record.
func (l *LearnerStats) Get(ctx context.Context, item entities.VocabularyItem) entities.PerformanceRecord {
	if r, ok := l.pendingRecord(item.Key()); ok {
		return r
	}
	return l.store.Get(ctx, l.learnerID, item.Key())
}

// Put stores the record of the item and reports whether it was persisted.
func (l *LearnerStats) Put(ctx context.Context, item entities.VocabularyItem, record entities.PerformanceRecord) bool {
	key := item.Key()
	ok := l.store.Put(ctx, l.learnerID, key, record)
	l.settle(key, record, ok)
	return ok
}

// RecordAttempt applies one validated answer to the item.
func (l *LearnerStats) RecordAttempt(
	ctx context.Context,
	item entities.VocabularyItem,
	correct bool,
	at time.Time,
) entities.PerformanceRecord {
	key := item.Key()

	// Storage is behind the view; an increment would apply the attempt to
	// stale counters.
	if r, ok := l.pendingRecord(key); ok {
		next := r.WithAttempt(correct, at)
		l.settle(key, next, l.store.Put(ctx, l.learnerID, key, next))
		return next
	}

	next, ok := l.store.RecordAttempt(ctx, l.learnerID, key, correct, at)
	l.settle(key, next, ok)
	return next
}

// All returns every record of the learner keyed by item key, including
// attempts of this view that were not persisted.
func (l *LearnerStats) All(ctx context.Context) map[string]entities.PerformanceRecord {
	out := l.store.All(ctx, l.learnerID)

	l.mu.Lock()
	defer l.mu.Unlock()
	for k, r := range l.pending {
		out[k] = r
	}
	return out
}

func (l *LearnerStats) pendingRecord(key string) (entities.PerformanceRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.pending[key]
	return r, ok
}

func (l *LearnerStats) settle(key string, record entities.PerformanceRecord, persisted bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if persisted {
		delete(l.pending, key)
		return
	}
	l.pending[key] = record
}
