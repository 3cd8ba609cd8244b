package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/repository"
)

// DrillService starts drill sessions: it validates the configuration, loads
// the catalog, builds the weighted sequence and hands back a runner.
type DrillService struct {
	catalogRepo CatalogRepository
	stats       *StatsStore
	logger      *zap.Logger

	newRand func() *rand.Rand
}

var seedCounter atomic.Int64

// NewDrillService creates a new DrillService.
func NewDrillService(catalogRepo CatalogRepository, stats *StatsStore, logger *zap.Logger) *DrillService {
	return &DrillService{
		catalogRepo: catalogRepo,
		stats:       stats,
		logger:      logger,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano() + seedCounter.Add(1)))
		},
	}
}

// WithRand replaces the per-session random source. Used by tests.
func (s *DrillService) WithRand(newRand func() *rand.Rand) *DrillService {
	s.newRand = newRand
	return s
}

// Start builds a new drill session for the learner.
// A *entities.ConfigurationError is returned for an invalid config or an
// empty or unknown catalog.
func (s *DrillService) Start(
	ctx context.Context,
	learnerID int64,
	cfg entities.SessionConfig,
) (*SessionRunner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog, err := s.catalogRepo.Get(ctx, cfg.ContentType)
	if err != nil {
		if errors.Is(err, repository.ErrCatalogNotFound) {
			return nil, entities.NewConfigurationError("catalog", "no catalog for "+string(cfg.ContentType))
		}
		return nil, fmt.Errorf("get catalog: %w", err)
	}

	stats := s.stats.ForLearner(learnerID)
	rng := s.newRand()

	sequence, err := NewSessionBuilder(rng).Build(ctx, catalog, stats)
	if err != nil {
		return nil, err
	}

	s.logger.Info("drill session started",
		zap.Int64("learner_id", learnerID),
		zap.String("content", string(cfg.ContentType)),
		zap.String("mode", string(cfg.GameMode)),
		zap.String("direction", string(cfg.Direction)),
		zap.Int("length", len(sequence)),
	)

	return NewSessionRunner(cfg, sequence, catalog, stats, rng), nil
}
