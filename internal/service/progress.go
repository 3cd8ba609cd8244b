package service

import (
	"context"
	"sort"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
)

// ItemProgress is one catalog item with its history.
type ItemProgress struct {
	Item   entities.VocabularyItem
	Record entities.PerformanceRecord
	Weight float64
}

// SuccessRate returns the success rate of the item.
func (p ItemProgress) SuccessRate() float64 {
	return SuccessRate(p.Record)
}

type ProgressSummary struct {
	CatalogSize int
	Attempted   int // items with at least one attempt
	NotStarted  int
	Attempts    int
	Correct     int
	Weakest     []ItemProgress // highest weight first
}

// Accuracy returns the share of correct attempts in percent.
func (s ProgressSummary) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts) * 100
}

type ProgressService struct {
	catalogRepo CatalogRepository
	stats       *StatsStore
}

func NewProgressService(catalogRepo CatalogRepository, stats *StatsStore) *ProgressService {
	return &ProgressService{catalogRepo: catalogRepo, stats: stats}
}

// Summary reports the learner's history over one catalog and the limit
// weakest attempted items.
func (s *ProgressService) Summary(
	ctx context.Context,
	learnerID int64,
	contentType entities.ContentType,
	limit int,
) (*ProgressSummary, error) {
	catalog, err := s.catalogRepo.Get(ctx, contentType)
	if err != nil {
		return nil, err
	}

	records := s.stats.All(ctx, learnerID)

	summary := &ProgressSummary{}
	attempted := make([]ItemProgress, 0, len(catalog))
	seen := make(map[string]struct{}, len(catalog))

	for _, item := range catalog {
		key := item.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rec := records[key]
		if rec.TotalAttempts == 0 {
			summary.NotStarted++
			continue
		}

		summary.Attempted++
		summary.Attempts += rec.TotalAttempts
		summary.Correct += rec.CorrectAttempts
		attempted = append(attempted, ItemProgress{Item: item, Record: rec, Weight: SelectionWeight(rec)})
	}

	// Duplicate pairs share one record and count once.
	summary.CatalogSize = len(seen)

	sort.SliceStable(attempted, func(i, j int) bool {
		if attempted[i].Weight != attempted[j].Weight {
			return attempted[i].Weight > attempted[j].Weight
		}
		return attempted[i].SuccessRate() < attempted[j].SuccessRate()
	})

	if limit > 0 && len(attempted) > limit {
		attempted = attempted[:limit]
	}
	summary.Weakest = attempted

	return summary, nil
}
