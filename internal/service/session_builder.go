package service

import (
	"context"
	"math/rand"
	"sort"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
)

// MaxSessionLength caps the drill sequence.
const MaxSessionLength = 50

// SessionLength returns min(2n, MaxSessionLength).
func SessionLength(n int) int {
	return min(2*n, MaxSessionLength)
}

// SessionBuilder implements weighted item selection for drills.
type SessionBuilder struct {
	rng *rand.Rand
}

// NewSessionBuilder creates a new SessionBuilder.
func NewSessionBuilder(rng *rand.Rand) *SessionBuilder {
	return &SessionBuilder{rng: rng}
}

// Build draws SessionLength(len(catalog)) items with replacement, each draw
// proportional to the item's selection weight, then shuffles the result.
// Weights are a single snapshot of stats taken before the first draw.
func (b *SessionBuilder) Build(
	ctx context.Context,
	catalog []entities.VocabularyItem,
	stats StatsReader,
) ([]entities.VocabularyItem, error) {
	if len(catalog) == 0 {
		return nil, entities.NewConfigurationError("catalog", "is empty")
	}

	weights := make([]float64, len(catalog))
	for i, item := range catalog {
		weights[i] = SelectionWeight(stats.Get(ctx, item))
	}

	pick := newRoulette(weights, b.rng)

	out := make([]entities.VocabularyItem, SessionLength(len(catalog)))
	for i := range out {
		out[i] = catalog[pick.draw()]
	}

	return b.shuffled(out), nil
}

// shuffled returns a shuffled copy of the input slice.
func (b *SessionBuilder) shuffled(in []entities.VocabularyItem) []entities.VocabularyItem {
	out := append([]entities.VocabularyItem(nil), in...)
	b.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// roulette is a prefix-sum sampler: index i is drawn with probability
// weights[i] / sum(weights).
type roulette struct {
	prefix []float64
	total  float64
	rng    *rand.Rand
}

func newRoulette(weights []float64, rng *rand.Rand) *roulette {
	prefix := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if w > 0 {
			total += w
		}
		prefix[i] = total
	}
	return &roulette{prefix: prefix, total: total, rng: rng}
}

func (r *roulette) draw() int {
	n := len(r.prefix)
	if r.total <= 1e-12 {
		return r.rng.Intn(n)
	}

	x := r.rng.Float64() * r.total
	// First slot whose running sum strictly exceeds x, so zero-width slots
	// are never picked.
	i := sort.Search(n, func(i int) bool { return r.prefix[i] > x })
	if i >= n {
		i = n - 1
	}
	return i
}
