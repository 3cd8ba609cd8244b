package service

import "github.com/aliskhannn/lingua-bot/internal/domain/entities"

const (
	// MinWeight keeps well-known items in rotation.
	MinWeight = 0.1
	// NeutralSuccessRate is assumed for never attempted items.
	NeutralSuccessRate = 0.5
)

// SuccessRate returns correct/total, or NeutralSuccessRate without history.
func SuccessRate(r entities.PerformanceRecord) float64 {
	if r.TotalAttempts <= 0 {
		return NeutralSuccessRate
	}
	return float64(r.CorrectAttempts) / float64(r.TotalAttempts)
}

// SelectionWeight converts a record into a sampling weight in [MinWeight, 1].
// Lower success means a higher weight.
func SelectionWeight(r entities.PerformanceRecord) float64 {
	return max(MinWeight, 1-SuccessRate(r))
}
