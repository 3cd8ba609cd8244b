package entities

import "time"

// PerformanceRecord stores the learner's history for one vocabulary pair.
// Counters only ever grow: CorrectAttempts <= TotalAttempts holds at all times.
type PerformanceRecord struct {
	TotalAttempts   int        `json:"totalAttempts"`      // number of validated answers
	CorrectAttempts int        `json:"correctAttempts"`    // number of correct answers
	LastSeen        *time.Time `json:"lastSeen,omitempty"` // last validation time (nullable)
}

// IsZero reports whether the item was never attempted.
func (r PerformanceRecord) IsZero() bool {
	return r.TotalAttempts == 0
}

// Valid reports whether the counters satisfy the record invariant.
func (r PerformanceRecord) Valid() bool {
	return r.TotalAttempts >= 0 && r.CorrectAttempts >= 0 && r.CorrectAttempts <= r.TotalAttempts
}

// WithAttempt returns a copy of the record with one more attempt applied.
func (r PerformanceRecord) WithAttempt(correct bool, at time.Time) PerformanceRecord {
	next := PerformanceRecord{
		TotalAttempts:   r.TotalAttempts + 1,
		CorrectAttempts: r.CorrectAttempts,
	}
	if correct {
		next.CorrectAttempts++
	}

	seen := at
	next.LastSeen = &seen

	return next
}
