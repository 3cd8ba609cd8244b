package repository

import "errors"

// Errors shared by the statistics repositories under internal/infra.
var (
	ErrStatsNotFound = errors.New("stats not found")
	ErrCorruptRecord = errors.New("stored stats record is corrupt")
)
