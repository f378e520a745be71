package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an ingestion attempt.
// An attempt starts pending and transitions exactly once to a terminal state.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// ErrorCategory classifies why an attempt failed. The set is closed:
// every failure maps to exactly one category.
type ErrorCategory string

const (
	CategoryRateLimit     ErrorCategory = "RATE_LIMIT"
	CategoryAPITimeout    ErrorCategory = "API_TIMEOUT"
	CategoryAPIConnection ErrorCategory = "API_CONNECTION"
	CategoryS3Upload      ErrorCategory = "S3_UPLOAD"
	CategoryS3Config      ErrorCategory = "S3_CONFIG"
	CategoryParquet       ErrorCategory = "PARQUET"
	CategoryUnexpected    ErrorCategory = "UNEXPECTED"
)

// AllCategories lists every member of the closed taxonomy.
var AllCategories = []ErrorCategory{
	CategoryRateLimit,
	CategoryAPITimeout,
	CategoryAPIConnection,
	CategoryS3Upload,
	CategoryS3Config,
	CategoryParquet,
	CategoryUnexpected,
}

// Valid reports whether c is a member of the closed taxonomy.
func (c ErrorCategory) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Attempt is one row in ingestion_attempts: a durable record of a single
// ingestion run from creation to terminal status. Nullable columns are
// pointers; record_count and storage_path are set only on success,
// error_category and error_message only on failure.
type Attempt struct {
	ID            int64
	BatchID       uuid.UUID
	Status        Status
	StartedAt     time.Time
	FinishedAt    *time.Time
	RecordCount   *int64
	StoragePath   *string
	ErrorCategory *ErrorCategory
	ErrorMessage  *string
}
