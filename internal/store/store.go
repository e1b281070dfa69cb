// Package store defines the persistence contract consumed by the search
// orchestrator and the link recorder. Implementations live under
// internal/store/<driver>/; tests use internal/store/storetest.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobscout/search-service/internal/model"
)

// FreshnessField selects which timestamp counts toward the freshness window.
type FreshnessField string

const (
	FreshnessLastUpdated FreshnessField = "last_updated"
	FreshnessDatePosted  FreshnessField = "date_posted"
)

// ParseFreshnessField validates a configured field name.
func ParseFreshnessField(s string) (FreshnessField, error) {
	switch FreshnessField(s) {
	case FreshnessLastUpdated, FreshnessDatePosted:
		return FreshnessField(s), nil
	}
	return "", fmt.Errorf("unknown freshness field %q", s)
}

// Store exposes the persistence operations required by the service.
type Store interface {
	Jobs() Jobs
	Links() Links
}

// Jobs is the job-record side of the document store.
type Jobs interface {
	// FindFresh returns records whose search-key set contains searchKey and
	// whose freshness timestamp is at or after cutoff, capped at limit.
	FindFresh(ctx context.Context, searchKey string, cutoff time.Time, field FreshnessField, limit int) ([]model.Job, error)

	// Upsert inserts the full record when absent. When present it updates
	// only the staleness-sensitive fields (last-updated, posting timestamp,
	// applicant count) and unions the record's search keys into the stored
	// set; descriptive content is left untouched. LastUpdated is assigned by
	// the store on every write.
	Upsert(ctx context.Context, job *model.Job) error

	GetByID(ctx context.Context, jobID int64) (*model.Job, error)

	// UpdateStatus moves a record to a new application status.
	UpdateStatus(ctx context.Context, jobID int64, status model.Status) (*model.Job, error)
}

// Links is the user-link side of the document store.
type Links interface {
	// Upsert inserts the link or bumps its last-updated timestamp. The link
	// id is deterministic, so no duplicate-detection read is needed.
	Upsert(ctx context.Context, link *model.UserLink) error
}

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// StoreError wraps a read or write failure against the persistence layer.
// It is never recovered locally; callers propagate it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }
