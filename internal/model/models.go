// Package model defines the shared data structures for the search service.
package model

import (
	"fmt"
	"time"
)

// JobSummary is one item parsed from a listing page. Every field except ID
// is optional — a missing field stays empty rather than failing the item.
type JobSummary struct {
	ID              int64
	Title           string
	Company         string
	Location        string
	Benefits        string
	RawDatePosted   string // datetime attribute of the date badge, e.g. "2024-05-17"
	TimeSincePosted string // human-readable age, e.g. "3 days ago"
}

// JobDetail is the field mapping parsed from a single job detail page.
type JobDetail struct {
	ID              int64
	Title           string
	Company         string
	Location        string
	SalaryRange     string
	Criteria        map[string]string // nil when the criteria section is absent or empty
	TimeSincePosted string
	NumApplicants   string
	Description     string
}

// Job is the canonical persisted record, keyed by the source-assigned ID.
type Job struct {
	ID            int64             `json:"jobId"`
	Title         *string           `json:"title"`
	Company       *string           `json:"company"`
	Location      *string           `json:"location"`
	SalaryRange   *string           `json:"salaryRange"`
	Criteria      map[string]string `json:"criteria,omitempty"`
	Benefits      *string           `json:"benefits"`
	DatePosted    *time.Time        `json:"datePosted"`
	NumApplicants *string           `json:"numApplicants"`
	Description   *string           `json:"description"`
	SearchKeys    []string          `json:"searchKeys"`
	Status        Status            `json:"status"`
	LastUpdated   time.Time         `json:"lastUpdated"`
}

// Link returns the canonical public URL for the posting.
func (j *Job) Link() string {
	return fmt.Sprintf("https://www.linkedin.com/jobs/view/%d", j.ID)
}

// UserLink records that a user's search has surfaced a job. Its ID is a
// deterministic function of (JobID, UserID), so re-linking the same pair
// upserts the same row.
type UserLink struct {
	ID          string    `json:"id"`
	JobID       int64     `json:"jobId"`
	UserID      string    `json:"userId"`
	LastUpdated time.Time `json:"lastUpdated"`
}
