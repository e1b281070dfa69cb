package search

import (
	"fmt"
	"strings"

	"jobscout/search-service/internal/scraper"
)

// Query is the validated, immutable input of one search call. Construct it,
// call Validate, and pass it by value; nothing mutates it afterwards.
type Query struct {
	Keywords           string
	Location           string
	MaxDaysSincePosted int // 1..120
	Limit              int // 1..100, normalized to page granularity
}

// Validate rejects malformed parameters before any I/O happens.
func (q Query) Validate() error {
	if q.Limit < 1 || q.Limit > 100 {
		return &ValidationError{Msg: fmt.Sprintf("limit must be between 1 and 100, got %d", q.Limit)}
	}
	if q.MaxDaysSincePosted < 1 || q.MaxDaysSincePosted > 120 {
		return &ValidationError{Msg: fmt.Sprintf("max_days_since_posted must be between 1 and 120, got %d", q.MaxDaysSincePosted)}
	}
	return nil
}

// SearchKey is the cache partition key: case- and whitespace-insensitive
// concatenation of keywords and location. Two queries sharing a key share
// retrieved data; the freshness window only filters what counts as fresh.
func (q Query) SearchKey() string {
	return strings.ToLower(strings.TrimSpace(q.Keywords)) + strings.ToLower(strings.TrimSpace(q.Location))
}

// NormalizedLimit rounds Limit down to the source's page granularity with a
// floor of one page.
func (q Query) NormalizedLimit() int {
	return scraper.PageLimit(q.Limit)
}

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
