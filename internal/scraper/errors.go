// Package scraper implements job listing retrieval and HTML extraction.
package scraper

import (
	"fmt"

	"jobscout/search-service/internal/model"
)

// RetrievalError reports a failed network exchange with the external source:
// a response status outside the 2xx range, or a transport failure such as a
// timeout. It is scoped to the failing page or item.
type RetrievalError struct {
	URL        string
	StatusCode int    // zero when the request never completed
	Body       string // response body, for diagnostics
	Err        error  // transport error, when StatusCode is zero

	// Partial holds summaries accumulated before the failing page, so a
	// caller can log what was lost without re-fetching.
	Partial []model.JobSummary
}

func (e *RetrievalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request %s returned %d: %s", e.URL, e.StatusCode, e.Body)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// ParseError marks a listing item whose mandatory identifier could not be
// extracted. The item is dropped; the page is not.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return "listing item dropped: " + e.Reason }
