package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"jobscout/search-service/internal/model"
)

const defaultDetailURL = "https://www.linkedin.com/jobs-guest/jobs/api/jobPosting"

// DetailFetcher retrieves the full record for a single job identifier.
type DetailFetcher struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewDetailFetcher constructs a fetcher. An empty baseURL selects the
// public guest endpoint.
func NewDetailFetcher(baseURL string, log zerolog.Logger) *DetailFetcher {
	if baseURL == "" {
		baseURL = defaultDetailURL
	}
	return &DetailFetcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: httpTimeout},
		log:     log.With().Str("component", "detail-fetcher").Logger(),
	}
}

// FetchDetail retrieves and extracts one job detail page. Failures are
// RetrievalErrors scoped to this identifier only.
func (f *DetailFetcher) FetchDetail(ctx context.Context, jobID int64) (model.JobDetail, error) {
	reqURL := fmt.Sprintf("%s/%d", f.baseURL, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.JobDetail{}, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return model.JobDetail{}, &RetrievalError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return model.JobDetail{}, &RetrievalError{URL: reqURL, StatusCode: resp.StatusCode, Body: string(body)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return model.JobDetail{}, fmt.Errorf("parse detail html for job %d: %w", jobID, err)
	}

	detail := parseDetail(doc)
	detail.ID = jobID
	return detail, nil
}
