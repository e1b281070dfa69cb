package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"jobscout/search-service/internal/model"
)

const (
	// The listing endpoint serves pages of exactly ten items.
	PageSize = 10

	defaultListingURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"
	httpTimeout       = 15 * time.Second
)

// ListingFetcher retrieves paginated job summaries for a query. It owns
// pagination only; content extraction lives in the pipeline above.
type ListingFetcher struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewListingFetcher constructs a fetcher. An empty baseURL selects the
// public guest endpoint.
func NewListingFetcher(baseURL string, log zerolog.Logger) *ListingFetcher {
	if baseURL == "" {
		baseURL = defaultListingURL
	}
	return &ListingFetcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: httpTimeout},
		log:     log.With().Str("component", "listing-fetcher").Logger(),
	}
}

// PageLimit rounds limit down to the page granularity of the source, with a
// floor of one page (23 → 20, 3 → 10).
func PageLimit(limit int) int {
	n := limit - limit%PageSize
	if n < PageSize {
		n = PageSize
	}
	return n
}

// FetchSummaries requests pages of ten items at increasing offsets starting
// at start, until the accumulated count reaches PageLimit(limit) or a page
// comes back empty (end of available results — normal termination). A page
// with a non-2xx status fails the whole call with a RetrievalError carrying
// the summaries fetched so far.
//
// The freshness window is forwarded to the source as a recency token of
// maxDays×86400 seconds; the precise cutoff is still enforced by the caller
// against stored data.
func (f *ListingFetcher) FetchSummaries(ctx context.Context, keywords, location string, maxDays, start, limit int) ([]model.JobSummary, error) {
	want := PageLimit(limit)

	var summaries []model.JobSummary
	for len(summaries) < want {
		page, n, err := f.fetchPage(ctx, keywords, location, maxDays, start)
		if err != nil {
			if rerr, ok := err.(*RetrievalError); ok {
				rerr.Partial = summaries
			}
			return nil, fmt.Errorf("listing page at offset %d: %w", start, err)
		}
		if n == 0 {
			break // source exhausted
		}
		summaries = append(summaries, page...)
		start += PageSize
	}

	return summaries, nil
}

// fetchPage retrieves and extracts one listing page. It returns the parsed
// summaries along with the raw item count, so the caller can tell an empty
// page from a page whose items were all dropped.
func (f *ListingFetcher) fetchPage(ctx context.Context, keywords, location string, maxDays, start int) ([]model.JobSummary, int, error) {
	params := url.Values{}
	params.Set("keywords", keywords)
	params.Set("location", location)
	params.Set("f_TPR", fmt.Sprintf("r%d", maxDays*86400))
	params.Set("start", strconv.Itoa(start))

	reqURL := f.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, &RetrievalError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, 0, &RetrievalError{URL: reqURL, StatusCode: resp.StatusCode, Body: string(body)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("parse listing html: %w", err)
	}

	items := doc.Find("li").Length()
	summaries, dropped := parseListing(doc)
	for _, derr := range dropped {
		f.log.Warn().Int("offset", start).Err(derr).Msg("listing item dropped")
	}

	return summaries, items, nil
}
