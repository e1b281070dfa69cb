// Package search implements the search orchestrator: it decides whether a
// query can be served from the store, how much to scrape live, how the live
// retrieval is paginated, and how fresh records are reconciled with stored
// ones.
package search

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jobscout/search-service/internal/events"
	"jobscout/search-service/internal/model"
	"jobscout/search-service/internal/scraper"
	"jobscout/search-service/internal/store"
)

// ListingSource retrieves paginated job summaries for a query.
type ListingSource interface {
	FetchSummaries(ctx context.Context, keywords, location string, maxDays, start, limit int) ([]model.JobSummary, error)
}

// DetailSource retrieves the full record for one job identifier.
type DetailSource interface {
	FetchDetail(ctx context.Context, jobID int64) (model.JobDetail, error)
}

// Config tunes the orchestrator.
type Config struct {
	// Freshness selects which stored timestamp counts toward the window.
	Freshness store.FreshnessField
	// DetailConcurrency bounds concurrent detail fetches for one batch.
	DetailConcurrency int
}

const defaultDetailConcurrency = 6

// Service coordinates store reads, live scraping and upserts for one search
// call at a time. All collaborators are injected.
type Service struct {
	store    store.Store
	listings ListingSource
	details  DetailSource
	events   events.Publisher
	cfg      Config
	log      zerolog.Logger
}

// New constructs a Service.
func New(st store.Store, listings ListingSource, details DetailSource, pub events.Publisher, cfg Config, log zerolog.Logger) *Service {
	if cfg.Freshness == "" {
		cfg.Freshness = store.FreshnessLastUpdated
	}
	if cfg.DetailConcurrency <= 0 {
		cfg.DetailConcurrency = defaultDetailConcurrency
	}
	if pub == nil {
		pub = events.Noop{}
	}
	return &Service{
		store:    st,
		listings: listings,
		details:  details,
		events:   pub,
		cfg:      cfg,
		log:      log.With().Str("component", "search").Logger(),
	}
}

// Search serves a query from the store, topping it up with live scraping
// when the store lacks enough fresh records. The result is capped at the
// normalized limit, except for the documented over-count anomaly, which is
// surfaced rather than clamped.
func (s *Service) Search(ctx context.Context, q Query) ([]model.Job, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	limit := q.NormalizedLimit()
	key := q.SearchKey()
	cutoff := time.Now().UTC().AddDate(0, 0, -q.MaxDaysSincePosted)

	stored, err := s.store.Jobs().FindFresh(ctx, key, cutoff, s.cfg.Freshness, limit)
	if err != nil {
		// A store failure must not masquerade as an empty result.
		return nil, err
	}

	n := len(stored)
	switch {
	case n == limit:
		s.log.Debug().Str("searchKey", key).Int("count", n).Msg("served fully from store")
		return stored, nil

	case n > limit:
		// Integrity warning: the store returned more than requested.
		// Surfacing the anomaly is preferred to silently truncating it.
		s.log.Warn().Str("searchKey", key).Int("limit", limit).Int("returned", n).
			Msg("integrity warning: store returned more records than requested")
		return stored, nil

	case n > 0:
		// Partial fulfillment: scrape only what is missing, starting past
		// the pages the stored records already represent.
		remaining := limit - n
		offset := n - n%scraper.PageSize
		s.log.Info().Str("searchKey", key).Int("stored", n).Int("remaining", remaining).
			Int("offset", offset).Msg("partial fulfillment from store")

		scraped, err := s.scrape(ctx, q, key, offset, remaining)
		if err != nil {
			// Per-item upserts already committed stay committed; they are
			// idempotent, so the caller can simply retry.
			return nil, err
		}
		merged := append(stored, scraped...)
		if len(merged) > limit {
			merged = merged[:limit]
		}
		return merged, nil

	default:
		s.log.Info().Str("searchKey", key).Int("limit", limit).Msg("store empty for query, scraping")
		return s.scrape(ctx, q, key, 0, limit)
	}
}

// GetByID returns one stored record.
func (s *Service) GetByID(ctx context.Context, jobID int64) (*model.Job, error) {
	return s.store.Jobs().GetByID(ctx, jobID)
}

// scrape runs one listing-fetch cycle of up to `want` records at the given
// page offset, resolves each summary to a full record, and upserts records
// in listing order before returning them.
func (s *Service) scrape(ctx context.Context, q Query, searchKey string, offset, want int) ([]model.Job, error) {
	summaries, err := s.listings.FetchSummaries(ctx, q.Keywords, q.Location, q.MaxDaysSincePosted, offset, want)
	if err != nil {
		var rerr *scraper.RetrievalError
		if errors.As(err, &rerr) && len(rerr.Partial) > 0 {
			s.log.Warn().Str("searchKey", searchKey).Int("partial", len(rerr.Partial)).
				Msg("listing fetch failed after partial pages")
		}
		return nil, err
	}
	if len(summaries) > want {
		summaries = summaries[:want]
	}

	details := s.fetchDetails(ctx, summaries)

	// Upsert order follows listing order, never completion order, so two
	// runs over the same listing produce the same store mutation sequence.
	jobs := make([]model.Job, 0, len(summaries))
	for i, sum := range summaries {
		if details[i] == nil {
			continue // item omitted, already logged
		}
		job := buildJob(sum, *details[i], searchKey)
		if err := s.store.Jobs().Upsert(ctx, &job); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	s.events.JobsDiscovered(ctx, searchKey, len(jobs))
	return jobs, nil
}

// fetchDetails resolves summaries to details with a bounded worker pool.
// The returned slice is aligned with the input; a nil entry marks an item
// whose fetch failed and was omitted.
func (s *Service) fetchDetails(ctx context.Context, summaries []model.JobSummary) []*model.JobDetail {
	details := make([]*model.JobDetail, len(summaries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.DetailConcurrency)
	for i, sum := range summaries {
		i, sum := i, sum
		g.Go(func() error {
			d, err := s.details.FetchDetail(gctx, sum.ID)
			if err != nil {
				// One item's failure never aborts its siblings.
				s.log.Warn().Int64("jobId", sum.ID).Err(err).Msg("detail fetch failed, item omitted")
				return nil
			}
			details[i] = &d
			return nil
		})
	}
	_ = g.Wait()
	return details
}

// buildJob combines a listing summary and a detail mapping into the
// canonical record. Benefits and the posting date come from the listing;
// everything else comes from the detail page.
func buildJob(sum model.JobSummary, d model.JobDetail, searchKey string) model.Job {
	return model.Job{
		ID:            sum.ID,
		Title:         optional(d.Title),
		Company:       optional(d.Company),
		Location:      optional(d.Location),
		SalaryRange:   optional(d.SalaryRange),
		Criteria:      d.Criteria,
		Benefits:      optional(sum.Benefits),
		DatePosted:    parsePostingDate(sum.RawDatePosted),
		NumApplicants: optional(d.NumApplicants),
		Description:   optional(d.Description),
		SearchKeys:    []string{searchKey},
		Status:        model.StatusNotApplied,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parsePostingDate reads the date badge's datetime attribute. An absent or
// malformed value yields nil, never an error.
func parsePostingDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
