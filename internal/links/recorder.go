// Package links records which jobs a user's searches have surfaced.
package links

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"jobscout/search-service/internal/model"
	"jobscout/search-service/internal/store"
)

// linkNamespace seeds name-based link ids. Fixed forever: changing it would
// re-key every existing link.
var linkNamespace = uuid.MustParse("5ba3f9de-91f0-4f4b-bd22-9e4c40dca611")

// LinkID derives the deterministic identifier for a (job, user) pair. The id
// is a pure function of the pair, so re-linking upserts the same row and
// concurrent calls converge without a duplicate-detection read.
func LinkID(jobID int64, userID string) string {
	return uuid.NewSHA1(linkNamespace, []byte(fmt.Sprintf("%d:%s", jobID, userID))).String()
}

// Recorder upserts UserLinks. It is the sole writer of that collection and
// never deletes.
type Recorder struct {
	links store.Links
	log   zerolog.Logger
}

// NewRecorder constructs a Recorder.
func NewRecorder(links store.Links, log zerolog.Logger) *Recorder {
	return &Recorder{links: links, log: log.With().Str("component", "links").Logger()}
}

// Record upserts the link for one (job, user) pair, bumping its last-updated
// timestamp on rediscovery.
func (r *Recorder) Record(ctx context.Context, jobID int64, userID string) error {
	link := &model.UserLink{
		ID:     LinkID(jobID, userID),
		JobID:  jobID,
		UserID: userID,
	}
	return r.links.Upsert(ctx, link)
}

// RecordAll links every returned job to the user. Failures are logged and
// never fail the search that produced the jobs.
func (r *Recorder) RecordAll(ctx context.Context, jobs []model.Job, userID string) {
	for _, job := range jobs {
		if err := r.Record(ctx, job.ID, userID); err != nil {
			r.log.Warn().Int64("jobId", job.ID).Str("userId", userID).Err(err).
				Msg("recording user link failed")
		}
	}
}
