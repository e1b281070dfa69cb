// Package storetest provides an in-memory Store for unit tests.
package storetest

import (
	"context"
	"sync"
	"time"

	"jobscout/search-service/internal/model"
	"jobscout/search-service/internal/store"
)

// Fake implements store.Store in memory, honoring the same merge policy as
// the real drivers. Hooks let tests inject failures or force find results.
type Fake struct {
	mu sync.Mutex

	JobsByID    map[int64]*model.Job
	LinksByID   map[string]*model.UserLink
	UpsertOrder []int64 // job ids in the order Upsert was called

	// FindResult, when non-nil, is returned from FindFresh verbatim
	// (limit ignored). Used to simulate the over-count anomaly.
	FindResult []model.Job

	FindErr       error
	UpsertErr     error
	LinkUpsertErr error
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		JobsByID:  make(map[int64]*model.Job),
		LinksByID: make(map[string]*model.UserLink),
	}
}

func (f *Fake) Jobs() store.Jobs   { return (*fakeJobs)(f) }
func (f *Fake) Links() store.Links { return (*fakeLinks)(f) }

// Seed inserts a record directly, bypassing the merge policy.
func (f *Fake) Seed(job model.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j := job
	f.JobsByID[j.ID] = &j
}

type fakeJobs Fake

func (f *fakeJobs) FindFresh(_ context.Context, searchKey string, cutoff time.Time, field store.FreshnessField, limit int) ([]model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	if f.FindResult != nil {
		return append([]model.Job(nil), f.FindResult...), nil
	}

	var out []model.Job
	for _, j := range f.JobsByID {
		if !hasKey(j.SearchKeys, searchKey) {
			continue
		}
		ts := j.LastUpdated
		if field == store.FreshnessDatePosted {
			if j.DatePosted == nil {
				continue
			}
			ts = *j.DatePosted
		}
		if ts.Before(cutoff) {
			continue
		}
		out = append(out, *j)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeJobs) Upsert(_ context.Context, job *model.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpsertErr != nil {
		return f.UpsertErr
	}
	f.UpsertOrder = append(f.UpsertOrder, job.ID)

	existing, ok := f.JobsByID[job.ID]
	if !ok {
		j := *job
		if j.Status == "" {
			j.Status = model.StatusNotApplied
		}
		j.LastUpdated = time.Now().UTC()
		f.JobsByID[j.ID] = &j
		return nil
	}

	// Staleness-sensitive fields only; descriptive content is untouched.
	existing.LastUpdated = time.Now().UTC()
	existing.DatePosted = job.DatePosted
	existing.NumApplicants = job.NumApplicants
	for _, k := range job.SearchKeys {
		if !hasKey(existing.SearchKeys, k) {
			existing.SearchKeys = append(existing.SearchKeys, k)
		}
	}
	return nil
}

func (f *fakeJobs) GetByID(_ context.Context, jobID int64) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.JobsByID[jobID]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *j
	return &out, nil
}

func (f *fakeJobs) UpdateStatus(_ context.Context, jobID int64, status model.Status) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.JobsByID[jobID]
	if !ok {
		return nil, store.ErrNotFound
	}
	j.Status = status
	j.LastUpdated = time.Now().UTC()
	out := *j
	return &out, nil
}

type fakeLinks Fake

func (f *fakeLinks) Upsert(_ context.Context, link *model.UserLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LinkUpsertErr != nil {
		return f.LinkUpsertErr
	}
	if existing, ok := f.LinksByID[link.ID]; ok {
		existing.LastUpdated = time.Now().UTC()
		return nil
	}
	l := *link
	l.LastUpdated = time.Now().UTC()
	f.LinksByID[l.ID] = &l
	return nil
}

func hasKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
