// Package postgres implements the store contract on PostgreSQL via pgxpool.
//
// Job records live in the jobs table (see schema.sql); the criteria map is
// JSONB and the search-key set is a text[] with union-on-conflict semantics,
// so upserts are idempotent and safe under concurrent searches.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobscout/search-service/internal/model"
	"jobscout/search-service/internal/store"
)

// New constructs a Postgres-backed store.
func New(pool *pgxpool.Pool) store.Store { return &pgStore{pool: pool} }

type pgStore struct{ pool *pgxpool.Pool }

func (s *pgStore) Jobs() store.Jobs   { return &jobs{pool: s.pool} }
func (s *pgStore) Links() store.Links { return &links{pool: s.pool} }

const jobColumns = `job_id, title, company, location, salary_range, criteria,
       benefits, date_posted, num_applicants, description, search_keys,
       status, last_updated`

// ── Jobs ───────────────────────────────────────────────────────────────────

type jobs struct{ pool *pgxpool.Pool }

func (j *jobs) FindFresh(ctx context.Context, searchKey string, cutoff time.Time, field store.FreshnessField, limit int) ([]model.Job, error) {
	// field is one of the two FreshnessField constants, never caller input.
	q := fmt.Sprintf(
		`SELECT %s FROM jobs
		 WHERE $1 = ANY(search_keys) AND %s >= $2
		 ORDER BY last_updated DESC
		 LIMIT $3`, jobColumns, string(field))

	rows, err := j.pool.Query(ctx, q, searchKey, cutoff, limit)
	if err != nil {
		return nil, &store.StoreError{Op: "jobs.find", Err: err}
	}
	defer rows.Close()

	var out []model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, &store.StoreError{Op: "jobs.find", Err: err}
		}
		out = append(out, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.StoreError{Op: "jobs.find", Err: err}
	}
	return out, nil
}

func (j *jobs) Upsert(ctx context.Context, job *model.Job) error {
	var criteria []byte
	if job.Criteria != nil {
		b, err := json.Marshal(job.Criteria)
		if err != nil {
			return &store.StoreError{Op: "jobs.upsert", Err: err}
		}
		criteria = b
	}

	status := job.Status
	if status == "" {
		status = model.StatusNotApplied
	}

	_, err := j.pool.Exec(ctx,
		`INSERT INTO jobs (`+jobColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW())
		 ON CONFLICT (job_id) DO UPDATE SET
		     last_updated   = NOW(),
		     date_posted    = EXCLUDED.date_posted,
		     num_applicants = EXCLUDED.num_applicants,
		     search_keys    = CASE
		         WHEN EXCLUDED.search_keys[1] = ANY (jobs.search_keys) THEN jobs.search_keys
		         ELSE jobs.search_keys || EXCLUDED.search_keys
		     END`,
		job.ID, job.Title, job.Company, job.Location, job.SalaryRange, criteria,
		job.Benefits, job.DatePosted, job.NumApplicants, job.Description,
		job.SearchKeys, string(status),
	)
	if err != nil {
		return &store.StoreError{Op: "jobs.upsert", Err: err}
	}
	return nil
}

func (j *jobs) GetByID(ctx context.Context, jobID int64) (*model.Job, error) {
	row := j.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE job_id = $1`, jobID)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, &store.StoreError{Op: "jobs.get", Err: err}
	}
	return job, nil
}

func (j *jobs) UpdateStatus(ctx context.Context, jobID int64, status model.Status) (*model.Job, error) {
	row := j.pool.QueryRow(ctx,
		`UPDATE jobs SET status = $1, last_updated = NOW()
		 WHERE job_id = $2
		 RETURNING `+jobColumns, string(status), jobID)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, &store.StoreError{Op: "jobs.updateStatus", Err: err}
	}
	return job, nil
}

// scanJob reads one jobs row in jobColumns order.
func scanJob(row pgx.Row) (*model.Job, error) {
	var (
		job      model.Job
		criteria []byte
		status   string
	)
	if err := row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &job.SalaryRange,
		&criteria, &job.Benefits, &job.DatePosted, &job.NumApplicants,
		&job.Description, &job.SearchKeys, &status, &job.LastUpdated,
	); err != nil {
		return nil, err
	}
	if len(criteria) > 0 {
		if err := json.Unmarshal(criteria, &job.Criteria); err != nil {
			return nil, fmt.Errorf("decode criteria for job %d: %w", job.ID, err)
		}
	}
	job.Status = model.Status(status)
	return &job, nil
}

// ── Links ──────────────────────────────────────────────────────────────────

type links struct{ pool *pgxpool.Pool }

func (l *links) Upsert(ctx context.Context, link *model.UserLink) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO user_job_links (id, job_id, user_id, last_updated)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (id) DO UPDATE SET last_updated = NOW()`,
		link.ID, link.JobID, link.UserID,
	)
	if err != nil {
		return &store.StoreError{Op: "links.upsert", Err: err}
	}
	return nil
}
