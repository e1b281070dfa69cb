// Package api implements the HTTP surface of the search service.
//
// All job routes are mounted under /api/jobs. The gateway forwards the
// caller's identity in the x-user-id header; search results are linked to
// that user when the header is present.
//
// Routes:
//
//	GET  /health                → liveness probe
//	GET  /api/jobs/search       → search jobs (store + live scrape)
//	GET  /api/jobs/{id}         → fetch one stored job
//	POST /api/jobs/{id}/status  → move a job to a new application status
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"jobscout/search-service/internal/links"
	"jobscout/search-service/internal/model"
	"jobscout/search-service/internal/scraper"
	"jobscout/search-service/internal/search"
	"jobscout/search-service/internal/store"
)

// SearchService is the orchestrator surface the handler needs.
type SearchService interface {
	Search(ctx context.Context, q search.Query) ([]model.Job, error)
	GetByID(ctx context.Context, jobID int64) (*model.Job, error)
}

// Handler holds shared dependencies.
type Handler struct {
	svc      SearchService
	jobs     store.Jobs
	recorder *links.Recorder
	log      zerolog.Logger
}

// NewHandler returns a configured Handler.
func NewHandler(svc SearchService, jobs store.Jobs, recorder *links.Recorder, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, jobs: jobs, recorder: recorder, log: log.With().Str("component", "api").Logger()}
}

// RegisterRoutes mounts all routes on r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/search", h.searchJobs).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/{id:[0-9]+}", h.getJob).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/{id:[0-9]+}/status", h.updateStatus).Methods(http.MethodPost)
}

// jobResponse decorates a record with its public posting URL.
type jobResponse struct {
	model.Job
	JobLink string `json:"jobLink"`
}

func toResponse(jobs []model.Job) []jobResponse {
	out := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, jobResponse{Job: j, JobLink: j.Link()})
	}
	return out
}

// ── Handlers ───────────────────────────────────────────────────────────────

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	jsonOK(w, map[string]string{"status": "ok", "service": "search-service"})
}

func (h *Handler) searchJobs(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	jobs, err := h.svc.Search(r.Context(), q)
	if err != nil {
		h.writeSearchError(w, err)
		return
	}

	if userID := r.Header.Get("x-user-id"); userID != "" {
		h.recorder.RecordAll(r.Context(), jobs, userID)
	}

	jsonOK(w, toResponse(jobs))
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	jobID, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	job, err := h.svc.GetByID(r.Context(), jobID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Int64("jobId", jobID).Err(err).Msg("get job failed")
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, jobResponse{Job: *job, JobLink: job.Link()})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	jobID, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		jsonError(w, "body must contain status", http.StatusBadRequest)
		return
	}

	newStatus, err := model.ParseStatus(body.Status)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	current, err := h.jobs.GetByID(r.Context(), jobID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Int64("jobId", jobID).Err(err).Msg("load job for status update failed")
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	if !model.IsTransitionAllowed(current.Status, newStatus) {
		jsonError(w, fmt.Sprintf("transition %s → %s is not allowed", current.Status, newStatus), http.StatusBadRequest)
		return
	}

	updated, err := h.jobs.UpdateStatus(r.Context(), jobID, newStatus)
	if err != nil {
		h.log.Error().Int64("jobId", jobID).Err(err).Msg("status update failed")
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, jobResponse{Job: *updated, JobLink: updated.Link()})
}

// ── Request parsing ────────────────────────────────────────────────────────

// queryFromRequest reads the search parameters, applying the original
// defaults: one day of freshness, ten results.
func queryFromRequest(r *http.Request) (search.Query, error) {
	q := search.Query{
		Keywords:           r.URL.Query().Get("keywords"),
		Location:           r.URL.Query().Get("location"),
		MaxDaysSincePosted: 1,
		Limit:              10,
	}

	if raw := r.URL.Query().Get("max_days_since_posted"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("max_days_since_posted must be an integer, got %q", raw)
		}
		q.MaxDaysSincePosted = v
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("limit must be an integer, got %q", raw)
		}
		q.Limit = v
	}
	return q, nil
}

// writeSearchError maps orchestrator failures onto HTTP statuses.
func (h *Handler) writeSearchError(w http.ResponseWriter, err error) {
	var verr *search.ValidationError
	if errors.As(err, &verr) {
		jsonError(w, verr.Msg, http.StatusBadRequest)
		return
	}

	var rerr *scraper.RetrievalError
	if errors.As(err, &rerr) {
		h.log.Error().Err(err).Msg("upstream retrieval failed")
		jsonError(w, "upstream source unavailable", http.StatusBadGateway)
		return
	}

	h.log.Error().Err(err).Msg("search failed")
	jsonError(w, "search failed", http.StatusInternalServerError)
}

// ── Helpers ────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
