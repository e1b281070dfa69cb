package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/search-service/internal/api"
	"jobscout/search-service/internal/links"
	"jobscout/search-service/internal/model"
	"jobscout/search-service/internal/scraper"
	"jobscout/search-service/internal/search"
	"jobscout/search-service/internal/store"
	"jobscout/search-service/internal/store/storetest"
)

// stubSearch lets tests script the orchestrator.
type stubSearch struct {
	jobs    []model.Job
	err     error
	lastQ   search.Query
	byID    map[int64]*model.Job
	byIDErr error
}

func (s *stubSearch) Search(_ context.Context, q search.Query) ([]model.Job, error) {
	s.lastQ = q
	return s.jobs, s.err
}

func (s *stubSearch) GetByID(_ context.Context, jobID int64) (*model.Job, error) {
	if s.byIDErr != nil {
		return nil, s.byIDErr
	}
	if j, ok := s.byID[jobID]; ok {
		return j, nil
	}
	return nil, store.ErrNotFound
}

func newRouter(svc api.SearchService, fake *storetest.Fake) *mux.Router {
	r := mux.NewRouter()
	recorder := links.NewRecorder(fake.Links(), zerolog.Nop())
	api.NewHandler(svc, fake.Jobs(), recorder, zerolog.Nop()).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, router *mux.Router, method, target, body string, header map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reqBody *strings.Reader
	if body == "" {
		reqBody = strings.NewReader("")
	} else {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reqBody)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Body.String(), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestSearchEndpoint_OK(t *testing.T) {
	title := "Go Engineer"
	svc := &stubSearch{jobs: []model.Job{{ID: 101, Title: &title, Status: model.StatusNotApplied}}}
	router := newRouter(svc, storetest.New())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/jobs/search?keywords=go&location=remote&limit=30&max_days_since_posted=14", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, search.Query{Keywords: "go", Location: "remote", MaxDaysSincePosted: 14, Limit: 30}, svc.lastQ)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/101", body[0]["jobLink"])
}

func TestSearchEndpoint_Defaults(t *testing.T) {
	svc := &stubSearch{}
	router := newRouter(svc, storetest.New())

	rec, _ := doJSON(t, router, http.MethodGet, "/api/jobs/search", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.lastQ.MaxDaysSincePosted)
	assert.Equal(t, 10, svc.lastQ.Limit)
}

func TestSearchEndpoint_MalformedParam(t *testing.T) {
	router := newRouter(&stubSearch{}, storetest.New())
	rec, body := doJSON(t, router, http.MethodGet, "/api/jobs/search?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "limit")
}

func TestSearchEndpoint_ValidationErrorMapsTo400(t *testing.T) {
	svc := &stubSearch{err: &search.ValidationError{Msg: "limit must be between 1 and 100, got 0"}}
	router := newRouter(svc, storetest.New())

	rec, body := doJSON(t, router, http.MethodGet, "/api/jobs/search?limit=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "limit")
}

func TestSearchEndpoint_RetrievalErrorMapsTo502(t *testing.T) {
	svc := &stubSearch{err: &scraper.RetrievalError{URL: "x", StatusCode: 429, Body: "slow down"}}
	router := newRouter(svc, storetest.New())

	rec, _ := doJSON(t, router, http.MethodGet, "/api/jobs/search", "", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSearchEndpoint_RecordsLinksForCaller(t *testing.T) {
	svc := &stubSearch{jobs: []model.Job{{ID: 1}, {ID: 2}}}
	fake := storetest.New()
	router := newRouter(svc, fake)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/jobs/search", "", map[string]string{"x-user-id": "user-7"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, fake.LinksByID, 2)
}

func TestSearchEndpoint_NoUserHeaderNoLinks(t *testing.T) {
	svc := &stubSearch{jobs: []model.Job{{ID: 1}}}
	fake := storetest.New()
	router := newRouter(svc, fake)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/jobs/search", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, fake.LinksByID)
}

func TestGetJob_NotFound(t *testing.T) {
	router := newRouter(&stubSearch{}, storetest.New())
	rec, _ := doJSON(t, router, http.MethodGet, "/api/jobs/404", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJob_OK(t *testing.T) {
	title := "Stored Job"
	svc := &stubSearch{byID: map[int64]*model.Job{7: {ID: 7, Title: &title}}}
	router := newRouter(svc, storetest.New())

	rec, body := doJSON(t, router, http.MethodGet, "/api/jobs/7", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Stored Job", body["title"])
	assert.Equal(t, "https://www.linkedin.com/jobs/view/7", body["jobLink"])
}

// ── Status updates ─────────────────────────────────────────────────────────

func seedJob(fake *storetest.Fake, id int64, status model.Status) {
	fake.Seed(model.Job{ID: id, SearchKeys: []string{"k"}, Status: status})
}

func TestUpdateStatus_AllowedTransition(t *testing.T) {
	fake := storetest.New()
	seedJob(fake, 1, model.StatusNotApplied)
	router := newRouter(&stubSearch{}, fake)

	rec, body := doJSON(t, router, http.MethodPost, "/api/jobs/1/status", `{"status":"Applied"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Applied", body["status"])

	stored, err := fake.Jobs().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApplied, stored.Status)
}

func TestUpdateStatus_ForbiddenTransition(t *testing.T) {
	fake := storetest.New()
	seedJob(fake, 1, model.StatusNotApplied)
	router := newRouter(&stubSearch{}, fake)

	rec, body := doJSON(t, router, http.MethodPost, "/api/jobs/1/status", `{"status":"Offer"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "not allowed")
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	fake := storetest.New()
	seedJob(fake, 1, model.StatusNotApplied)
	router := newRouter(&stubSearch{}, fake)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/jobs/1/status", `{"status":"HIRED"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus_MissingJob(t *testing.T) {
	router := newRouter(&stubSearch{}, storetest.New())
	rec, _ := doJSON(t, router, http.MethodPost, "/api/jobs/99/status", `{"status":"Applied"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatus_EmptyBody(t *testing.T) {
	fake := storetest.New()
	seedJob(fake, 1, model.StatusNotApplied)
	router := newRouter(&stubSearch{}, fake)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/jobs/1/status", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
