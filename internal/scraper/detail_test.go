package scraper_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"jobscout/search-service/internal/scraper"
)

func TestFetchDetail_ParsesPage(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		fmt.Fprint(w, `<html><body>
		  <h2 class="top-card-layout__title">Platform Engineer</h2>
		  <a class="topcard__org-name-link topcard__flavor--black-link">Globex</a>
		  <div class="salary compensation__salary">$120k</div>
		</body></html>`)
	}))
	defer srv.Close()

	f := scraper.NewDetailFetcher(srv.URL, zerolog.Nop())
	d, err := f.FetchDetail(context.Background(), 314159)
	if err != nil {
		t.Fatalf("FetchDetail: %v", err)
	}

	if path != "/314159" {
		t.Errorf("request path = %q, want /314159", path)
	}
	if d.ID != 314159 {
		t.Errorf("ID = %d, want 314159", d.ID)
	}
	if d.Title != "Platform Engineer" || d.Company != "Globex" || d.SalaryRange != "$120k" {
		t.Errorf("parsed detail = %+v", d)
	}
}

func TestFetchDetail_BadStatusIsRetrievalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "gone")
	}))
	defer srv.Close()

	f := scraper.NewDetailFetcher(srv.URL, zerolog.Nop())
	_, err := f.FetchDetail(context.Background(), 99)
	if err == nil {
		t.Fatal("expected error for 404")
	}

	var rerr *scraper.RetrievalError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RetrievalError, got %T", err)
	}
	if rerr.StatusCode != http.StatusNotFound || rerr.Body != "gone" {
		t.Errorf("RetrievalError = %+v", rerr)
	}
}

func TestFetchDetail_TransportFailureIsRetrievalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	f := scraper.NewDetailFetcher(srv.URL, zerolog.Nop())
	_, err := f.FetchDetail(context.Background(), 1)

	var rerr *scraper.RetrievalError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RetrievalError for transport failure, got %T: %v", err, err)
	}
	if rerr.StatusCode != 0 || rerr.Err == nil {
		t.Errorf("RetrievalError = %+v, want transport error with no status", rerr)
	}
}
