// jobscout-search-service
//
// Serves job search queries by combining the persistent store with live
// scraping of the external source: the orchestrator decides how much to
// serve from storage, scrapes the shortfall, reconciles records through
// idempotent upserts, and links returned jobs to the requesting user.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"jobscout/search-service/internal/api"
	"jobscout/search-service/internal/config"
	"jobscout/search-service/internal/db"
	"jobscout/search-service/internal/events"
	"jobscout/search-service/internal/links"
	"jobscout/search-service/internal/logger"
	"jobscout/search-service/internal/scraper"
	"jobscout/search-service/internal/search"
	"jobscout/search-service/internal/store"
	pgstore "jobscout/search-service/internal/store/postgres"
)

func main() {
	log := logger.New("search-service")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	freshness, err := store.ParseFreshnessField(cfg.FreshnessField)
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ──────────────────────────────────────────────────────────
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()
	log.Info().Msg("postgres connected")

	// ── Redis (optional, discovery events only) ─────────────────────────────
	var publisher events.Publisher = events.Noop{}
	if cfg.RedisURL != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer rdb.Close()
		publisher = events.NewRedis(rdb, log)
		log.Info().Msg("redis connected")
	}

	// ── Wiring ──────────────────────────────────────────────────────────────
	st := pgstore.New(pool)
	listingFetcher := scraper.NewListingFetcher(cfg.ListingBaseURL, log)
	detailFetcher := scraper.NewDetailFetcher(cfg.DetailBaseURL, log)

	svc := search.New(st, listingFetcher, detailFetcher, publisher, search.Config{
		Freshness:         freshness,
		DetailConcurrency: cfg.DetailConcurrency,
	}, log)
	recorder := links.NewRecorder(st.Links(), log)

	router := mux.NewRouter()
	api.NewHandler(svc, st.Jobs(), recorder, log).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // a cold search waits on live scraping
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	// ── Graceful shutdown ───────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("stopped")
}
