// jobmate-search-service
//
// Paginated job-listing search. Each client session accumulates pages from
// the upstream listing API as its trailing card scrolls into view, and
// narrows what is shown with five independent filter criteria:
//   - company name      (case-insensitive substring)
//   - roles, locations  (multi-select)
//   - experience        (within the listing's range)
//   - minimum base pay  (against the listing's upper salary bound)
//
// Optional pieces, enabled by configuration:
//   - REDIS_URL     caches upstream pages for PAGE_CACHE_TTL
//   - DATABASE_URL  serves a local listing catalog with the upstream contract
//
// gRPC carries the standard health protocol; the upstream status is kept
// current by a cron probe.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"jobmate/search-service/internal/api"
	"jobmate/search-service/internal/catalog"
	"jobmate/search-service/internal/config"
	"jobmate/search-service/internal/db"
	"jobmate/search-service/internal/feed"
	"jobmate/search-service/internal/grpcserver"
	"jobmate/search-service/internal/scheduler"
	"jobmate/search-service/internal/session"
	"jobmate/search-service/internal/upstream"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[search-service] Config error: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	options, err := config.LoadFilterOptions(cfg.FilterOptionsPath)
	if err != nil {
		log.Fatalf("[search-service] Filter options: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// ── PostgreSQL (optional catalog) ────────────────────────────────────────
	if cfg.DatabaseURL != "" {
		log.Println("[search-service] Connecting to PostgreSQL…")
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[search-service] PostgreSQL: %v", err)
		}
		defer pool.Close()

		store, err := catalog.NewPGStore(ctx, pool)
		if err != nil {
			log.Fatalf("[search-service] Catalog schema: %v", err)
		}
		catalog.NewHandler(store).RegisterRoutes(router)
		log.Println("[search-service] PostgreSQL connected ✓ (catalog enabled)")
	}

	// ── Redis (optional page cache) ──────────────────────────────────────────
	var cache upstream.PageCache
	if cfg.RedisURL != "" {
		log.Println("[search-service] Connecting to Redis…")
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[search-service] Redis: %v", err)
		}
		defer rdb.Close()
		cache = upstream.NewRedisPageCache(rdb)
		log.Println("[search-service] Redis connected ✓ (page cache enabled)")
	}

	// ── Upstream fetchers ────────────────────────────────────────────────────
	raw := upstream.NewHTTPFetcher(cfg.UpstreamURL, cfg.HTTPTimeout)
	sessionFetcher, probeFetcher := fetchers(raw, cache, cfg.PageCacheTTL)

	sessions := session.NewRegistry(sessionFetcher, cfg.PageSize, nil)

	// ── gRPC health ──────────────────────────────────────────────────────────
	grpcSrv := grpcserver.NewServer()
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatalf("[search-service] gRPC listen: %v", err)
	}
	go func() {
		log.Printf("[search-service] gRPC listening on :%s", cfg.GRPCPort)
		if err := grpcSrv.Serve(lis); err != nil {
			log.Printf("[search-service] gRPC server error: %v", err)
		}
	}()

	// ── Scheduler ────────────────────────────────────────────────────────────
	sched := scheduler.New(sessions, cfg.SessionIdleTTL, cfg.SessionSweepSpec, probeFetcher, grpcSrv, cfg.ProbeSpec)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[search-service] Scheduler: %v", err)
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	api.NewHandler(sessions, options, version).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 10*time.Second,
	}

	go func() {
		log.Printf("[search-service] v%s listening on :%s (upstream %s)", version, cfg.Port, cfg.UpstreamURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[search-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[search-service] Shutting down…")
	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[search-service] Shutdown error: %v", err)
	}
	grpcSrv.Shutdown()
	log.Println("[search-service] Stopped.")
}

// fetchers returns the fetcher sessions page through and the one the health
// probe uses. Only sessions go through the page cache; a cached probe answer
// would hide an upstream outage.
func fetchers(raw feed.Fetcher, cache upstream.PageCache, ttl time.Duration) (sessions, probe feed.Fetcher) {
	if cache == nil {
		return raw, raw
	}
	return upstream.NewCachedFetcher(raw, cache, ttl), raw
}
