// Package scheduler wires up the cron jobs that keep the search service
// tidy: idle-session eviction and the upstream health probe.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"jobmate/search-service/internal/feed"
	"jobmate/search-service/internal/model"
)

const probeTimeout = 10 * time.Second

// Sweeper evicts idle sessions.
type Sweeper interface {
	Sweep(maxIdle time.Duration) int
}

// HealthReporter receives the outcome of each upstream probe.
type HealthReporter interface {
	SetUpstreamHealthy(ok bool)
}

// Scheduler wraps robfig/cron.
type Scheduler struct {
	cron     *cron.Cron
	sessions Sweeper
	idleTTL  time.Duration
	fetcher  feed.Fetcher
	health   HealthReporter

	sweepSpec string // e.g. "@every 5m"
	probeSpec string
}

// New creates a Scheduler. health may be nil, in which case no probe job is
// registered.
func New(sessions Sweeper, idleTTL time.Duration, sweepSpec string, fetcher feed.Fetcher, health HealthReporter, probeSpec string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cron.DefaultLogger)),
		sessions:  sessions,
		idleTTL:   idleTTL,
		fetcher:   fetcher,
		health:    health,
		sweepSpec: sweepSpec,
		probeSpec: probeSpec,
	}
}

// Start registers the jobs and starts the scheduler. The probe also runs
// once immediately so health is known without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.sweepSpec, s.SweepOnce); err != nil {
		return fmt.Errorf("cron.AddFunc(sweep): %w", err)
	}

	if s.health != nil {
		if _, err := s.cron.AddFunc(s.probeSpec, func() { s.ProbeOnce(ctx) }); err != nil {
			return fmt.Errorf("cron.AddFunc(probe): %w", err)
		}
		go s.ProbeOnce(ctx)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started (sweep: %s, probe: %s)", s.sweepSpec, s.probeSpec)
	return nil
}

// Stop gracefully shuts down the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Cron stopped")
}

// SweepOnce evicts sessions idle for longer than the configured TTL.
func (s *Scheduler) SweepOnce() {
	if n := s.sessions.Sweep(s.idleTTL); n > 0 {
		log.Printf("[scheduler] Evicted %d idle session(s)", n)
	}
}

// ProbeOnce requests a one-record page and reports whether it succeeded.
func (s *Scheduler) ProbeOnce(ctx context.Context) {
	if s.health == nil {
		return
	}
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := s.fetcher.FetchPage(probeCtx, model.PageRequest{Limit: 1, Offset: 0})
	if err != nil {
		log.Printf("[scheduler] Upstream probe failed: %v", err)
	}
	s.health.SetUpstreamHealthy(err == nil)
}
