// Package scheduler runs the periodic background work: scheduled health
// checks, vitals sampling and history retention cleanup.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tiarrablandin/grimoire-status/internal/checker"
	"github.com/tiarrablandin/grimoire-status/internal/config"
	"github.com/tiarrablandin/grimoire-status/internal/database"
	"github.com/tiarrablandin/grimoire-status/internal/status"
	"github.com/tiarrablandin/grimoire-status/internal/vitals"
)

const vitalsInterval = time.Minute

// Scheduler owns the cron runner. Scheduled checks flow through the same
// generation guard as manual ones, so a slow scheduled check can never
// overwrite the result of a newer manual re-check.
type Scheduler struct {
	cfg     *config.Config
	checker *checker.Checker
	tracker *status.Tracker
	targets []checker.Target

	// onApplied is invoked for every check result that survived the
	// generation guard. Used by the server to push SSE updates.
	onApplied func(checker.Result)

	// onVitals is invoked for every collected vitals sample.
	onVitals func(vitals.Sample)

	cron   *cron.Cron
	seedWg sync.WaitGroup
}

// New creates a scheduler for the primary backend plus any extra targets.
// Either callback may be nil.
func New(cfg *config.Config, chk *checker.Checker, tracker *status.Tracker, extra []checker.Target, onApplied func(checker.Result), onVitals func(vitals.Sample)) *Scheduler {
	targets := []checker.Target{{Name: "backend", URL: cfg.HealthURL()}}
	targets = append(targets, extra...)

	return &Scheduler{
		cfg:       cfg,
		checker:   chk,
		tracker:   tracker,
		targets:   targets,
		onApplied: onApplied,
		onVitals:  onVitals,
		cron:      cron.New(),
	}
}

// Start registers the cron entries and starts the runner.
func (s *Scheduler) Start() error {
	if s.cfg.CheckInterval > 0 {
		spec := fmt.Sprintf("@every %s", s.cfg.CheckInterval)
		if _, err := s.cron.AddFunc(spec, s.runChecks); err != nil {
			return fmt.Errorf("failed to schedule health checks: %w", err)
		}
	}

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", vitalsInterval), s.sampleVitals); err != nil {
		return fmt.Errorf("failed to schedule vitals sampling: %w", err)
	}

	if _, err := s.cron.AddFunc("0 3 * * *", s.cleanupHistory); err != nil {
		return fmt.Errorf("failed to schedule history cleanup: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (check interval %s, %d targets)", s.cfg.CheckInterval, len(s.targets))

	// Seed the tracker so the first page load has data
	s.seedWg.Add(2)
	go func() {
		defer s.seedWg.Done()
		s.runChecks()
	}()
	go func() {
		defer s.seedWg.Done()
		s.sampleVitals()
	}()

	return nil
}

// Stop stops the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.seedWg.Wait()
}

func (s *Scheduler) runChecks() {
	for _, target := range s.targets {
		res, applied := s.tracker.Run(context.Background(), target, s.checker.Check)

		if _, err := database.StoreCheckLog(res.Target, string(res.State), res.Message, res.StatusCode, res.LatencyMS, res.CheckedAt); err != nil {
			log.Printf("Failed to store check log for %s: %v", res.Target, err)
		}

		if applied && s.onApplied != nil {
			s.onApplied(res)
		}
	}
}

func (s *Scheduler) sampleVitals() {
	sample, err := vitals.Collect()
	if err != nil {
		log.Printf("Failed to collect vitals: %v", err)
		return
	}

	if err := database.StoreVitalLog(sample.CPUPercent, sample.MemPercent, sample.DiskPercent); err != nil {
		log.Printf("Failed to store vitals: %v", err)
	}

	if s.onVitals != nil {
		s.onVitals(*sample)
	}
}

func (s *Scheduler) cleanupHistory() {
	removed, err := database.CleanupOldCheckLogs(s.cfg.HistoryRetention)
	if err != nil {
		log.Printf("Failed to cleanup check logs: %v", err)
	} else if removed > 0 {
		log.Printf("Cleaned up %d old check log entries", removed)
	}

	removed, err = database.CleanupOldVitalLogs(s.cfg.HistoryRetention)
	if err != nil {
		log.Printf("Failed to cleanup vital logs: %v", err)
	} else if removed > 0 {
		log.Printf("Cleaned up %d old vital log entries", removed)
	}
}
