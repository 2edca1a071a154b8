// Package scheduler rebuilds the retrieval index on a cron schedule so the
// service picks up corpus edits made outside the API.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Reindexer is the rebuild operation the scheduler drives.
type Reindexer interface {
	Reinitialize(ctx context.Context) error
}

// Scheduler runs periodic index rebuilds
type Scheduler struct {
	indexer  Reindexer
	schedule string
	cron     *cron.Cron

	mu      sync.Mutex
	running bool
	lastRun time.Time
	lastErr error
}

// New creates a scheduler that rebuilds via indexer on the given cron
// schedule (standard 5-field cron expression).
func New(indexer Reindexer, schedule string) *Scheduler {
	return &Scheduler{
		indexer:  indexer,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start begins scheduled rebuilds. It validates the cron expression and
// fails fast on a bad one.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	_, err := s.cron.AddFunc(s.schedule, s.runReindex)
	if err != nil {
		return fmt.Errorf("invalid reindex schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.running = true
	log.Printf("[Scheduler] Reindex scheduled: %s", s.schedule)
	return nil
}

// Stop halts scheduled rebuilds, waiting for an in-flight rebuild to finish.
// The wait happens outside the lock: runReindex takes it to record its
// outcome, so holding it here would deadlock against the very job Stop is
// waiting on.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	ctx := s.cron.Stop()
	s.mu.Unlock()

	<-ctx.Done()
	log.Printf("[Scheduler] Stopped")
}

// LastRun reports the time and outcome of the most recent rebuild.
func (s *Scheduler) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastErr
}

func (s *Scheduler) runReindex() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err := s.indexer.Reinitialize(ctx)
	if err != nil {
		log.Printf("[Scheduler] Scheduled reindex failed: %v", err)
	} else {
		log.Printf("[Scheduler] Scheduled reindex completed")
	}

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastErr = err
	s.mu.Unlock()
}
