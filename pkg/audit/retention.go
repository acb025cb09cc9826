package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig configures scheduled pruning of old audit entries.
type RetentionConfig struct {
	// RetentionDays is how many days of entries to keep.
	// Zero disables pruning entirely.
	RetentionDays int

	// Schedule is a standard cron expression for when to prune,
	// e.g. "0 3 * * *" for daily at 3 AM. Empty disables the sweeper.
	Schedule string
}

// Sweeper prunes old audit entries on a cron schedule.
type Sweeper struct {
	log    Log
	config RetentionConfig
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewSweeper creates a retention sweeper for the given audit log.
func NewSweeper(log Log, config RetentionConfig) *Sweeper {
	return &Sweeper{
		log:    log,
		config: config,
		cron:   cron.New(),
		logger: slog.Default().With("component", "audit.sweeper"),
	}
}

// Start begins scheduled pruning. If the schedule is empty or retention is
// disabled, Start is a no-op. The sweeper stops when ctx is cancelled or
// Stop is called.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Schedule == "" || s.config.RetentionDays <= 0 {
		s.logger.Info("audit retention not configured, skipping sweeper")
		return nil
	}

	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.config.Schedule, err)
	}

	if _, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runSweep(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule audit sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("audit retention sweeper started",
		"schedule", s.config.Schedule,
		"retention_days", s.config.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runSweep executes one pruning cycle.
func (s *Sweeper) runSweep(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -s.config.RetentionDays)

	deleted, err := s.log.PruneOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("audit sweep failed", "error", err)
		return
	}

	if deleted > 0 {
		s.logger.Info("audit sweep completed", "deleted_count", deleted, "cutoff", cutoff)
	} else {
		s.logger.Debug("audit sweep completed, nothing to delete")
	}
}

// Stop stops the sweeper and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("audit retention sweeper stopped")
	}
}

// IsRunning reports whether the sweeper is active.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled sweep time, or nil when idle.
func (s *Sweeper) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
