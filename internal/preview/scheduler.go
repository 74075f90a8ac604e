package preview

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/doctags/internal/logfields"
)

// Scheduler wraps a gocron scheduler for periodic rebuilds.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop shuts the scheduler down and waits for running jobs.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// SchedulePeriodicRebuild runs trigger every interval.
func (s *Scheduler) SchedulePeriodicRebuild(interval time.Duration, trigger func()) error {
	if interval <= 0 {
		return fmt.Errorf("rebuild interval must be positive, got %s", interval)
	}
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			slog.Debug("Scheduled rebuild", slog.Duration("interval", interval), logfields.Stage("schedule"))
			trigger()
		}),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	return nil
}

// Jobs returns the number of scheduled jobs.
func (s *Scheduler) Jobs() int { return len(s.scheduler.Jobs()) }
