package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/torgprom/econdash/internal/service/dataset"
)

// Scheduler runs periodic dataset regeneration when a cron schedule is
// configured. An empty schedule leaves the job disabled.
type Scheduler struct {
	cron      *cron.Cron
	lifecycle *dataset.Service
	schedule  string
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(schedule string, lifecycle *dataset.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(),
		lifecycle: lifecycle,
		schedule:  schedule,
		logger:    logger,
	}
}

// Start registers the regeneration job and starts the cron loop.
func (s *Scheduler) Start() {
	if s.schedule == "" {
		s.logger.Info("scheduled regeneration disabled")
		return
	}

	if _, err := s.cron.AddFunc(s.schedule, s.regenerate); err != nil {
		s.logger.Error("failed to schedule regeneration", zap.Error(err), zap.String("schedule", s.schedule))
		return
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) regenerate() {
	s.logger.Info("scheduled regeneration starting")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.lifecycle.Regenerate(ctx, s.lifecycle.Defaults()); err != nil {
		s.logger.Error("scheduled regeneration failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled regeneration complete")
}
