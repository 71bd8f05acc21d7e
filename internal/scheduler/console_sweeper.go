package scheduler

import (
	"github.com/caterbazar/caterbazar-console/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Sweeper is the part of the console registry the scheduler drives.
type Sweeper interface {
	Sweep() int
	Len() int
}

// ConsoleSweeper periodically evicts idle console sessions.
type ConsoleSweeper struct {
	cron     *cron.Cron
	schedule string
	registry Sweeper
}

// NewConsoleSweeper creates a sweeper; schedule accepts standard cron specs and
// descriptors such as "@every 5m".
func NewConsoleSweeper(registry Sweeper, schedule string) *ConsoleSweeper {
	return &ConsoleSweeper{
		cron:     cron.New(),
		schedule: schedule,
		registry: registry,
	}
}

// Start registers the sweep job and starts the scheduler.
func (s *ConsoleSweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.RunOnce)
	if err != nil {
		logger.Error("Failed to add cron job for console sweep", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Console sweeper started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce performs a single sweep.
func (s *ConsoleSweeper) RunOnce() {
	evicted := s.registry.Sweep()
	if evicted == 0 {
		return
	}
	logger.Info("Evicted idle console sessions", map[string]interface{}{
		"evicted":   evicted,
		"remaining": s.registry.Len(),
	})
}

// Stop waits for a running sweep to finish.
func (s *ConsoleSweeper) Stop() {
	logger.Info("Stopping console sweeper...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Console sweeper stopped", nil)
}
