// Package watchschedule runs a periodic refresh pass that bounds
// staleness even when the watch engine's OS event channel never fires
// (a failed watch install, a filesystem that doesn't report changes
// reliably).
//
// There is no user-facing schedule syntax in this domain — every tick
// is the same fixed interval — so the cron expression surface is
// reduced to robfig/cron/v3's "@every" duration spec rather than a
// general five-field expression.
package watchschedule

import (
	"context"
	"fmt"
	"log/slog"

	cronlib "github.com/robfig/cron/v3"
)

// TickFunc runs one safety-net refresh pass.
type TickFunc func(ctx context.Context)

// Scheduler fires TickFunc on a fixed interval using robfig/cron/v3's
// ticking engine.
type Scheduler struct {
	cron   *cronlib.Cron
	logger *slog.Logger
}

// New builds a Scheduler that fires fn every interval. interval must
// be a duration robfig/cron/v3 accepts for an "@every" spec (e.g.
// "30s", "1m").
func New(interval string, logger *slog.Logger, fn TickFunc) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := cronlib.New()
	ctx := context.Background()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		logger.Debug("watchschedule: safety-net tick")
		fn(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule safety-net tick: %w", err)
	}
	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins ticking in the background. Non-blocking.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("watchschedule: started")
}

// Stop halts ticking and waits for any in-flight tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("watchschedule: stopped")
}
