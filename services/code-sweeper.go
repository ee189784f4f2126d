package services

import (
	"context"
	"time"

	"hotel-server/logger"

	"github.com/robfig/cron/v3"
)

// Purger is implemented by stores that hold expiring entries in process.
type Purger interface {
	PurgeExpired(now time.Time) int
	Stats() map[string]interface{}
}

// CodeSweeper periodically drops expired verification codes so an
// abandoned sign-up does not keep its code in memory forever.
type CodeSweeper struct {
	store    Purger
	interval time.Duration
	now      func() time.Time
}

func NewCodeSweeper(store Purger, interval time.Duration) *CodeSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CodeSweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

// Start schedules the sweep on a cron until ctx is cancelled. Intervals
// under a second are rounded up by the scheduler.
func (s *CodeSweeper) Start(ctx context.Context) {
	c := cron.New()
	c.Schedule(cron.Every(s.interval), s)
	c.Start()

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
}

// Run implements cron.Job.
func (s *CodeSweeper) Run() {
	s.Sweep()
}

func (s *CodeSweeper) Sweep() int {
	removed := s.store.PurgeExpired(s.now())
	if removed > 0 {
		logger.Debug("purged expired verification codes", "count", removed)
	}
	return removed
}

func (s *CodeSweeper) Stats() map[string]interface{} {
	return s.store.Stats()
}
