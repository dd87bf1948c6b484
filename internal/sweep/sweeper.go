// Package sweep runs the clock-driven evaluation that the data model
// needs server-side: rolling the day over (generating fresh instances
// from the registry after midnight) and persisting MISSED for pending
// tasks past their grace window. Views never write MISSED themselves;
// they only derive a "late" projection for display.
package sweep

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Jk-Krishna/cronos-app/internal/schedule"
	"github.com/Jk-Krishna/cronos-app/internal/store"
)

// Sweeper periodically evaluates the store against the wall clock
type Sweeper struct {
	store    *store.Store
	grace    time.Duration
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// New creates a sweeper. interval controls the evaluation cadence,
// grace the window a pending task gets past its scheduled time.
func New(s *store.Store, interval, grace time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		store:    s,
		grace:    grace,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// Run blocks until ctx is done, ticking at the configured interval.
// The first evaluation happens immediately so a restart catches up on
// days missed while the process was down.
func (sw *Sweeper) Run(ctx context.Context) {
	sw.tick()

	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sw.tick()
		}
	}
}

func (sw *Sweeper) tick() {
	now := sw.now()

	rolled, err := sw.store.RolloverDay(now.Format(schedule.DateFormat))
	if err != nil {
		sw.log.Error("day rollover failed", zap.Error(err))
	} else if rolled > 0 {
		sw.log.Info("rolled day over",
			zap.String("date", now.Format(schedule.DateFormat)),
			zap.Int("profiles", rolled))
	}

	missed, err := sw.store.SweepOverdue(now, sw.grace)
	if err != nil {
		sw.log.Error("overdue sweep failed", zap.Error(err))
	} else if missed > 0 {
		sw.log.Info("marked overdue tasks missed", zap.Int("count", missed))
	}
}
