package jobs

import (
	"context"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"time"
)

const DefaultWarmSchedule = "@every 1h"

type Refresher interface {
	Refresh(ctx context.Context) error
}

// ScheduleContentWarmer refreshes the content caches on schedule until ctx is done.
// An empty schedule uses DefaultWarmSchedule.
func ScheduleContentWarmer(ctx context.Context, schedule string, refresher Refresher, timeout time.Duration) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultWarmSchedule
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		WarmContent(ctx, refresher, timeout)
	})
	if err != nil {
		return nil, err
	}
	c.Start()

	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	return c, nil
}

// WarmContent runs one refresh. Failures leave the previous cache entries in place.
func WarmContent(ctx context.Context, refresher Refresher, timeout time.Duration) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	started := time.Now()
	if err := refresher.Refresh(ctx); err != nil {
		log.Warnf("Content warm-up error. Reason: %v", err)
		return
	}
	log.Debugf("Content warmed in %v", time.Since(started))
}
