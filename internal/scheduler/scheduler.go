package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pcbuilderguide/pcbg/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Counter is implemented by UserRepo and ContactRepo.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// StatsJob refreshes the users_registered and contact_messages_stored gauges.
type StatsJob struct {
	Users    Counter
	Messages Counter
	Timeout  time.Duration
}

// Refresh reads both counts and publishes them. A failed read leaves the gauges unchanged.
func (j *StatsJob) Refresh(ctx context.Context) error {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	users, err := j.Users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	messages, err := j.Messages.Count(ctx)
	if err != nil {
		return fmt.Errorf("count contact messages: %w", err)
	}
	metrics.SetStoredCounts(users, messages)
	slog.DebugContext(ctx, "stats refreshed", "users", users, "contact_messages", messages)
	return nil
}

// Run refreshes once, then on every tick of spec (standard 5-field cron) until ctx is done.
func Run(ctx context.Context, spec string, job *StatsJob) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := job.Refresh(ctx); err != nil {
			slog.Warn("scheduler: stats refresh failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduler: invalid cron expression %q: %w", spec, err)
	}

	if err := job.Refresh(ctx); err != nil {
		slog.Warn("scheduler: initial stats refresh failed", "error", err)
	}
	c.Start()
	slog.Info("scheduler: stats job started", "cron", spec)

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
