package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"dueminder/internal/ports"
	"dueminder/pkg/logger"
)

// CronScheduler runs the job on a cron expression in the configured
// location.
type CronScheduler struct {
	spec   string
	loc    *time.Location
	runner *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler from a cron expression string.
func NewCronScheduler(spec string, loc *time.Location) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{spec: spec, loc: loc}
}

// Start registers the job and begins the cron loop.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if c.runner != nil {
		return nil
	}

	runner := cron.New(
		cron.WithLocation(c.loc),
		cron.WithLogger(cron.PrintfLogger(logger.New("cron"))),
	)
	if _, err := runner.AddFunc(c.spec, func() { job(time.Now().In(c.loc)) }); err != nil {
		return fmt.Errorf("parse cron spec %q: %w", c.spec, err)
	}

	runner.Start()
	c.runner = runner
	return nil
}

// Stop halts the cron loop, waiting for a running job up to ctx's deadline.
func (c *CronScheduler) Stop(ctx context.Context) error {
	if c.runner == nil {
		return nil
	}

	done := c.runner.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	c.runner = nil
	return nil
}
