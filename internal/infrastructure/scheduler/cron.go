package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"WeeklyArticles/internal/ports"
	"WeeklyArticles/pkg/logger"
)

// DefaultExpression fires every Friday evening, after the trading week closes.
const DefaultExpression = "0 18 * * 5"

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// CronScheduler triggers jobs on a standard five-field cron expression.
type CronScheduler struct {
	expr     string
	schedule cron.Schedule
	location *time.Location
	logger   *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler validates the expression; a nil location means UTC.
func NewCronScheduler(expr string, loc *time.Location, log *slog.Logger) (*CronScheduler, error) {
	if expr == "" {
		expr = DefaultExpression
	}
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", expr, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &CronScheduler{expr: expr, schedule: schedule, location: loc, logger: log}, nil
}

// Next returns the first trigger after t.
func (c *CronScheduler) Next(t time.Time) time.Time {
	return c.schedule.Next(t.In(c.location))
}

// Start registers the job and begins ticking. Overlapping triggers are skipped.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron != nil {
		return nil
	}

	bridge := logger.Cron(c.logger)
	cr := cron.New(
		cron.WithParser(parser),
		cron.WithLocation(c.location),
		cron.WithLogger(bridge),
		cron.WithChain(cron.Recover(bridge), cron.SkipIfStillRunning(bridge)),
	)
	if _, err := cr.AddFunc(c.expr, func() {
		if ctx.Err() != nil {
			return
		}
		job(time.Now().In(c.location))
	}); err != nil {
		return fmt.Errorf("register job: %w", err)
	}

	cr.Start()
	c.cron = cr
	c.logger.Info("scheduler started", "cron", c.expr, "next", c.Next(time.Now()).Format(time.RFC3339))
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	cr := c.cron
	c.cron = nil
	c.mu.Unlock()
	if cr == nil {
		return nil
	}

	select {
	case <-cr.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
