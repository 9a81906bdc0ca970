package usecase

import (
	"context"
	"log/slog"
	"time"

	"WeeklyArticles/internal/dates"
	"WeeklyArticles/internal/domain"
	"WeeklyArticles/internal/ports"
)

// Scheduler wires the cron driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	topics   []domain.Topic
	logger   *slog.Logger
	// AfterRun is called with the outcome of every triggered run.
	AfterRun func(reports []domain.TopicReport, err error)
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, list []domain.Topic, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{driver: driver, pipeline: pipeline, topics: list, logger: log}
}

// Start registers the pipeline with the provided scheduler. The report week
// is derived from each trigger time.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		reports, err := s.pipeline.Run(ctx, s.topics, dates.NewReference(trigger))
		if err != nil {
			s.logger.Error("scheduled run failed", "trigger", trigger.Format(time.RFC3339), "error", err)
		}
		if s.AfterRun != nil {
			s.AfterRun(reports, err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
