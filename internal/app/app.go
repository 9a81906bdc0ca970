package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"WeeklyArticles/internal/bodytext"
	"WeeklyArticles/internal/config"
	"WeeklyArticles/internal/dates"
	"WeeklyArticles/internal/domain"
	"WeeklyArticles/internal/indexer"
	"WeeklyArticles/internal/infrastructure/browser"
	"WeeklyArticles/internal/infrastructure/console"
	"WeeklyArticles/internal/infrastructure/export"
	"WeeklyArticles/internal/infrastructure/lexicon"
	"WeeklyArticles/internal/infrastructure/scheduler"
	"WeeklyArticles/internal/infrastructure/storage"
	"WeeklyArticles/internal/infrastructure/telegram"
	"WeeklyArticles/internal/logging"
	"WeeklyArticles/internal/metrics"
	"WeeklyArticles/internal/ports"
	"WeeklyArticles/internal/scoring"
	"WeeklyArticles/internal/sourcepattern"
	"WeeklyArticles/internal/topics"
	"WeeklyArticles/internal/usecase"
)

const shutdownTimeout = 30 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	pipeline *usecase.Pipeline
	archive  *storage.PostgresArchive
	db       *sql.DB
}

// TopicTable layers the configured topic names and publisher lists over the builtins.
func TopicTable(cfg config.Config) (*topics.Table, error) {
	publishers, err := cfg.PublisherOverrides()
	if err != nil {
		return nil, fmt.Errorf("asset classes: %w", err)
	}
	return topics.NewTable(cfg.TopicNames, publishers), nil
}

// New builds the application. Reports are printed to out (stdout when nil);
// the workbook, Telegram and Postgres sinks are added when configured.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger, out io.Writer) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	if out == nil {
		out = os.Stdout
	}

	table, err := TopicTable(cfg)
	if err != nil {
		return nil, err
	}
	registry := sourcepattern.NewDefaultRegistry()
	m := metrics.New()

	session, err := browser.New(browser.Config{
		UserAgent:       cfg.Fetch.UserAgent,
		Timeout:         cfg.Fetch.Timeout,
		Delay:           cfg.Fetch.Delay,
		IgnoreRobotsTxt: cfg.Fetch.RobotsIgnored(),
	}, logging.Component(baseLogger, "browser"))
	if err != nil {
		return nil, fmt.Errorf("browser session: %w", err)
	}

	idx := indexer.New(session, registry, table,
		indexer.WithMetrics(m),
		indexer.WithLogger(logging.Component(baseLogger, "indexer")),
		indexer.WithFutureTolerance(cfg.Fetch.FutureTolerance),
	)
	fetcher := bodytext.NewFetcher(session, registry, logging.Component(baseLogger, "bodytext"))
	loader := lexicon.NewLoader(
		&http.Client{Timeout: cfg.Fetch.Timeout},
		cfg.Fetch.UserAgent,
		logging.Component(baseLogger, "lexicon"),
	)

	a := &Application{cfg: cfg, logger: baseLogger, metrics: m}

	sinks := []ports.ReportSink{console.New(out, cfg.Summary.DisplayRows)}
	if cfg.Export.Dir != "" {
		sinks = append(sinks, export.NewWorkbookSink(cfg.Export.Dir, baseLogger))
	}
	if tg := cfg.Notifications.Telegram; tg.Enabled() {
		sinks = append(sinks, telegram.NewNotifier(tg.BotToken, tg.ChatID))
	}
	if cfg.Database.DSN != "" {
		db, err := storage.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		archive := storage.NewPostgresArchive(db, baseLogger)
		if err := archive.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.db = db
		a.archive = archive
		sinks = append(sinks, archive)
	}

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Indexer: idx,
		Fetcher: fetcher,
		Lexicon: loader,
		Topics:  table,
		Sinks:   sinks,
		Metrics: m,
		Logger:  logging.Component(baseLogger, "pipeline"),
		Settings: usecase.PipelineSettings{
			PositiveLexicon: cfg.Lexicon.PositiveURL,
			NegativeLexicon: cfg.Lexicon.NegativeURL,
			Weights: scoring.Weights{
				Lexical:   cfg.Scoring.LexicalWeight,
				Topical:   cfg.Scoring.TopicalWeight,
				Ideal:     cfg.Scoring.IdealScore,
				Preferred: cfg.Scoring.PreferredScore,
				Other:     cfg.Scoring.OtherScore,
			},
			IdealPublishers:     cfg.Scoring.IdealPublishers,
			PreferredPublishers: cfg.Scoring.PreferredPublishers,
			TopN:                cfg.Fetch.TopN,
			CorpusSentences:     cfg.Summary.CorpusSentences,
		},
	})
	return a, nil
}

// Run performs a single batch for the week containing day. An empty list
// runs the configured topics.
func (a *Application) Run(ctx context.Context, list []domain.Topic, day time.Time) ([]domain.TopicReport, error) {
	if len(list) == 0 {
		configured, err := a.cfg.TopicList()
		if err != nil {
			return nil, err
		}
		list = configured
	}

	reports, err := a.pipeline.Run(ctx, list, dates.NewReference(day.In(a.cfg.Schedule.Location())))
	a.flushMetrics()
	return reports, err
}

// Schedule runs the configured topics on the cron expression until ctx ends.
func (a *Application) Schedule(ctx context.Context) error {
	list, err := a.cfg.TopicList()
	if err != nil {
		return err
	}

	driver, err := scheduler.NewCronScheduler(
		a.cfg.Schedule.CronExpression,
		a.cfg.Schedule.Location(),
		logging.Component(a.logger, "scheduler"),
	)
	if err != nil {
		return err
	}

	s := usecase.NewScheduler(driver, a.pipeline, list, logging.Component(a.logger, "scheduler"))
	s.AfterRun = func([]domain.TopicReport, error) { a.flushMetrics() }
	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return nil
}

// History lists archived corpus summaries for a topic, newest first.
func (a *Application) History(ctx context.Context, topicKey string, limit int) ([]storage.ArchivedSummary, error) {
	if a.archive == nil {
		return nil, errors.New("history needs database.dsn or DATABASE_DSN")
	}
	return a.archive.Summaries(ctx, topicKey, limit)
}

// Close releases the database connection, if any.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *Application) flushMetrics() {
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		a.logger.Warn("metrics not written", "error", err)
	}
}
