package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"WeeklyArticles/internal/domain"
	"WeeklyArticles/internal/ports"
)

// Schema creates the archive tables when they do not exist yet.
const Schema = `
CREATE TABLE IF NOT EXISTS weekly_articles (
    topic_key     TEXT NOT NULL,
    week_friday   DATE NOT NULL,
    rank          INTEGER NOT NULL,
    run_id        TEXT NOT NULL,
    source        TEXT NOT NULL,
    published_on  DATE NOT NULL,
    title         TEXT NOT NULL,
    link          TEXT NOT NULL,
    lexical       INTEGER NOT NULL,
    topical       INTEGER NOT NULL,
    recency       INTEGER NOT NULL,
    score         DOUBLE PRECISION NOT NULL,
    polarity      DOUBLE PRECISION,
    subjectivity  DOUBLE PRECISION,
    PRIMARY KEY (topic_key, week_friday, rank)
);
CREATE TABLE IF NOT EXISTS topic_summaries (
    topic_key      TEXT NOT NULL,
    week_friday    DATE NOT NULL,
    run_id         TEXT NOT NULL,
    asset_class    TEXT NOT NULL,
    phrase         TEXT NOT NULL,
    summary        TEXT NOT NULL,
    sources        TEXT[] NOT NULL DEFAULT '{}',
    generated_at   TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (topic_key, week_friday)
);`

// ArchivedSummary is one stored corpus summary.
type ArchivedSummary struct {
	TopicKey    string
	Friday      time.Time
	RunID       string
	Phrase      string
	Summary     string
	Sources     []string
	GeneratedAt time.Time
}

// PostgresArchive keeps the ranked table and corpus summary of every topic week.
type PostgresArchive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	logger  *slog.Logger
}

var _ ports.ReportSink = (*PostgresArchive)(nil)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresArchive wires a sql.DB implementation.
func NewPostgresArchive(db *sql.DB, log *slog.Logger) *PostgresArchive {
	if log == nil {
		log = slog.Default()
	}
	return &PostgresArchive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:  log.With("component", "archive"),
	}
}

// EnsureSchema creates missing tables.
func (r *PostgresArchive) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Publish replaces the stored rows for the report's topic and week in one transaction.
func (r *PostgresArchive) Publish(ctx context.Context, report domain.TopicReport) (err error) {
	if r.db == nil {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	del, args, err := r.builder.Delete("weekly_articles").
		Where(sq.Eq{"topic_key": report.Topic.Key}).
		Where(sq.Eq{"week_friday": report.Friday}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err = tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("clear articles: %w", err)
	}

	rows := report.DisplayRows(0)
	if len(rows) > 0 {
		insert := r.builder.Insert("weekly_articles").Columns(
			"topic_key", "week_friday", "rank", "run_id", "source", "published_on", "title", "link",
			"lexical", "topical", "recency", "score", "polarity", "subjectivity",
		)
		for i, row := range rows {
			var polarity, subjectivity sql.NullFloat64
			if row.Summarized {
				polarity = sql.NullFloat64{Float64: row.Polarity, Valid: true}
				subjectivity = sql.NullFloat64{Float64: row.Subjectivity, Valid: true}
			}
			insert = insert.Values(
				report.Topic.Key, report.Friday, i+1, report.RunID, row.Source, row.Date, row.Title, row.Link,
				row.Lexical, row.Topical, row.Recency, row.Score, polarity, subjectivity,
			)
		}
		query, insertArgs, buildErr := insert.ToSql()
		if buildErr != nil {
			return fmt.Errorf("build insert: %w", buildErr)
		}
		if _, err = tx.ExecContext(ctx, query, insertArgs...); err != nil {
			return fmt.Errorf("insert articles: %w", err)
		}
	}

	sources := make([]string, 0, len(report.Corpus.Articles))
	for _, a := range report.Corpus.Articles {
		sources = append(sources, a.Article.Source)
	}

	upsert, upsertArgs, err := r.builder.Insert("topic_summaries").
		Columns("topic_key", "week_friday", "run_id", "asset_class", "phrase", "summary", "sources", "generated_at").
		Values(report.Topic.Key, report.Friday, report.RunID, string(report.Topic.AssetClass),
			report.Phrase, report.Corpus.Summary, pq.Array(sources), report.GeneratedAt).
		Suffix(`ON CONFLICT (topic_key, week_friday) DO UPDATE
              SET run_id = EXCLUDED.run_id,
                  asset_class = EXCLUDED.asset_class,
                  phrase = EXCLUDED.phrase,
                  summary = EXCLUDED.summary,
                  sources = EXCLUDED.sources,
                  generated_at = EXCLUDED.generated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err = tx.ExecContext(ctx, upsert, upsertArgs...); err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.logger.Debug("report archived", "topic", report.Topic.Key, "rows", len(rows))
	return nil
}

// Summaries returns the latest stored summaries for a topic, newest week first.
func (r *PostgresArchive) Summaries(ctx context.Context, topicKey string, limit int) ([]ArchivedSummary, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 1
	}

	query, args, err := r.builder.
		Select("topic_key", "week_friday", "run_id", "phrase", "summary", "sources", "generated_at").
		From("topic_summaries").
		Where(sq.Eq{"topic_key": topicKey}).
		OrderBy("week_friday DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}

	var result []ArchivedSummary
	for rows.Next() {
		var (
			s       ArchivedSummary
			sources pq.StringArray
		)
		if err := rows.Scan(&s.TopicKey, &s.Friday, &s.RunID, &s.Phrase, &s.Summary, &sources, &s.GeneratedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.Sources = sources
		result = append(result, s)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}
