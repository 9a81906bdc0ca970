// Package indexer visits the listing pages configured for an asset class and
// turns their article blocks into dated, linked records.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"WeeklyArticles/internal/dates"
	"WeeklyArticles/internal/domain"
	"WeeklyArticles/internal/metrics"
	"WeeklyArticles/internal/ports"
	"WeeklyArticles/internal/sourcepattern"
	"WeeklyArticles/internal/topics"
)

const defaultFutureTolerance = 24 * time.Hour

// Indexer implements ports.ArticleIndexer over a shared page session.
type Indexer struct {
	session         ports.PageSession
	registry        *sourcepattern.Registry
	topics          *topics.Table
	metrics         *metrics.Metrics
	logger          *slog.Logger
	futureTolerance time.Duration
}

var _ ports.ArticleIndexer = (*Indexer)(nil)

// Option tweaks an Indexer.
type Option func(*Indexer)

// WithMetrics reports indexing counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(ix *Indexer) { ix.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(ix *Indexer) { ix.logger = log }
}

// WithFutureTolerance sets how far past today an article date may be.
func WithFutureTolerance(d time.Duration) Option {
	return func(ix *Indexer) {
		if d >= 0 {
			ix.futureTolerance = d
		}
	}
}

// New wires the session, the pattern registry and the topic table.
func New(session ports.PageSession, reg *sourcepattern.Registry, tbl *topics.Table, opts ...Option) *Indexer {
	ix := &Indexer{
		session:         session,
		registry:        reg,
		topics:          tbl,
		logger:          slog.Default(),
		futureTolerance: defaultFutureTolerance,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Index visits each publisher for the asset class once and returns every
// record that carried a usable title, link and date. Only configuration
// errors are returned; per-publisher failures are logged and skipped.
func (ix *Indexer) Index(ctx context.Context, class domain.AssetClass, topicKey string, ref dates.Reference) ([]domain.ArticleRecord, error) {
	if ix.session == nil || ix.registry == nil || ix.topics == nil {
		return nil, fmt.Errorf("indexer is not configured")
	}

	phrase, err := ix.topics.SearchPhrase(topicKey)
	if err != nil {
		return nil, err
	}
	publishers, err := ix.topics.Publishers(class)
	if err != nil {
		return nil, err
	}

	ix.logger.Debug("index topic", "topic", topicKey, "asset_class", class, "publishers", len(publishers))

	visited := map[string]struct{}{}
	var records []domain.ArticleRecord
	for _, key := range publishers {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		if _, ok := visited[key]; ok {
			continue
		}
		visited[key] = struct{}{}

		pattern, ok := ix.registry.Listing(key)
		if !ok {
			ix.logger.Warn("no listing pattern", "publisher", key)
			continue
		}

		found, err := ix.visit(ctx, pattern, phrase, ref)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return records, ctxErr
			}
			ix.metrics.RecordFetchFailure()
			ix.logger.Warn("skip publisher", "publisher", key, "error", err)
			continue
		}

		for _, rec := range found {
			rec.Order = len(records)
			records = append(records, rec)
			ix.metrics.RecordIndexed(key)
		}
		ix.logger.Debug("publisher indexed", "publisher", key, "count", len(found))
	}

	ix.logger.Info("topic indexed", "topic", topicKey, "articles", len(records))
	return records, nil
}

func (ix *Indexer) visit(ctx context.Context, pattern sourcepattern.ListingPattern, phrase string, ref dates.Reference) ([]domain.ArticleRecord, error) {
	target := pattern.Target(phrase)
	if err := ix.session.Navigate(ctx, target); err != nil {
		return nil, &domain.FetchFailureError{URL: target, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(ix.session.Markup()))
	if err != nil {
		return nil, &domain.FetchFailureError{URL: target, Err: fmt.Errorf("parse document: %w", err)}
	}

	base, err := url.Parse(ix.session.CurrentURL())
	if err != nil || !base.IsAbs() {
		if base, err = url.Parse(target); err != nil {
			return nil, &domain.FetchFailureError{URL: target, Err: err}
		}
	}

	latest := ref.Today.Add(ix.futureTolerance)
	var records []domain.ArticleRecord
	doc.Find(pattern.Article).Each(func(_ int, block *goquery.Selection) {
		rec, err := parseBlock(block, pattern, base, ref)
		if err != nil {
			ix.metrics.RecordDropped(dropReason(err))
			ix.logger.Debug("drop article block", "publisher", pattern.Key, "error", err)
			return
		}
		if rec.Date.After(latest) {
			ix.metrics.RecordDropped(metrics.ReasonFuture)
			ix.logger.Debug("drop future article", "publisher", pattern.Key, "date", rec.Date.Format("2006-01-02"))
			return
		}
		records = append(records, rec)
	})
	return records, nil
}

var errBadLink = errors.New("link is not an absolute http url")

func dropReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrDateParse):
		return metrics.ReasonDate
	case errors.Is(err, errBadLink):
		return metrics.ReasonLink
	default:
		return metrics.ReasonExtraction
	}
}
