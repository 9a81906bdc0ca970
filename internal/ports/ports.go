package ports

import (
	"context"
	"time"

	"WeeklyArticles/internal/dates"
	"WeeklyArticles/internal/domain"
)

// PageSession is the long-lived page-fetching capability shared by a run.
// Creation and teardown belong to the caller.
type PageSession interface {
	Navigate(ctx context.Context, url string) error
	Markup() string
	CurrentURL() string
	Title() string
	// CookieDomain is the domain the session cookies of the current page are scoped to.
	CookieDomain() string
}

// ArticleIndexer discovers candidate articles for a topic.
type ArticleIndexer interface {
	Index(ctx context.Context, class domain.AssetClass, topicKey string, ref dates.Reference) ([]domain.ArticleRecord, error)
}

// BodyFetcher visits an article and returns an enriched record plus its sentences.
type BodyFetcher interface {
	FetchAndClean(ctx context.Context, record domain.ArticleRecord) (domain.ArticleRecord, []domain.Sentence, error)
}

// LexiconSource loads a finance term list once per run.
type LexiconSource interface {
	Load(ctx context.Context, location string) ([]string, error)
}

// ReportSink receives a finished topic report.
type ReportSink interface {
	Publish(ctx context.Context, report domain.TopicReport) error
}

// Scheduler controls when runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
