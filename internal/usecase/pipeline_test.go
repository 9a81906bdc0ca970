package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WeeklyArticles/internal/dates"
	"WeeklyArticles/internal/domain"
	"WeeklyArticles/internal/metrics"
	"WeeklyArticles/internal/ports"
	"WeeklyArticles/internal/topics"
)

var testRef = dates.NewReference(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))

type fakeIndexer struct {
	records []domain.ArticleRecord
	calls   []string
	refs    []dates.Reference
}

func (f *fakeIndexer) Index(_ context.Context, _ domain.AssetClass, key string, ref dates.Reference) ([]domain.ArticleRecord, error) {
	f.calls = append(f.calls, key)
	f.refs = append(f.refs, ref)
	out := make([]domain.ArticleRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

type fakeFetcher struct {
	bodies map[string]string
	fail   map[string]bool
}

func (f *fakeFetcher) FetchAndClean(_ context.Context, rec domain.ArticleRecord) (domain.ArticleRecord, []domain.Sentence, error) {
	if f.fail[rec.Link] {
		return rec, nil, &domain.FetchFailureError{URL: rec.Link, Err: errors.New("boom")}
	}
	enriched := rec
	enriched.Link = rec.Link + "?final"
	if enriched.Source == "Google" {
		enriched.Source = "Reuters"
	}
	var sentences []domain.Sentence
	for _, s := range strings.Split(f.bodies[rec.Link], ". ") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, domain.Sentence(strings.Fields(s)))
		}
	}
	return enriched, sentences, nil
}

type fakeLexicon struct {
	terms map[string][]string
}

func (f fakeLexicon) Load(_ context.Context, location string) ([]string, error) {
	terms, ok := f.terms[location]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLexiconUnavailable, location)
	}
	return terms, nil
}

type recordingSink struct {
	reports []domain.TopicReport
	err     error
}

func (s *recordingSink) Publish(_ context.Context, r domain.TopicReport) error {
	s.reports = append(s.reports, r)
	return s.err
}

func bitcoinRecords() []domain.ArticleRecord {
	titles := []string{
		"Bitcoin surges 10%",
		"Market flat today",
		"Crypto regulation fears grow",
		"Unrelated sports news",
		"Bitcoin adoption accelerates",
	}
	recs := make([]domain.ArticleRecord, len(titles))
	for i, title := range titles {
		recs[i] = domain.ArticleRecord{
			Source: "Google",
			Title:  title,
			Date:   testRef.Week.Monday.AddDate(0, 0, 1),
			Link:   fmt.Sprintf("https://example.com/%d", i),
			Order:  i,
		}
	}
	return recs
}

type fixture struct {
	indexer *fakeIndexer
	fetcher *fakeFetcher
	sink    *recordingSink
	metrics *metrics.Metrics
	lexicon fakeLexicon
}

func newFixture() *fixture {
	return &fixture{
		indexer: &fakeIndexer{records: bitcoinRecords()},
		fetcher: &fakeFetcher{
			bodies: map[string]string{
				"https://example.com/0": "Bitcoin rallied strongly. Traders cheered the gain. Bitcoin gain extended",
				"https://example.com/2": "Regulators raised fears. Crypto fears weigh on bitcoin",
				"https://example.com/4": "Adoption accelerates. Bitcoin adoption grows",
			},
			fail: map[string]bool{},
		},
		sink:    &recordingSink{},
		metrics: metrics.New(),
		lexicon: fakeLexicon{terms: map[string][]string{
			"pos": {"SURGES", "ACCELERATES", "GAIN"},
			"neg": {"FEARS"},
		}},
	}
}

func (f *fixture) pipeline(topN int) *Pipeline {
	clock := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	return NewPipeline(PipelineDeps{
		Indexer: f.indexer,
		Fetcher: f.fetcher,
		Lexicon: f.lexicon,
		Topics:  topics.Default(),
		Sinks:   []ports.ReportSink{f.sink},
		Metrics: f.metrics,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Settings: PipelineSettings{
			PositiveLexicon: "pos",
			NegativeLexicon: "neg",
			TopN:            topN,
		},
		Clock: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	})
}

func TestRunTopicBitcoin(t *testing.T) {
	t.Parallel()

	f := newFixture()
	report, err := f.pipeline(3).RunTopic(context.Background(), domain.Topic{Key: "BTC-USD", AssetClass: domain.AssetCrypto}, testRef)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "Bitcoin", report.Phrase)
	assert.Equal(t, testRef.Week.Monday, report.Monday)
	assert.Equal(t, testRef.Week.Friday, report.Friday)
	require.Len(t, report.Ranked, 5)

	var orders []int
	for _, sa := range report.Ranked {
		orders = append(orders, sa.Article.Order)
	}
	assert.Equal(t, []int{0, 4, 2, 1, 3}, orders)

	for _, sa := range report.Ranked[:3] {
		assert.Equal(t, "Reuters", sa.Article.Source)
		assert.True(t, strings.HasSuffix(sa.Article.Link, "?final"))
	}
	assert.Equal(t, "Google", report.Ranked[3].Article.Source)

	require.Len(t, report.Corpus.Articles, 3)
	assert.NotEmpty(t, report.Corpus.Summary)
	assert.Contains(t, report.Corpus.Summary, "Bitcoin")
	assert.Greater(t, report.Corpus.Articles[0].Polarity, 0.0)

	rows := report.DisplayRows(11)
	require.Len(t, rows, 5)
	assert.True(t, rows[0].Summarized)
	assert.True(t, rows[2].Summarized)
	assert.False(t, rows[3].Summarized)

	require.Len(t, f.sink.reports, 1)
	assert.Equal(t, report.RunID, f.sink.reports[0].RunID)
	assert.InDelta(t, 3, testutil.ToFloat64(f.metrics.Summaries.WithLabelValues(metrics.ResultOK)), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(f.metrics.TopicDuration))
}

func TestRunSkipsFailedAndEmptyArticles(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.fetcher.fail["https://example.com/4"] = true
	delete(f.fetcher.bodies, "https://example.com/2")

	report, err := f.pipeline(3).RunTopic(context.Background(), domain.Topic{Key: "BTC-USD", AssetClass: domain.AssetCrypto}, testRef)
	require.NoError(t, err)

	require.Len(t, report.Corpus.Articles, 1)
	assert.Equal(t, 0, report.Corpus.Articles[0].Article.Order)
	assert.Equal(t, "https://example.com/4", report.Ranked[1].Article.Link)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Summaries.WithLabelValues(metrics.ResultError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Summaries.WithLabelValues(metrics.ResultEmpty)), 0)
}

func TestRunDeduplicatesTopics(t *testing.T) {
	t.Parallel()

	f := newFixture()
	list := []domain.Topic{
		{Key: "BTC-USD", AssetClass: domain.AssetCrypto},
		{Key: "GC=F", AssetClass: domain.AssetEquity},
		{Key: "BTC-USD", AssetClass: domain.AssetCrypto},
	}
	reports, err := f.pipeline(1).Run(context.Background(), list, testRef)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
	assert.Equal(t, []string{"BTC-USD", "GC=F"}, f.indexer.calls)
	assert.Equal(t, reports[0].RunID, reports[1].RunID)
}

func TestRunFatalErrors(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.lexicon.terms = map[string][]string{"pos": {"GAIN"}}
	_, err := f.pipeline(3).Run(context.Background(), []domain.Topic{{Key: "BTC-USD", AssetClass: domain.AssetCrypto}}, testRef)
	assert.True(t, errors.Is(err, domain.ErrLexiconUnavailable))
	assert.Empty(t, f.indexer.calls)

	f = newFixture()
	_, err = f.pipeline(3).Run(context.Background(), []domain.Topic{{Key: "NOPE", AssetClass: domain.AssetCrypto}}, testRef)
	assert.True(t, errors.Is(err, domain.ErrUnknownTopic))
	assert.Empty(t, f.sink.reports)
}

func TestRunReturnsSinkErrorsAfterAllTopics(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.sink.err = errors.New("disk full")
	list := []domain.Topic{
		{Key: "BTC-USD", AssetClass: domain.AssetCrypto},
		{Key: "GC=F", AssetClass: domain.AssetEquity},
	}
	reports, err := f.pipeline(1).Run(context.Background(), list, testRef)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, reports, 2)
	assert.Len(t, f.sink.reports, 2)
}

func TestRunRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewPipeline(PipelineDeps{}).Run(context.Background(), nil, testRef)
	assert.Error(t, err)
}
