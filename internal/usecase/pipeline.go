package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"WeeklyArticles/internal/dates"
	"WeeklyArticles/internal/domain"
	"WeeklyArticles/internal/metrics"
	"WeeklyArticles/internal/ports"
	"WeeklyArticles/internal/scoring"
	"WeeklyArticles/internal/summarizer"
	"WeeklyArticles/internal/topics"
)

const defaultTopN = 15

// PipelineDeps wires all driven adapters into the weekly pipeline.
type PipelineDeps struct {
	Indexer  ports.ArticleIndexer
	Fetcher  ports.BodyFetcher
	Lexicon  ports.LexiconSource
	Topics   *topics.Table
	Sinks    []ports.ReportSink
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Settings PipelineSettings
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// PipelineSettings holds the tunables of a run.
type PipelineSettings struct {
	PositiveLexicon     string
	NegativeLexicon     string
	Weights             scoring.Weights
	IdealPublishers     []string
	PreferredPublishers []string
	// TopN is how many ranked articles get their bodies fetched.
	TopN            int
	CorpusSentences int
}

// Pipeline implements index -> score -> fetch -> summarize for each topic.
type Pipeline struct {
	indexer  ports.ArticleIndexer
	fetcher  ports.BodyFetcher
	lexicon  ports.LexiconSource
	topics   *topics.Table
	sinks    []ports.ReportSink
	metrics  *metrics.Metrics
	logger   *slog.Logger
	settings PipelineSettings
	clock    func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		indexer:  deps.Indexer,
		fetcher:  deps.Fetcher,
		lexicon:  deps.Lexicon,
		topics:   deps.Topics,
		sinks:    deps.Sinks,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		settings: deps.Settings,
		clock:    deps.Clock,
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if p.topics == nil {
		p.topics = topics.Default()
	}
	if p.settings.TopN <= 0 {
		p.settings.TopN = defaultTopN
	}
	if p.settings.CorpusSentences <= 0 {
		p.settings.CorpusSentences = summarizer.CorpusSentences
	}
	if p.settings.Weights == (scoring.Weights{}) {
		p.settings.Weights = scoring.DefaultWeights()
	}
	return p
}

type run struct {
	id      string
	lexicon *scoring.Lexicon
	scorer  *scoring.Scorer
	ref     dates.Reference
}

// Run processes topics in order. Duplicate topic keys are skipped. Unknown
// topics, a missing lexicon and cancellation abort the run; sink failures are
// collected and returned after every topic has been processed.
func (p *Pipeline) Run(ctx context.Context, list []domain.Topic, ref dates.Reference) ([]domain.TopicReport, error) {
	if p.indexer == nil || p.fetcher == nil || p.lexicon == nil {
		return nil, fmt.Errorf("pipeline is not configured")
	}

	lex, err := p.loadLexicon(ctx)
	if err != nil {
		return nil, err
	}
	r := run{
		id:      uuid.NewString(),
		lexicon: lex,
		scorer:  scoring.NewScorer(lex, p.settings.Weights, p.settings.IdealPublishers, p.settings.PreferredPublishers),
		ref:     ref,
	}

	p.logger.Info("run started",
		"run_id", r.id,
		"topics", len(list),
		"monday", ref.Week.Monday.Format("2006-01-02"),
		"friday", ref.Week.Friday.Format("2006-01-02"))

	seen := map[string]struct{}{}
	var (
		reports  []domain.TopicReport
		sinkErrs []error
	)
	for _, topic := range list {
		if _, ok := seen[topic.Key]; ok {
			p.logger.Debug("skip duplicate topic", "topic", topic.Key)
			continue
		}
		seen[topic.Key] = struct{}{}

		report, err := p.runTopic(ctx, r, topic)
		if err != nil {
			return reports, fmt.Errorf("topic %s: %w", topic.Key, err)
		}
		reports = append(reports, report)

		if err := p.publish(ctx, report); err != nil {
			sinkErrs = append(sinkErrs, fmt.Errorf("topic %s: %w", topic.Key, err))
		}
	}

	p.logger.Info("run finished", "run_id", r.id, "reports", len(reports))
	return reports, errors.Join(sinkErrs...)
}

// RunTopic processes a single topic.
func (p *Pipeline) RunTopic(ctx context.Context, topic domain.Topic, ref dates.Reference) (domain.TopicReport, error) {
	reports, err := p.Run(ctx, []domain.Topic{topic}, ref)
	if len(reports) == 0 {
		return domain.TopicReport{}, err
	}
	return reports[0], err
}

func (p *Pipeline) loadLexicon(ctx context.Context) (*scoring.Lexicon, error) {
	positive, err := p.lexicon.Load(ctx, p.settings.PositiveLexicon)
	if err != nil {
		return nil, fmt.Errorf("positive terms: %w", err)
	}
	negative, err := p.lexicon.Load(ctx, p.settings.NegativeLexicon)
	if err != nil {
		return nil, fmt.Errorf("negative terms: %w", err)
	}
	return scoring.NewLexicon(positive, negative), nil
}

func (p *Pipeline) runTopic(ctx context.Context, r run, topic domain.Topic) (domain.TopicReport, error) {
	start := p.clock()
	log := p.logger.With("run_id", r.id, "topic", topic.Key)

	phrase, err := p.topics.Name(topic.Key)
	if err != nil {
		return domain.TopicReport{}, err
	}

	records, err := p.indexer.Index(ctx, topic.AssetClass, topic.Key, r.ref)
	if err != nil {
		return domain.TopicReport{}, fmt.Errorf("index: %w", err)
	}

	report := domain.TopicReport{
		RunID:  r.id,
		Topic:  topic,
		Phrase: phrase,
		Monday: r.ref.Week.Monday,
		Friday: r.ref.Week.Friday,
		Ranked: r.scorer.Score(records, phrase, r.ref.Week),
	}
	log.Info("articles ranked", "indexed", len(records))

	n := min(p.settings.TopN, len(report.Ranked))
	var summaries []domain.ArticleSummary
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		summary, ok := p.summarizeArticle(ctx, log, r, &report.Ranked[i])
		if ok {
			summaries = append(summaries, summary)
		}
	}

	texts := make([]string, len(summaries))
	for i, s := range summaries {
		texts[i] = s.Summary
	}
	report.Corpus = domain.CorpusSummary{
		Articles: summaries,
		Summary:  summarizer.SummarizeCorpus(texts, p.settings.CorpusSentences),
	}
	report.GeneratedAt = p.clock()

	elapsed := report.GeneratedAt.Sub(start)
	p.metrics.ObserveTopic(elapsed)
	log.Info("topic summarized", "summaries", len(summaries), "elapsed", elapsed.String())
	return report, nil
}

// summarizeArticle fetches one ranked article, replaces its record with the
// enriched one and summarizes it. Failures are logged and skipped.
func (p *Pipeline) summarizeArticle(ctx context.Context, log *slog.Logger, r run, ranked *domain.ScoredArticle) (domain.ArticleSummary, bool) {
	enriched, sentences, err := p.fetcher.FetchAndClean(ctx, ranked.Article)
	if err != nil {
		p.metrics.RecordFetchFailure()
		p.metrics.RecordSummary(metrics.ResultError)
		log.Warn("article skipped", "link", ranked.Article.Link, "error", err)
		return domain.ArticleSummary{}, false
	}
	ranked.Article = enriched

	text := summarizer.Summarize(sentences, 0)
	if text == "" {
		p.metrics.RecordSummary(metrics.ResultEmpty)
		log.Warn("article text could not be collected", "title", enriched.Title, "link", enriched.Link)
		return domain.ArticleSummary{}, false
	}

	polarity, subjectivity := r.lexicon.Tone(strings.Fields(text))
	p.metrics.RecordSummary(metrics.ResultOK)
	log.Debug("article summarized", "title", enriched.Title, "sentences", len(sentences))
	return domain.ArticleSummary{
		Article:      enriched,
		Summary:      text,
		Polarity:     polarity,
		Subjectivity: subjectivity,
	}, true
}

func (p *Pipeline) publish(ctx context.Context, report domain.TopicReport) error {
	var errs []error
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, report); err != nil {
			p.logger.Error("publish report", "topic", report.Topic.Key, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
