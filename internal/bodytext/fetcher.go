// Package bodytext visits ranked articles and reduces their pages to plain
// sentences using per-publisher paragraph patterns.
package bodytext

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"WeeklyArticles/internal/domain"
	"WeeklyArticles/internal/ports"
	"WeeklyArticles/internal/sourcepattern"
)

// AggregatorSource is the placeholder publisher given to search results
// whose real publisher was unknown at indexing time.
const AggregatorSource = "Google"

// Fetcher implements ports.BodyFetcher.
type Fetcher struct {
	session  ports.PageSession
	registry *sourcepattern.Registry
	logger   *slog.Logger
}

var _ ports.BodyFetcher = (*Fetcher)(nil)

// NewFetcher wires the shared session and the pattern registry.
func NewFetcher(session ports.PageSession, reg *sourcepattern.Registry, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{session: session, registry: reg, logger: log}
}

// FetchAndClean visits the record's link and returns a corrected copy of the
// record with the article's sentences. A page with no matching paragraphs
// yields no sentences and no error.
func (f *Fetcher) FetchAndClean(ctx context.Context, record domain.ArticleRecord) (domain.ArticleRecord, []domain.Sentence, error) {
	if err := f.session.Navigate(ctx, record.Link); err != nil {
		return record, nil, &domain.FetchFailureError{URL: record.Link, Err: err}
	}

	enriched := record
	if current := f.session.CurrentURL(); current != "" && current != record.Link {
		enriched.Link = current
	}
	if title := strings.TrimSpace(f.session.Title()); title != "" {
		enriched.Title = title
	}

	host := f.session.CookieDomain()
	if host == "" {
		host = HostOf(f.session.CurrentURL())
	}
	key := DomainKey(host)
	if record.Source == AggregatorSource {
		if name := DisplayName(key); name != "" {
			enriched.Source = name
		}
	}

	pattern := f.registry.Body(key)
	fragments, err := Paragraphs(f.session.Markup(), pattern)
	if err != nil {
		return enriched, nil, &domain.FetchFailureError{URL: enriched.Link, Err: err}
	}

	sentences := Clean(fragments)
	f.logger.Debug("article cleaned",
		"link", enriched.Link,
		"pattern", pattern.Key,
		"paragraphs", len(fragments),
		"sentences", len(sentences))
	return enriched, sentences, nil
}

// Paragraphs returns the outer HTML of every element the pattern selects.
// Matches nested inside another match are skipped so text is not repeated.
func Paragraphs(markup string, pattern sourcepattern.BodyPattern) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	selector := pattern.Selector()
	if selector == "" {
		return nil, nil
	}

	root := doc.Selection
	if pattern.Scope != "" {
		root = doc.Find(pattern.Scope)
	}

	var fragments []string
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(selector).Length() > 0 {
			return
		}
		outer, err := goquery.OuterHtml(s)
		if err != nil {
			return
		}
		fragments = append(fragments, outer)
	})
	return fragments, nil
}
