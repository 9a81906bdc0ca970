package indexer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"WeeklyArticles/internal/dates"
	"WeeklyArticles/internal/domain"
	"WeeklyArticles/internal/sourcepattern"
)

func parseBlock(block *goquery.Selection, pattern sourcepattern.ListingPattern, base *url.URL, ref dates.Reference) (domain.ArticleRecord, error) {
	var rec domain.ArticleRecord

	rec.Title = extractTitle(block, pattern.Titles)
	if rec.Title == "" {
		return rec, &domain.ExtractionMissError{Field: "title", Publisher: pattern.Key}
	}

	href, ok := pattern.Link.Extract(block)
	if !ok || href == "" {
		return rec, &domain.ExtractionMissError{Field: "link", Publisher: pattern.Key}
	}
	link, err := resolveLink(base, href)
	if err != nil {
		return rec, err
	}
	rec.Link = link

	raw, ok := pattern.Date.Extract(block)
	if !ok || raw == "" {
		return rec, &domain.ExtractionMissError{Field: "date", Publisher: pattern.Key}
	}
	rec.RawDate = raw
	if rec.Date, err = dates.Normalize(raw, ref); err != nil {
		return rec, err
	}

	rec.Source = pattern.Name
	if pattern.Aggregator {
		if name, ok := pattern.Publisher.Extract(block); ok && name != "" {
			rec.Source = name
		}
	}
	return rec, nil
}

// extractTitle tries each title field in order, then the block text.
func extractTitle(block *goquery.Selection, fields []sourcepattern.Field) string {
	for _, f := range fields {
		if title, ok := f.Extract(block); ok && title != "" {
			return title
		}
	}
	return strings.Join(strings.Fields(block.Text()), " ")
}

func resolveLink(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errBadLink, err)
	}
	abs := base.ResolveReference(ref)
	if (abs.Scheme != "http" && abs.Scheme != "https") || abs.Host == "" {
		return "", fmt.Errorf("%w: %q", errBadLink, href)
	}
	return abs.String(), nil
}
