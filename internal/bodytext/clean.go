package bodytext

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"WeeklyArticles/internal/domain"
	"WeeklyArticles/internal/summarizer"
)

var (
	closingBlockExpr = regexp.MustCompile(`(?i)</li>|</h[1-9]>`)

	boilerplateExpr = regexp.MustCompile(`Sign up for our newsletters|` +
		`Please consider using a different web browser for better experience\.|` +
		`YOU MAY ALSO LIKE:.*|Tip:.*|Trending.*|` +
		`.*looking.*join us.*|.*current vacancies.*|` +
		`You should be aware of.*|` +
		`They may be used by those companies to build a profile of your.*|` +
		`They may be set by us or by third party providers.*|` +
		`Want the latest recommendations from.*\?|` +
		`Zacks’ free Fund Newsletter.*|` +
		`Privacy Policy|Cookie Policy|Terms and Conditions|This website is operated.*|` +
		`You should do your own.*?research before making any investment decisions.*|` +
		`Advertisement|tap to bring up your browser menu.*|Ways to search.*|` +
		`Related [Aa]rticles.*`)

	spaceExpr = regexp.MustCompile(`\s+`)

	abbreviations = []struct {
		expr *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`U\.S\.A\.?|U\.S\.`), "US"},
		{regexp.MustCompile(`\bMrs\.`), "Mrs"},
		{regexp.MustCompile(`\bMr\.`), "Mr"},
		{regexp.MustCompile(`\bMs\.`), "Ms"},
		{regexp.MustCompile(`\bNo\.`), "Number"},
		{regexp.MustCompile(`\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.`), "$1"},
	}
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func stripPolicy() *bluemonday.Policy {
	policyOnce.Do(func() { policy = bluemonday.StrictPolicy() })
	return policy
}

// CleanFragment turns one paragraph's markup into plain text with boilerplate
// removed and sentence-breaking abbreviations rewritten.
func CleanFragment(fragment string) string {
	text := closingBlockExpr.ReplaceAllString(fragment, ".")
	text = stripPolicy().Sanitize(text)
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = boilerplateExpr.ReplaceAllString(text, "")
	text = strings.TrimSpace(spaceExpr.ReplaceAllString(text, " "))
	for _, ab := range abbreviations {
		text = ab.expr.ReplaceAllString(text, ab.repl)
	}
	return strings.TrimSpace(text)
}

// Clean converts paragraph fragments into sentences of word tokens.
func Clean(fragments []string) []domain.Sentence {
	var cleaned []string
	for _, f := range fragments {
		if text := CleanFragment(f); text != "" {
			cleaned = append(cleaned, text)
		}
	}
	return summarizer.SplitSentences(strings.Join(cleaned, " "))
}
