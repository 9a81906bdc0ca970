// Package sourcepattern holds the per-publisher extraction rules used to index
// listing pages and to pull paragraphs out of article pages.
package sourcepattern

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// QueryPlaceholder marks where the escaped search phrase goes in a SearchURL.
const QueryPlaceholder = "{query}"

// Field locates one value inside an article block.
type Field struct {
	Selector string
	// Attr reads an attribute instead of the element text.
	Attr  string
	Index int
	Strip *regexp.Regexp
}

// Empty reports whether the field has no selector configured.
func (f Field) Empty() bool {
	return f.Selector == ""
}

// Extract returns the trimmed value of the field within block and whether the
// selector matched at all.
func (f Field) Extract(block *goquery.Selection) (string, bool) {
	if f.Empty() || block == nil {
		return "", false
	}
	matches := block.Find(f.Selector)
	if f.Index >= matches.Length() {
		return "", false
	}
	node := matches.Eq(f.Index)

	var value string
	if f.Attr != "" {
		attr, ok := node.Attr(f.Attr)
		if !ok {
			return "", false
		}
		value = attr
	} else {
		value = node.Text()
	}
	if f.Strip != nil {
		value = f.Strip.ReplaceAllString(value, "")
	}
	return strings.Join(strings.Fields(value), " "), true
}

// ListingPattern describes how to find candidate articles on a publisher's
// listing or search page.
type ListingPattern struct {
	Key  string
	Name string
	// Aggregator pages list stories from other publishers.
	Aggregator bool
	BaseURL    string
	// SearchURL carries QueryPlaceholder; empty means BaseURL is a fixed section page.
	SearchURL string
	Article   string
	Titles    []Field
	Link      Field
	Date      Field
	Publisher Field
}

// Target builds the navigation URL for a search phrase.
func (p ListingPattern) Target(phrase string) string {
	if p.SearchURL == "" {
		return p.BaseURL
	}
	return strings.ReplaceAll(p.SearchURL, QueryPlaceholder, url.QueryEscape(phrase))
}

// BodyPattern describes where the paragraphs of an article page live.
type BodyPattern struct {
	Key  string
	Name string
	// Scope restricts paragraph matching to the given containers when set.
	Scope      string
	Paragraphs []string
}

// Selector joins the paragraph selectors into one CSS group.
func (p BodyPattern) Selector() string {
	return strings.Join(p.Paragraphs, ", ")
}
