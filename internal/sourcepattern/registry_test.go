package sourcepattern

import (
	"regexp"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryListings(t *testing.T) {
	t.Parallel()

	reg := NewDefaultRegistry()
	assert.Equal(t, []string{"bloomberg", "coindesk", "google", "seeking_alpha", "wsj"}, reg.ListingKeys())

	google, ok := reg.Listing("google")
	require.True(t, ok)
	assert.True(t, google.Aggregator)
	assert.Equal(t, "https://news.google.com/search?q=Bitcoin+ETF", google.Target("Bitcoin ETF"))

	coindesk, ok := reg.Listing("coindesk")
	require.True(t, ok)
	assert.Equal(t, "https://www.coindesk.com/category/markets", coindesk.Target("ignored"))

	_, ok = reg.Listing("myspace")
	assert.False(t, ok)
}

func TestBodyFallsBackToUnion(t *testing.T) {
	t.Parallel()

	reg := NewDefaultRegistry()

	wsj := reg.Body("wsj")
	assert.Equal(t, "WSJ", wsj.Name)

	unknown := reg.Body("someblogxyz")
	assert.Equal(t, UnknownPublisher, unknown.Key)
	assert.Empty(t, unknown.Scope)
	assert.Contains(t, unknown.Paragraphs, "p")
	assert.Contains(t, unknown.Paragraphs, "li[class^='abstract-item']")
	assert.Contains(t, unknown.Paragraphs, "h1[data-test-id='post-title']")

	counts := map[string]int{}
	for _, sel := range unknown.Paragraphs {
		counts[sel]++
	}
	for sel, n := range counts {
		assert.Equalf(t, 1, n, "selector %q repeated", sel)
	}
}

func TestEmptyRegistryFallbackIsEmpty(t *testing.T) {
	t.Parallel()

	var reg Registry
	assert.Empty(t, reg.Body("x").Paragraphs)
	reg.RegisterBody(BodyPattern{Key: "a", Paragraphs: []string{"p"}})
	assert.Equal(t, "p", reg.Body("b").Selector())
}

func TestFieldExtract(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<article>
			<a href="./articles/one">  First
			 title </a>
			<a href="./articles/two">Second</a>
			<time datetime="2024-01-05T10:00:00Z">5 days</time>
		</article>`))
	require.NoError(t, err)
	block := doc.Find("article").First()

	title, ok := Field{Selector: "a"}.Extract(block)
	require.True(t, ok)
	assert.Equal(t, "First title", title)

	second, ok := Field{Selector: "a", Index: 1}.Extract(block)
	require.True(t, ok)
	assert.Equal(t, "Second", second)

	date, ok := Field{Selector: "time", Attr: "datetime", Strip: regexp.MustCompile(`T.*$`)}.Extract(block)
	require.True(t, ok)
	assert.Equal(t, "2024-01-05", date)

	_, ok = Field{Selector: "a", Index: 2}.Extract(block)
	assert.False(t, ok)
	_, ok = Field{Selector: "time", Attr: "title"}.Extract(block)
	assert.False(t, ok)
	_, ok = Field{}.Extract(block)
	assert.False(t, ok)
}
