package sourcepattern

import "regexp"

var isoTimeSuffix = regexp.MustCompile(`T.*$`)

// NewDefaultRegistry returns a registry with the builtin publishers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range builtinListings() {
		r.RegisterListing(p)
	}
	for _, p := range builtinBodies() {
		r.RegisterBody(p)
	}
	return r
}

func builtinListings() []ListingPattern {
	return []ListingPattern{
		{
			Key:     "coindesk",
			Name:    "coindesk",
			BaseURL: "https://www.coindesk.com/category/markets",
			Article: "div.card-text-block, div.list-item-card.post",
			Titles: []Field{
				{Selector: "a[title]", Attr: "title"},
				{Selector: "a[href]"},
			},
			Link: Field{Selector: "a[href]", Attr: "href"},
			Date: Field{Selector: "span.card-date, time.time"},
		},
		{
			Key:     "bloomberg",
			Name:    "bloomberg",
			BaseURL: "https://www.bloomberg.com",
			Article: "div.card-text-block, div.list-item-card.post",
			Titles: []Field{
				{Selector: "a[title]", Attr: "title"},
				{Selector: "a[href]"},
			},
			Link: Field{Selector: "a[href]", Attr: "href"},
			Date: Field{Selector: "span.card-date, time.time"},
		},
		{
			Key:        "google",
			Name:       "Google",
			Aggregator: true,
			BaseURL:    "https://news.google.com",
			SearchURL:  "https://news.google.com/search?q=" + QueryPlaceholder,
			Article:    "article",
			Titles: []Field{
				{Selector: "h3 a[href^='./articles/'], h4 a[href^='./articles/']"},
				{Selector: "a[href^='./articles/']", Index: 1},
			},
			Link:      Field{Selector: "a[href^='./articles/']", Attr: "href"},
			Date:      Field{Selector: "time[datetime]", Attr: "datetime", Strip: isoTimeSuffix},
			Publisher: Field{Selector: "a[href^='./publications/'], a[data-n-tid]"},
		},
		{
			Key:       "seeking_alpha",
			Name:      "seeking_alpha",
			BaseURL:   "https://seekingalpha.com",
			SearchURL: "https://seekingalpha.com/search?list=all&q=" + QueryPlaceholder + "&tab=headlines",
			Article:   "article",
			Titles: []Field{
				{Selector: "a[href^='/article/'], a[href^='/news/']"},
			},
			Link: Field{Selector: "a[href^='/article/'], a[href^='/news/']", Attr: "href"},
			Date: Field{Selector: "span[data-test-id='post-list-date']"},
		},
		{
			Key:       "wsj",
			Name:      "wsj",
			BaseURL:   "https://www.wsj.com",
			SearchURL: "https://www.wsj.com/search?query=" + QueryPlaceholder + "&mod=searchresults_viewallresults",
			Article:   "article",
			Titles: []Field{
				{Selector: "span[class*='headlineText']"},
				{Selector: "a[href]"},
			},
			Link: Field{Selector: "a[href]", Attr: "href"},
			Date: Field{Selector: "p[class*='timestamp']"},
		},
	}
}

func builtinBodies() []BodyPattern {
	return []BodyPattern{
		{
			Key:        "bloomberg",
			Name:       "Bloomberg",
			Paragraphs: []string{"p", "p.paywall", "h1[class]", "li[class^='abstract-item']"},
		},
		{
			Key:        "coindesk",
			Name:       "Coin Desk",
			Paragraphs: []string{"p", "b", "h1[class]", "h2[class]", "h3[class]"},
		},
		{
			Key:        "forbes",
			Name:       "Forbes",
			Paragraphs: []string{"p"},
		},
		{
			Key:        "nytimes",
			Name:       "NYT",
			Paragraphs: []string{"p"},
		},
		{
			Key:        "reuters",
			Name:       "Reuters",
			Paragraphs: []string{"p[data-testid]", "p"},
		},
		{
			Key:        "seekingalpha",
			Name:       "Seeking Alpha",
			Paragraphs: []string{"p", "h1[data-test-id='post-title']"},
		},
		{
			Key:        "yahoo",
			Name:       "Yahoo Finance",
			Scope:      "div.caas-body",
			Paragraphs: []string{"p"},
		},
		{
			Key:        "wsj",
			Name:       "WSJ",
			Paragraphs: []string{"p", "p[data-type='paragraph']"},
		},
	}
}
