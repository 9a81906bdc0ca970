package domain

import (
	"fmt"
	"strings"
	"time"
)

// AssetClass selects which publishers are visited for a topic.
type AssetClass string

const (
	AssetEquity      AssetClass = "equity"
	AssetFixedIncome AssetClass = "fixed-income"
	AssetCrypto      AssetClass = "crypto"
)

// ParseAssetClass accepts the canonical names plus the legacy "fi" alias.
func ParseAssetClass(value string) (AssetClass, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "equity", "equities":
		return AssetEquity, nil
	case "fixed-income", "fixed_income", "fi":
		return AssetFixedIncome, nil
	case "crypto":
		return AssetCrypto, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAssetClass, value)
}

// Topic pairs a ticker key with the asset class that decides its publishers.
type Topic struct {
	Key        string
	AssetClass AssetClass
}

// ArticleRecord is one candidate article discovered on a listing page.
type ArticleRecord struct {
	Source  string
	Title   string
	RawDate string
	Date    time.Time
	Link    string
	// Order is the position in indexing order and breaks score ties.
	Order int
}

// Sentence is an ordered sequence of word tokens.
type Sentence []string

// Text rejoins the words with single spaces.
func (s Sentence) Text() string {
	return strings.Join(s, " ")
}

// ScoredArticle is an ArticleRecord with its relevance sub-scores.
type ScoredArticle struct {
	Article       ArticleRecord
	Lexical       int
	Topical       int
	Recency       int
	RecencyWeight float64
	Publisher     int
	Composite     float64
}

// ArticleSummary is the extractive summary of one fetched article.
type ArticleSummary struct {
	Article      ArticleRecord
	Summary      string
	Polarity     float64
	Subjectivity float64
}

// CorpusSummary holds the per-article summaries and the summary of summaries.
type CorpusSummary struct {
	Articles []ArticleSummary
	Summary  string
}

// TopicReport is everything a single topic run hands to downstream reporting.
type TopicReport struct {
	RunID       string
	Topic       Topic
	Phrase      string
	Monday      time.Time
	Friday      time.Time
	Ranked      []ScoredArticle
	Corpus      CorpusSummary
	GeneratedAt time.Time
}

// DisplayColumns names the ranked-table columns exposed to reporting.
var DisplayColumns = []string{
	"Source", "Date", "Title", "Link", "Lexical", "Topical",
	"Recency", "Score", "Polarity", "Subjectivity",
}

// DisplayRow is one row of the ranked table restricted to DisplayColumns.
type DisplayRow struct {
	Source       string
	Date         time.Time
	Title        string
	Link         string
	Lexical      int
	Topical      int
	Recency      int
	Score        float64
	Polarity     float64
	Subjectivity float64
	Summarized   bool
}

// DisplayRows returns at most limit rows of the ranked table; limit <= 0 returns all.
func (r TopicReport) DisplayRows(limit int) []DisplayRow {
	tones := make(map[int]ArticleSummary, len(r.Corpus.Articles))
	for _, s := range r.Corpus.Articles {
		tones[s.Article.Order] = s
	}

	n := len(r.Ranked)
	if limit > 0 && limit < n {
		n = limit
	}

	rows := make([]DisplayRow, 0, n)
	for _, art := range r.Ranked[:n] {
		row := DisplayRow{
			Source:  art.Article.Source,
			Date:    art.Article.Date,
			Title:   art.Article.Title,
			Link:    art.Article.Link,
			Lexical: art.Lexical,
			Topical: art.Topical,
			Recency: art.Recency,
			Score:   art.Composite,
		}
		if s, ok := tones[art.Article.Order]; ok {
			row.Polarity = s.Polarity
			row.Subjectivity = s.Subjectivity
			row.Summarized = true
		}
		rows = append(rows, row)
	}
	return rows
}
