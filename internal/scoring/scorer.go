// Package scoring ranks indexed articles by finance-term intensity, topic
// overlap, recency and publisher trust.
package scoring

import (
	"sort"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"WeeklyArticles/internal/dates"
	"WeeklyArticles/internal/domain"
)

// Weights are the tunable constants of the composite score.
type Weights struct {
	Lexical   float64
	Topical   float64
	Ideal     int
	Preferred int
	Other     int
}

// DefaultWeights returns the stock weighting.
func DefaultWeights() Weights {
	return Weights{Lexical: 20, Topical: 20, Ideal: 50, Preferred: 25, Other: -25}
}

// DefaultIdealPublishers are trusted outlets with dedicated body patterns.
var DefaultIdealPublishers = []string{
	"coindesk", "forbes", "reuters", "seeking alpha", "yahoo finance",
	"the new york times", "the wall street journal",
}

// DefaultPreferredPublishers are reputable outlets without dedicated patterns.
var DefaultPreferredPublishers = []string{
	"nasdaq", "barron's", "marketwatch", "cnbc", "morningstar",
	"cnn", "fox business", "zacks investment research", "thestreet",
	"financial times", "investing.com", "dailyfx",
}

// Scorer computes composite scores. It holds no mutable state.
type Scorer struct {
	lexicon   *Lexicon
	weights   Weights
	ideal     map[string]struct{}
	preferred map[string]struct{}
}

// NewScorer builds a scorer. Empty publisher tiers fall back to the defaults.
func NewScorer(lex *Lexicon, w Weights, ideal, preferred []string) *Scorer {
	if len(ideal) == 0 {
		ideal = DefaultIdealPublishers
	}
	if len(preferred) == 0 {
		preferred = DefaultPreferredPublishers
	}
	return &Scorer{
		lexicon:   lex,
		weights:   w,
		ideal:     lowerSet(ideal),
		preferred: lowerSet(preferred),
	}
}

func lowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[strings.ToLower(strings.TrimSpace(it))] = struct{}{}
	}
	return set
}

// Score returns the records with their sub-scores, ordered by descending
// composite score. Ties keep indexing order.
func (s *Scorer) Score(records []domain.ArticleRecord, topicPhrase string, week dates.Week) []domain.ScoredArticle {
	grams := ngrams(topicPhrase)
	var matcher *ahocorasick.Matcher
	if len(grams) > 0 {
		matcher = ahocorasick.NewStringMatcher(grams)
	}

	scored := make([]domain.ScoredArticle, 0, len(records))
	for _, rec := range records {
		sa := domain.ScoredArticle{Article: rec}
		sa.Lexical = s.lexicon.Intensity(rec.Title)
		if matcher != nil {
			sa.Topical = len(matcher.Match([]byte(strings.ToUpper(rec.Title))))
		}
		sa.Recency = Recency(rec.Date, week)
		sa.RecencyWeight = RecencyWeight(sa.Recency)
		sa.Publisher = s.PublisherScore(rec.Source)
		sa.Composite = s.weights.Lexical*float64(sa.Lexical) +
			s.weights.Topical*float64(sa.Topical) +
			sa.RecencyWeight +
			float64(sa.Publisher)
		scored = append(scored, sa)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Composite != scored[j].Composite {
			return scored[i].Composite > scored[j].Composite
		}
		return scored[i].Article.Order < scored[j].Article.Order
	})
	return scored
}

// PublisherScore maps a publisher name onto its trust tier.
func (s *Scorer) PublisherScore(publisher string) int {
	name := strings.ToLower(strings.TrimSpace(publisher))
	if _, ok := s.ideal[name]; ok {
		return s.weights.Ideal
	}
	if _, ok := s.preferred[name]; ok {
		return s.weights.Preferred
	}
	return s.weights.Other
}

// Top returns at most n of the highest ranked articles.
func Top(scored []domain.ScoredArticle, n int) []domain.ScoredArticle {
	if n < 0 || n >= len(scored) {
		return scored
	}
	return scored[:n]
}
