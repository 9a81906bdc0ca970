package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WeeklyArticles/internal/dates"
	"WeeklyArticles/internal/domain"
)

var testWeek = dates.WeekOf(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

func testScorer() *Scorer {
	lex := NewLexicon([]string{"surges", "Accelerates"}, []string{"FEARS"})
	return NewScorer(lex, DefaultWeights(), nil, nil)
}

func records(source string, titles ...string) []domain.ArticleRecord {
	out := make([]domain.ArticleRecord, len(titles))
	for i, title := range titles {
		out[i] = domain.ArticleRecord{
			Source: source,
			Title:  title,
			Date:   testWeek.Monday.AddDate(0, 0, 2),
			Link:   "https://example.com/" + title,
			Order:  i,
		}
	}
	return out
}

func titlesOf(scored []domain.ScoredArticle) []string {
	out := make([]string, len(scored))
	for i, sa := range scored {
		out[i] = sa.Article.Title
	}
	return out
}

func TestScoreBitcoinScenario(t *testing.T) {
	t.Parallel()

	recs := records("coindesk",
		"Bitcoin surges 10%",
		"Market flat today",
		"Crypto regulation fears grow",
		"Unrelated sports news",
		"Bitcoin adoption accelerates",
	)

	scored := testScorer().Score(recs, "Bitcoin", testWeek)
	require.Len(t, scored, 5)

	rank := map[string]int{}
	for i, sa := range scored {
		rank[sa.Article.Title] = i
	}
	for _, title := range []string{"Bitcoin surges 10%", "Crypto regulation fears grow", "Bitcoin adoption accelerates"} {
		assert.Less(t, rank[title], rank["Unrelated sports news"], title)
	}

	top := titlesOf(Top(scored, 3))
	assert.Contains(t, top, "Bitcoin surges 10%")
	assert.Contains(t, top, "Bitcoin adoption accelerates")

	assert.Equal(t, 1, scored[0].Lexical)
	assert.Equal(t, 1, scored[0].Topical)
	assert.Equal(t, "Bitcoin surges 10%", scored[0].Article.Title)
	assert.Equal(t, "Bitcoin adoption accelerates", scored[1].Article.Title)
}

func TestScoreIsPureAndStable(t *testing.T) {
	t.Parallel()

	recs := records("SomeBlogXYZ", "Gold edges up", "Gold edges up", "Oil slips", "Gold edges up")
	s := testScorer()

	first := s.Score(recs, "Gold Futures", testWeek)
	second := s.Score(recs, "Gold Futures", testWeek)
	assert.Equal(t, first, second)

	var orders []int
	for _, sa := range first {
		if sa.Article.Title == "Gold edges up" {
			orders = append(orders, sa.Article.Order)
		}
	}
	assert.Equal(t, []int{0, 1, 3}, orders)
	assert.Equal(t, "Oil slips", recs[2].Title)
}

func TestPublisherTierGap(t *testing.T) {
	t.Parallel()

	recs := append(records("Reuters", "Fed holds rates"), records("SomeBlogXYZ", "Fed holds rates")...)
	recs[1].Order = 1

	scored := testScorer().Score(recs, "US Yield Curve", testWeek)
	require.Len(t, scored, 2)
	assert.Equal(t, "Reuters", scored[0].Article.Source)
	assert.InDelta(t, 75, scored[0].Composite-scored[1].Composite, 1e-9)
}

func TestPublisherScore(t *testing.T) {
	t.Parallel()

	s := testScorer()
	assert.Equal(t, 50, s.PublisherScore("The Wall Street Journal"))
	assert.Equal(t, 25, s.PublisherScore(" Barron's "))
	assert.Equal(t, -25, s.PublisherScore("Google"))

	custom := NewScorer(nil, DefaultWeights(), []string{"Google"}, nil)
	assert.Equal(t, 50, custom.PublisherScore("google"))
	assert.Equal(t, -25, custom.PublisherScore("Reuters"))
}

func TestTopicalCountsNgrams(t *testing.T) {
	t.Parallel()

	recs := records("x", "S&P 500 rallies as US markets cheer", "Nothing here")
	scored := testScorer().Score(recs, "S&P 500 US Markets", testWeek)

	// S&P, 500, US, MARKETS, "S&P 500", "US MARKETS"
	assert.Equal(t, 6, scored[0].Topical)
	assert.Equal(t, 0, scored[1].Topical)
}

func TestRecencyWeight(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0, RecencyWeight(1), 0)
	assert.InDelta(t, -0.5, RecencyWeight(0), 0)
	assert.InDelta(t, -8.154845, RecencyWeight(-1), 1e-9)
	assert.InDelta(t, round6(5*math.Log(7)), RecencyWeight(7), 0)

	prev := math.Inf(1)
	for score := 7; score >= -30; score-- {
		w := RecencyWeight(score)
		assert.LessOrEqualf(t, w, prev, "score %d", score)
		prev = w
	}
}

func TestRecency(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, Recency(testWeek.Friday, testWeek))
	assert.Equal(t, 7, Recency(testWeek.Friday.AddDate(0, 0, 2), testWeek))
	assert.Equal(t, 3, Recency(testWeek.Monday, testWeek))
	assert.Equal(t, 0, Recency(testWeek.Friday.AddDate(0, 0, -7), testWeek))
	assert.Equal(t, -1, Recency(testWeek.Friday.AddDate(0, 0, -8), testWeek))

	prev := math.Inf(1)
	for back := 0; back < 30; back++ {
		w := RecencyWeight(Recency(testWeek.Friday.AddDate(0, 0, -back), testWeek))
		assert.LessOrEqual(t, w, prev)
		prev = w
	}
}

func TestTone(t *testing.T) {
	t.Parallel()

	lex := NewLexicon([]string{"gain", "strong"}, []string{"loss"})

	pol, subj := lex.Tone([]string{"Strong", "gain", "offset", "a", "small", "loss."})
	assert.InDelta(t, 100.0/3, pol, 1e-9)
	assert.InDelta(t, 50, subj, 1e-9)

	pol, subj = lex.Tone([]string{"nothing", "matched"})
	assert.Zero(t, pol)
	assert.Zero(t, subj)

	pol, subj = lex.Tone(nil)
	assert.Zero(t, pol)
	assert.Zero(t, subj)
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Bitcoin", "surges", "10", "%"}, Tokenize("Bitcoin surges 10%"))
	assert.Equal(t, []string{"S&P", "500", "hits", "U.S", "."}, Tokenize("S&P 500 hits U.S."))
	assert.Equal(t, []string{"Bitcoin", "'s", "rally", "ends"}, Tokenize("Bitcoin's rally ends"))
	assert.Equal(t, []string{"FED", "’S", "GAINS"}, Tokenize("FED’S GAINS"))
	assert.Equal(t, []string{"year-end", "rock'n'roll"}, Tokenize("year-end rock'n'roll"))
}

func TestPossessiveCountsTowardLexical(t *testing.T) {
	t.Parallel()

	lex := NewLexicon([]string{"gains"}, []string{"losses"})
	assert.Equal(t, 2, lex.Intensity("Gains's losses's"))
	pos, neg := lex.Counts(Tokenize("LOSSES’S mount"))
	assert.Equal(t, 0, pos)
	assert.Equal(t, 1, neg)
}
