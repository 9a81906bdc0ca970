package summarizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WeeklyArticles/internal/domain"
)

func words(s string) domain.Sentence {
	return domain.Sentence(strings.Fields(s))
}

func TestSummarizeDegenerate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Summarize(nil, 5))
	assert.Equal(t, "", Summarize([]domain.Sentence{}, 5))
	assert.Equal(t, "Bitcoin rallied.", Summarize([]domain.Sentence{words("Bitcoin rallied.")}, 5))
}

func TestRankPrefersCentralSentences(t *testing.T) {
	t.Parallel()

	sentences := []domain.Sentence{
		words("weather sunny."),
		words("bitcoin price rallied."),
		words("bitcoin price fell."),
		words("bitcoin miners protest."),
	}
	ranked, err := Rank(sentences)
	require.NoError(t, err)
	require.Len(t, ranked, 4)

	top := []string{ranked[0].Text(), ranked[1].Text()}
	assert.ElementsMatch(t, []string{"bitcoin price rallied.", "bitcoin price fell."}, top)
}

func TestRankKeepsInputOrderOnTies(t *testing.T) {
	t.Parallel()

	sentences := []domain.Sentence{words("Gold rose."), words("GOLD ROSE."), words("gold Rose.")}
	ranked, err := Rank(sentences)
	require.NoError(t, err)
	assert.Equal(t, sentences, ranked)

	_, err = Rank(nil)
	assert.True(t, errors.Is(err, domain.ErrDegenerateSummaryInput))
}

func TestSummarizeJoinsAndTrims(t *testing.T) {
	t.Parallel()

	sentences := []domain.Sentence{words("Gold rose."), words("GOLD ROSE."), words("gold Rose.")}
	assert.Equal(t, "Gold rose. GOLD ROSE. gold Rose.", Summarize(sentences, 0))
	assert.Equal(t, "Gold rose. GOLD ROSE.", Summarize(sentences, 2))
	assert.Equal(t, "Gold rose. GOLD ROSE. gold Rose.", Summarize(sentences, 99))
}

func TestSummarizeHandlesStopwordOnlySentence(t *testing.T) {
	t.Parallel()

	sentences := []domain.Sentence{words("the and"), words("yields climbed."), words("yields climbed again.")}
	summary := Summarize(sentences, 0)
	assert.NotContains(t, summary, "NaN")
	assert.Len(t, strings.Split(summary, ". "), 3)
}

func TestSummarizeCorpus(t *testing.T) {
	t.Parallel()

	summary := SummarizeCorpus([]string{"Stocks rose. Bonds fell.", "  ", "Gold rose."}, CorpusSentences)
	parts := strings.Split(summary, ". ")
	assert.Len(t, parts, 3)
	for _, want := range []string{"Stocks rose", "Bonds fell", "Gold rose"} {
		assert.Contains(t, summary, want)
	}
	assert.NotContains(t, summary, "..")

	assert.Equal(t, "", SummarizeCorpus(nil, CorpusSentences))
}

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []domain.Sentence{{"One."}, {"Two", "words."}}, SplitSentences("One. Two words"))
	assert.Empty(t, SplitSentences("   "))
}

func TestCosine(t *testing.T) {
	t.Parallel()

	a := termCounts(words("Bitcoin price rallied"))
	b := termCounts(words("bitcoin PRICE fell"))
	assert.InDelta(t, 2.0/3, cosine(a, b), 1e-12)
	assert.InDelta(t, 1, cosine(a, a), 1e-12)
	assert.Zero(t, cosine(termCounts(words("the and of")), a))
}

func TestPageRankSumsToOne(t *testing.T) {
	t.Parallel()

	m := similarityMatrix([]domain.Sentence{
		words("alpha beta"), words("beta gamma"), words("the"), words("delta"),
	})
	rank, err := pageRank(m)
	require.NoError(t, err)

	var total float64
	for _, r := range rank {
		assert.Greater(t, r, 0.0)
		total += r
	}
	assert.InDelta(t, 1, total, 1e-6)
}
