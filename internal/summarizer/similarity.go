package summarizer

import (
	"math"
	"strings"

	"WeeklyArticles/internal/domain"
)

// termCounts lower-cases words and counts everything that is not a stop word.
func termCounts(s domain.Sentence) map[string]float64 {
	counts := make(map[string]float64, len(s))
	for _, w := range s {
		w = strings.ToLower(w)
		if isStopword(w) {
			continue
		}
		counts[w]++
	}
	return counts
}

// cosine is the cosine similarity of two term-count vectors. A vector with
// no terms is similar to nothing.
func cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for w, x := range a {
		na += x * x
		dot += x * b[w]
	}
	for _, y := range b {
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// similarityMatrix compares every pair of sentences, the diagonal included.
func similarityMatrix(sentences []domain.Sentence) [][]float64 {
	vectors := make([]map[string]float64, len(sentences))
	for i, s := range sentences {
		vectors[i] = termCounts(s)
	}
	m := make([][]float64, len(sentences))
	for i := range m {
		m[i] = make([]float64, len(sentences))
		for j := range m[i] {
			if j < i {
				m[i][j] = m[j][i]
				continue
			}
			m[i][j] = cosine(vectors[i], vectors[j])
		}
	}
	return m
}
