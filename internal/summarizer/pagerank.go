package summarizer

import (
	"math"

	"WeeklyArticles/internal/domain"
)

const (
	damping       = 0.85
	maxIterations = 100
	tolerance     = 1e-6
)

// pageRank runs weighted power iteration over a symmetric weight matrix.
// Rows with no weight link to every node uniformly.
func pageRank(weights [][]float64) ([]float64, error) {
	n := len(weights)
	if n == 0 {
		return nil, domain.ErrDegenerateSummaryInput
	}

	rowSums := make([]float64, n)
	for i, row := range weights {
		for _, w := range row {
			rowSums[i] += w
		}
	}

	uniform := 1 / float64(n)
	rank := make([]float64, n)
	for i := range rank {
		rank[i] = uniform
	}

	next := make([]float64, n)
	for iter := 0; iter < maxIterations; iter++ {
		var dangling float64
		for i := range rank {
			if rowSums[i] == 0 {
				dangling += rank[i]
			}
		}
		for j := range next {
			next[j] = (1-damping)*uniform + damping*dangling*uniform
		}
		for i, row := range weights {
			if rowSums[i] == 0 {
				continue
			}
			share := damping * rank[i] / rowSums[i]
			for j, w := range row {
				next[j] += share * w
			}
		}

		var diff float64
		for i := range rank {
			diff += math.Abs(next[i] - rank[i])
		}
		rank, next = next, rank
		if diff < float64(n)*tolerance {
			return rank, nil
		}
	}
	return nil, domain.ErrDegenerateSummaryInput
}
