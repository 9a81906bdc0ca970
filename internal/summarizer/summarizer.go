// Package summarizer builds extractive summaries by ranking sentences on a
// similarity graph.
package summarizer

import (
	"sort"
	"strings"

	"WeeklyArticles/internal/domain"
)

// CorpusSentences is how many sentences the summary of summaries keeps.
const CorpusSentences = 15

// Rank orders sentences by descending centrality; ties keep input order.
func Rank(sentences []domain.Sentence) ([]domain.Sentence, error) {
	if len(sentences) == 0 {
		return nil, domain.ErrDegenerateSummaryInput
	}
	if len(sentences) == 1 {
		return sentences, nil
	}

	scores, err := pageRank(similarityMatrix(sentences))
	if err != nil {
		return nil, err
	}

	idx := make([]int, len(sentences))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	ranked := make([]domain.Sentence, len(idx))
	for i, k := range idx {
		ranked[i] = sentences[k]
	}
	return ranked, nil
}

// Summarize joins the topN most central sentences. A topN of zero or less
// keeps every sentence. Degenerate input yields "".
func Summarize(sentences []domain.Sentence, topN int) string {
	ranked, err := Rank(sentences)
	if err != nil {
		return ""
	}
	if topN > 0 && topN < len(ranked) {
		ranked = ranked[:topN]
	}

	parts := make([]string, len(ranked))
	for i, s := range ranked {
		parts[i] = s.Text()
	}
	text := strings.Join(parts, ". ")
	for strings.Contains(text, ".. ") {
		text = strings.ReplaceAll(text, ".. ", ". ")
	}
	return text
}

// SummarizeCorpus re-summarizes the concatenation of per-article summaries.
func SummarizeCorpus(summaries []string, topN int) string {
	var nonEmpty []string
	for _, s := range summaries {
		if s = strings.TrimSpace(s); s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return Summarize(SplitSentences(strings.Join(nonEmpty, " ")), topN)
}

// SplitSentences breaks text on ". " and splits each sentence into words.
// Every sentence ends with a period.
func SplitSentences(text string) []domain.Sentence {
	var out []domain.Sentence
	for _, part := range strings.Split(text, ". ") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.HasSuffix(part, ".") {
			part += "."
		}
		out = append(out, domain.Sentence(strings.Fields(part)))
	}
	return out
}
