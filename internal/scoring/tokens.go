package scoring

import (
	"regexp"
	"strings"
)

// wordExpr keeps joined forms like "S&P", "U.S" and "year-end" whole and
// splits every other punctuation mark into its own token.
var wordExpr = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’.&-][\p{L}\p{N}]+)*|[^\s\p{L}\p{N}]`)

// Tokenize splits text into word and punctuation tokens. A possessive "'s"
// becomes its own token so "Bitcoin's" still counts as "Bitcoin".
func Tokenize(text string) []string {
	words := wordExpr.FindAllString(text, -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if base, suffix, ok := splitPossessive(w); ok {
			out = append(out, base, suffix)
			continue
		}
		out = append(out, w)
	}
	return out
}

func splitPossessive(word string) (string, string, bool) {
	for _, apostrophe := range []string{"'", "’"} {
		for _, s := range []string{"s", "S"} {
			suffix := apostrophe + s
			if len(word) > len(suffix) && strings.HasSuffix(word, suffix) {
				return word[:len(word)-len(suffix)], suffix, true
			}
		}
	}
	return "", "", false
}

// ngrams returns the distinct unigrams, bigrams and trigrams of a phrase in
// first-seen order.
func ngrams(phrase string) []string {
	tokens := Tokenize(phrase)
	seen := map[string]struct{}{}
	var out []string
	add := func(gram string) {
		gram = strings.ToUpper(gram)
		if _, ok := seen[gram]; ok {
			return
		}
		seen[gram] = struct{}{}
		out = append(out, gram)
	}
	for n := 1; n <= 3; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			add(strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
