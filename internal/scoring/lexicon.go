package scoring

import "strings"

// Lexicon is the pair of finance term sets used for lexical intensity and tone.
type Lexicon struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

// NewLexicon upper-cases and stores both term lists.
func NewLexicon(positive, negative []string) *Lexicon {
	return &Lexicon{positive: termSet(positive), negative: termSet(negative)}
}

func termSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

// Size reports how many positive and negative terms are loaded.
func (l *Lexicon) Size() (positive, negative int) {
	if l == nil {
		return 0, 0
	}
	return len(l.positive), len(l.negative)
}

// Counts returns how many tokens longer than one character hit each list.
func (l *Lexicon) Counts(tokens []string) (positive, negative int) {
	if l == nil {
		return 0, 0
	}
	for _, tok := range tokens {
		if len([]rune(tok)) <= 1 {
			continue
		}
		tok = strings.ToUpper(tok)
		if _, ok := l.positive[tok]; ok {
			positive++
		}
		if _, ok := l.negative[tok]; ok {
			negative++
		}
	}
	return positive, negative
}

// Intensity is the unsigned count of finance terms in a title.
func (l *Lexicon) Intensity(title string) int {
	pos, neg := l.Counts(Tokenize(title))
	return pos + neg
}

// Tone returns polarity and subjectivity percentages for a body of words.
// Polarity is the positive share minus the negative share of matched terms;
// subjectivity is the share of tokens that matched any term. Both are zero
// when undefined.
func (l *Lexicon) Tone(words []string) (polarity, subjectivity float64) {
	var tokens []string
	for _, w := range words {
		tokens = append(tokens, Tokenize(w)...)
	}
	pos, neg := l.Counts(tokens)
	matched := pos + neg
	if matched == 0 || len(tokens) == 0 {
		return 0, 0
	}
	polarity = 100 * float64(pos-neg) / float64(matched)
	subjectivity = 100 * float64(matched) / float64(len(tokens))
	return polarity, subjectivity
}
