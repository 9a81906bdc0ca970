package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"

	"WeeklyArticles/internal/domain"
)

var (
	recentExpr  = regexp.MustCompile(`(?i)\b\d+\s*(hours?|hrs?|minutes?|mins?)\s+ago\b`)
	daysAgoExpr = regexp.MustCompile(`(?i)\b(\d{1,2})\s+days?\s+ago\b`)
)

// Sunday is the day before the tracked week, not its last day.
var weekdayOffsets = []struct {
	name   string
	offset int
}{
	{"monday", 0},
	{"tuesday", 1},
	{"wednesday", 2},
	{"thursday", 3},
	{"friday", 4},
	{"saturday", 5},
	{"sunday", -1},
}

// Tried against a trailing substring so "Updated: " style prefixes drop out.
var layoutAttempts = []struct {
	layout string
	tail   int
}{
	{"Jan 2, 2006", 12},
	{"Mon, Jan. 2", 12},
	{"Mon, January 2", 12},
	{"Mon, January 2", 11},
	{"Jan 2, 2006", 13},
}

var inferTails = []int{12, 11, 13, 0}

// Layouts tried on whole-word candidates when the fixed tails cut into a word.
var wordLayouts = []string{
	"Mon, January 2",
	"Mon, Jan 2",
	"Mon, Jan. 2",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2",
	"Jan 2",
	"Jan. 2",
}

var (
	leadingWeekdayExpr = regexp.MustCompile(`(?i)^(mon|tue|tues|wed|thu|thur|thurs|fri|sat|sun)[a-z]*\.?,\s*`)
	monthExpr          = regexp.MustCompile(`(?i)\b(jan(uary)?|feb(ruary)?|mar(ch)?|apr(il)?|may|june?|july?|aug(ust)?|sept?(ember)?|oct(ober)?|nov(ember)?|dec(ember)?)\b`)
	numericDateExpr    = regexp.MustCompile(`\d{1,4}[/.-]\d{1,2}[/.-]\d{1,4}`)
)

// Normalize turns a publisher date string into a calendar date. Stages run in
// order and the first success wins: keywords, ISO, fixed layouts, inference.
func Normalize(raw string, ref Reference) (time.Time, error) {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)

	switch {
	case strings.Contains(lower, "today"):
		return ref.Today, nil
	case strings.Contains(lower, "yesterday"):
		return ref.Today.AddDate(0, 0, -1), nil
	case strings.Contains(lower, "hours ago"), recentExpr.MatchString(s):
		return ref.Today, nil
	}

	if m := daysAgoExpr.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return ref.Today.AddDate(0, 0, -n), nil
	}

	for _, wd := range weekdayOffsets {
		if strings.Contains(lower, wd.name) {
			return ref.Week.Monday.AddDate(0, 0, wd.offset), nil
		}
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}

	for _, attempt := range layoutAttempts {
		if t, err := time.Parse(attempt.layout, tail(s, attempt.tail)); err == nil {
			return withYear(t, ref), nil
		}
	}

	candidates := wordCandidates(s)
	for _, c := range candidates {
		for _, layout := range wordLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return withYear(t, ref), nil
			}
		}
	}

	var inferred []string
	for _, n := range inferTails {
		if c := strings.TrimSpace(tail(s, n)); c != "" && startsAtWord(s, c) {
			inferred = append(inferred, c)
		}
	}
	for _, c := range append(inferred, candidates...) {
		c = leadingWeekdayExpr.ReplaceAllString(c, "")
		if !hasMonth(c) {
			continue
		}
		if t, err := dateparse.ParseIn(c, time.UTC); err == nil {
			return withYear(Day(t), ref), nil
		}
	}

	return time.Time{}, &domain.DateParseError{Raw: raw}
}

// wordCandidates are the whole string, the text after the last ": " and
// both with a leading weekday removed.
func wordCandidates(s string) []string {
	base := []string{s}
	if i := strings.LastIndex(s, ": "); i >= 0 {
		base = append(base, strings.TrimSpace(s[i+2:]))
	}
	out := append([]string(nil), base...)
	for _, c := range base {
		if stripped := leadingWeekdayExpr.ReplaceAllString(c, ""); stripped != c && stripped != "" {
			out = append(out, stripped)
		}
	}
	return out
}

// startsAtWord reports whether the suffix c of s does not begin mid-word.
func startsAtWord(s, c string) bool {
	i := strings.LastIndex(s, c)
	if i <= 0 {
		return true
	}
	prev := []rune(s[:i])
	r := prev[len(prev)-1]
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// hasMonth keeps bare numbers such as "2024" away from inference.
func hasMonth(s string) bool {
	return monthExpr.MatchString(s) || numericDateExpr.MatchString(s)
}

func tail(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// withYear substitutes the reference year when the source string had none.
func withYear(t time.Time, ref Reference) time.Time {
	if t.Year() != 0 {
		return Day(t)
	}
	return time.Date(ref.Today.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
