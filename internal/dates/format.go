package dates

import (
	"fmt"
	"time"
)

// Style selects one of the report date formats.
type Style int

const (
	StyleShort Style = iota
	StyleTitle
	StyleTitleWeek
)

const (
	shortLayout   = "Mon 02-Jan-06"
	numericLayout = "Mon 02-01-06"
)

// Format renders d for report headings.
func Format(d time.Time, style Style) string {
	s := d.Format(shortLayout)
	if style == StyleTitleWeek {
		s += fmt.Sprintf(" (Week: %02d)", SundayWeek(d))
	}
	return s
}

// FormatNumeric renders d as "Mon 02-01-06".
func FormatNumeric(d time.Time) string {
	return d.Format(numericLayout)
}

// ParseShort reads the "Mon 02-01-06" form produced by FormatNumeric.
func ParseShort(s string) (time.Time, error) {
	t, err := time.Parse(numericLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse short date %q: %w", s, err)
	}
	return t, nil
}

// SundayWeek is the week of the year counting weeks that start on Sunday;
// days before the first Sunday are in week 0.
func SundayWeek(d time.Time) int {
	yday := d.YearDay() - 1
	return (yday + 7 - int(d.Weekday())) / 7
}
