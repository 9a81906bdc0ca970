// Package dates holds the calendar helpers shared by indexing and scoring:
// report-week boundaries, the house date formats and the date normalizer.
package dates

import "time"

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Week is the tracked report week.
type Week struct {
	Monday time.Time
	Friday time.Time
}

// WeekOf returns the Monday and Friday of the week containing t.
func WeekOf(t time.Time) Week {
	day := Day(t)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	return Week{Monday: monday, Friday: monday.AddDate(0, 0, 4)}
}

// Reference pins "today" and the report week for a whole run.
type Reference struct {
	Today time.Time
	Week  Week
}

// NewReference derives the reference from a single clock reading.
func NewReference(now time.Time) Reference {
	return Reference{Today: Day(now), Week: WeekOf(now)}
}

// DaysBetween returns the whole days from -> to.
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}
