package scoring

import (
	"math"
	"time"

	"WeeklyArticles/internal/dates"
)

// Recency is 7 on the report Friday, one less for each day before it, and
// capped at 7 for later dates.
func Recency(date time.Time, week dates.Week) int {
	days := dates.DaysBetween(date, week.Friday)
	return min(-(days - 7), 7)
}

// RecencyWeight bends a recency score: log growth above zero, exponential
// penalty below it, a small constant penalty at zero.
func RecencyWeight(score int) float64 {
	switch {
	case score > 0:
		return round6(5 * math.Log(float64(score)))
	case score < 0:
		return -round6(3 * math.Exp(math.Sqrt(float64(-score))))
	default:
		return -0.5
	}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
