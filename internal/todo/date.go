package todo

import (
	"strings"
	"time"
)

// DateLayout is the on-disk layout for date and deadline (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// parseLayout also accepts unpadded day and month ("1-2-2026").
const parseLayout = "2-1-2006"

// ParseDate parses a DD-MM-YYYY string into a civil day at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(parseLayout, strings.TrimSpace(s))
}

// FormatDate renders a day in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today reduces a wall-clock instant to its local calendar day, expressed as
// midnight UTC so it compares directly with ParseDate results.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Today(b).Sub(Today(a)).Hours() / 24)
}
