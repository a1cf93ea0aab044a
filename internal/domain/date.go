package domain

import "time"

// Day normalizes a timestamp to its calendar date: midnight UTC.
// All timeline arithmetic works on day granularity.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
