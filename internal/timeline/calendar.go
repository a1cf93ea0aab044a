package timeline

import (
	"time"

	"promotion-lab/internal/domain"
)

// BusinessDays returns every Monday–Friday calendar day in [from, to],
// normalized to midnight UTC, in chronological order. Market holidays
// are not excluded; a holiday simply carries the previous close through
// the price resolver.
func BusinessDays(from, to time.Time) []time.Time {
	from = domain.Day(from)
	to = domain.Day(to)

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		days = append(days, d)
	}
	return days
}
