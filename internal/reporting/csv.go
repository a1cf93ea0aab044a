package reporting

import (
	"fmt"
	"strings"

	"promotion-lab/internal/domain"
)

// RenderCSV renders the daily timeline as a CSV string, one row per
// business day. Events are joined with "; " inside a quoted field.
func RenderCSV(timeline []*domain.DailySnapshot) string {
	var sb strings.Builder

	sb.WriteString("date,cash,equity,total,change,change_pct,events\n")

	for _, s := range timeline {
		sb.WriteString(fmt.Sprintf("%s,%.2f,%.2f,%.2f,%.2f,%.2f,%s\n",
			s.Date.Format("2006-01-02"),
			s.Cash,
			s.Equity,
			s.Total,
			s.Change,
			s.ChangePct,
			csvQuote(strings.Join(s.Events, "; ")),
		))
	}

	return sb.String()
}

// csvQuote wraps a field in quotes when it contains a delimiter, per
// RFC 4180. Event text carries commas in dollar amounts often enough
// that unconditional quoting would also be fine, but empty fields stay
// bare for readability.
func csvQuote(field string) string {
	if field == "" {
		return field
	}
	if strings.ContainsAny(field, ",\"\n") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}
