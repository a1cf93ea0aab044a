package domain

import "time"

// DailySnapshot is one row of the reconstructed balance-sheet timeline:
// the portfolio state at the close of one business day.
//
// Monetary fields are rounded to the cent. Invariants maintained by the
// reconstructor:
//
//	Total  == Cash + Equity (both already rounded)
//	Change == Total - previous day's Total
//
// The first day's Change is computed against the configured starting
// capital.
type DailySnapshot struct {
	Date      time.Time // business day, midnight UTC
	Cash      float64   // cash balance at end of day
	Equity    float64   // mark-to-market value of all holdings
	Total     float64   // Cash + Equity
	Change    float64   // day-over-day change in Total
	ChangePct float64   // Change as % of previous Total, 0 when previous <= 0
	Events    []string  // textual log of that day's buy/sell executions
}

// RunStatus is the terminal state of one pipeline execution.
type RunStatus string

const (
	RunCompleted   RunStatus = "completed"
	RunFailed      RunStatus = "failed"
	RunInterrupted RunStatus = "interrupted"
	RunRunning     RunStatus = "running"
)

// RunRecord is one pipeline execution outcome from the telemetry log.
// Corresponds to the system_runs table. Read-only input to the uptime KPI.
type RunRecord struct {
	RunID        string     // execution identifier
	Mode         string     // e.g. "full", "signals-only"
	StartedAt    time.Time  // run start (UTC)
	EndedAt      *time.Time // run end, nil while running
	Status       RunStatus  // terminal status
	ErrorsCount  int        // errors logged during the run
	ErrorMessage string     // last error text, may be empty
}

// DurationMinutes returns the run duration in minutes, 0 when still running.
func (r *RunRecord) DurationMinutes() float64 {
	if r.EndedAt == nil {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt).Minutes()
}
