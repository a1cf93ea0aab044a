// Package health summarizes execution-run telemetry for the operations
// section of the review report. It consumes the same run records as the
// uptime KPI but answers a different question: not "should we promote"
// but "is the pipeline itself behaving".
package health

import (
	"time"

	"promotion-lab/internal/domain"
)

// RunSummary aggregates terminal run outcomes.
type RunSummary struct {
	TotalRuns       int
	Completed       int
	Failed          int
	Interrupted     int
	SuccessRate     float64 // %, completed / total
	AvgDurationMins float64 // over runs with a recorded end
	TotalErrors     int     // sum of per-run error counters
	LastRunAt       time.Time
	LastRunStatus   domain.RunStatus
}

// SummarizeRuns aggregates run records regardless of window; callers
// scope the slice. Runs still in progress count toward the total but
// not toward the success rate numerator.
func SummarizeRuns(runs []*domain.RunRecord) RunSummary {
	var s RunSummary
	s.TotalRuns = len(runs)
	if s.TotalRuns == 0 {
		return s
	}

	durationSum := 0.0
	durationCount := 0

	for _, r := range runs {
		switch r.Status {
		case domain.RunCompleted:
			s.Completed++
		case domain.RunFailed:
			s.Failed++
		case domain.RunInterrupted:
			s.Interrupted++
		}
		s.TotalErrors += r.ErrorsCount

		if r.EndedAt != nil {
			durationSum += r.DurationMinutes()
			durationCount++
		}

		if r.StartedAt.After(s.LastRunAt) {
			s.LastRunAt = r.StartedAt
			s.LastRunStatus = r.Status
		}
	}

	s.SuccessRate = float64(s.Completed) / float64(s.TotalRuns) * 100
	if durationCount > 0 {
		s.AvgDurationMins = durationSum / float64(durationCount)
	}
	return s
}

// PipelineMetrics is the trailing-window health view.
type PipelineMetrics struct {
	WindowDays  int
	TotalRuns   int
	ErrorRate   float64 // %, runs that failed or were interrupted
	UptimePct   float64 // %, completed runs
	CoveragePct float64 // %, distinct days with at least one run
}

// PipelineHealth computes the trailing-window metrics ending at now.
// windowDays below 1 is clamped to 1.
func PipelineHealth(runs []*domain.RunRecord, windowDays int, now time.Time) PipelineMetrics {
	if windowDays < 1 {
		windowDays = 1
	}
	m := PipelineMetrics{WindowDays: windowDays}
	cutoff := now.AddDate(0, 0, -windowDays)

	completed := 0
	errored := 0
	daysSeen := make(map[time.Time]struct{})

	for _, r := range runs {
		if r.StartedAt.Before(cutoff) {
			continue
		}
		m.TotalRuns++
		daysSeen[domain.Day(r.StartedAt)] = struct{}{}
		switch r.Status {
		case domain.RunCompleted:
			completed++
		case domain.RunFailed, domain.RunInterrupted:
			errored++
		}
	}

	if m.TotalRuns > 0 {
		m.ErrorRate = float64(errored) / float64(m.TotalRuns) * 100
		m.UptimePct = float64(completed) / float64(m.TotalRuns) * 100
	}
	m.CoveragePct = float64(len(daysSeen)) / float64(windowDays) * 100
	if m.CoveragePct > 100 {
		m.CoveragePct = 100
	}
	return m
}
