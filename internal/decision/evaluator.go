package decision

import (
	"fmt"

	"promotion-lab/internal/domain"
)

// Evaluate maps a KPI vector to a promotion verdict. Pure function of
// its inputs; comparisons run on the unrounded KPI values so a verdict
// never flips on a display-rounding boundary.
//
// Four checks in fixed order (win rate, annual return, max drawdown,
// uptime). 4 passes is GO, exactly 3 is CONDITIONAL_GO, anything less
// is NO_GO. Each failed check contributes one gap string naming its
// numeric shortfall.
func Evaluate(kpi domain.KPIVector, targets Targets) *Result {
	checks := []CheckResult{
		{
			Name:      "Win rate",
			Threshold: fmt.Sprintf(">= %.0f%%", targets.WinRate),
			Actual:    fmt.Sprintf("%.1f%%", domain.Round1(kpi.WinRate)),
			Pass:      kpi.WinRate >= targets.WinRate,
		},
		{
			Name:      "Annual return",
			Threshold: fmt.Sprintf(">= %.0f%%", targets.AnnualReturn),
			Actual:    fmt.Sprintf("%.1f%%", domain.Round1(kpi.AnnualReturn)),
			Pass:      kpi.AnnualReturn >= targets.AnnualReturn,
		},
		{
			Name:      "Max drawdown",
			Threshold: fmt.Sprintf("<= %.0f%%", targets.MaxDrawdown),
			Actual:    fmt.Sprintf("%.1f%%", domain.Round1(kpi.MaxDrawdown)),
			Pass:      kpi.MaxDrawdown <= targets.MaxDrawdown,
		},
		{
			Name:      "Uptime",
			Threshold: fmt.Sprintf(">= %.0f%%", targets.Uptime),
			Actual:    fmt.Sprintf("%.1f%%", domain.Round1(kpi.Uptime)),
			Pass:      kpi.Uptime >= targets.Uptime,
		},
	}

	gaps := []string{}
	if !checks[0].Pass {
		gaps = append(gaps, fmt.Sprintf("win rate: %.1fpp short of %.0f%% target", domain.Round1(targets.WinRate-kpi.WinRate), targets.WinRate))
	}
	if !checks[1].Pass {
		gaps = append(gaps, fmt.Sprintf("annual return: %.1fpp short of %.0f%% target", domain.Round1(targets.AnnualReturn-kpi.AnnualReturn), targets.AnnualReturn))
	}
	if !checks[2].Pass {
		gaps = append(gaps, fmt.Sprintf("drawdown: %.1fpp over %.0f%% limit", domain.Round1(kpi.MaxDrawdown-targets.MaxDrawdown), targets.MaxDrawdown))
	}
	if !checks[3].Pass {
		gaps = append(gaps, fmt.Sprintf("uptime: %.1fpp short of %.0f%% target", domain.Round1(targets.Uptime-kpi.Uptime), targets.Uptime))
	}

	passed := 0
	for _, c := range checks {
		if c.Pass {
			passed++
		}
	}

	verdict := VerdictNOGO
	switch passed {
	case len(checks):
		verdict = VerdictGO
	case len(checks) - 1:
		verdict = VerdictConditionalGO
	}

	return &Result{
		Verdict: verdict,
		Passed:  passed,
		Checks:  checks,
		Gaps:    gaps,
	}
}
