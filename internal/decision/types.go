package decision

// Verdict is the categorical promotion outcome.
type Verdict string

const (
	VerdictGO            Verdict = "GO"
	VerdictConditionalGO Verdict = "CONDITIONAL_GO"
	VerdictNOGO          Verdict = "NO_GO"
)

// Targets is the fixed KPI threshold table the verdict is evaluated
// against. Win rate, annual return and uptime are floors; max drawdown
// is a ceiling.
type Targets struct {
	WinRate      float64 // %, minimum
	AnnualReturn float64 // %, minimum
	MaxDrawdown  float64 // %, maximum
	Uptime       float64 // %, minimum
}

// DefaultTargets returns the promotion thresholds in effect.
func DefaultTargets() Targets {
	return Targets{
		WinRate:      55,
		AnnualReturn: 12,
		MaxDrawdown:  15,
		Uptime:       99,
	}
}

// CheckResult represents pass/fail for one KPI check.
type CheckResult struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// Result contains the verdict with its checklist. Gaps holds one
// shortfall description per failed check, in check order.
type Result struct {
	Verdict Verdict
	Passed  int // checks passed, out of len(Checks)
	Checks  []CheckResult
	Gaps    []string
}
