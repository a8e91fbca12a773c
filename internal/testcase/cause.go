package testcase

// FailureCause classifies why a test case failed. Exactly one cause is
// reported even when several conditions hold; the priority order is
// setup, compilation, timeout, output mismatch, then failed check.
type FailureCause int

const (
	CauseNone FailureCause = iota
	CauseSetup
	CauseCompile
	CauseTimeout
	CauseOutput
	CauseAssertion
)

func (c FailureCause) String() string {
	switch c {
	case CauseNone:
		return "passed"
	case CauseSetup:
		return "setup"
	case CauseCompile:
		return "compilation"
	case CauseTimeout:
		return "timeout"
	case CauseOutput:
		return "output mismatch"
	case CauseAssertion:
		return "failed check"
	default:
		return "unknown"
	}
}

// Cause returns the single reported failure cause for this test case.
func (tc *TestCase) Cause() FailureCause {
	switch {
	case tc.Passed():
		return CauseNone
	case tc.Err != nil:
		return CauseSetup
	case tc.CompileExitCode != 0:
		return CauseCompile
	case tc.TimedOut:
		return CauseTimeout
	case !tc.OutputMatch:
		return CauseOutput
	default:
		return CauseAssertion
	}
}
