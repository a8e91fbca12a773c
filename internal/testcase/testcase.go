// Package testcase defines the gradeable unit of an Emperfect run: its
// configuration, its per-assertion records, its phase state machine, and the
// scoring rules that combine compile, run, output, and check results.
package testcase

import (
	"fmt"
	"time"

	"github.com/emperfect/emperfect/internal/assertion"
	"github.com/emperfect/emperfect/internal/compare"
	"github.com/emperfect/emperfect/internal/errors"
)

// DefaultTimeout bounds test case execution when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Phase tracks how far a test case has progressed through a grading run.
// Transitions are strictly sequential and one-directional; a case-fatal
// failure may short-circuit directly to PhaseScored.
type Phase int

const (
	PhaseConfigured Phase = iota
	PhaseInstrumented
	PhaseCompiled
	PhaseExecuted
	PhaseScored
)

func (p Phase) String() string {
	switch p {
	case PhaseConfigured:
		return "configured"
	case PhaseInstrumented:
		return "instrumented"
	case PhaseCompiled:
		return "compiled"
	case PhaseExecuted:
		return "executed"
	case PhaseScored:
		return "scored"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Config holds the user-provided settings for one test case.
type Config struct {
	Name     string
	Points   float64
	Code     []string // In-place code lines; mutually exclusive with CodeFile
	CodeFile string   // File containing the code to test

	InputFile    string   // Fed to the program as standard input, if set
	ExpectedFile string   // Compared against captured standard output, if set
	Args         []string // Command-line arguments for the tested program
	RunMain      bool     // Whether the tested program's own main() runs
	Hidden       bool     // Withheld from the redacted (student) report
	MatchCase    bool     // Output comparison requires exact case
	MatchSpace   bool     // Output comparison requires exact whitespace
	Timeout      time.Duration
}

// TestCase is one gradeable unit. It is constructed from configuration,
// instrumented once, executed once, and read-only after scoring.
type TestCase struct {
	ID int
	Config

	// Position of the code block within the suite file, for report
	// highlighting. Zero when the code came from a file.
	StartLine int
	EndLine   int

	Checks             []*assertion.Record
	InstrumentedSource string

	// Results, populated by the execution coordinator.
	CompileExitCode int
	CompileOutput   string
	RunExitCode     int
	Stdout          string
	Stderr          string
	TimedOut        bool
	OutputMatch     bool
	Err             error // Case-fatal configuration or instrumentation error

	phase Phase
}

// New validates cfg and constructs a test case in PhaseConfigured.
func New(id int, cfg Config) (*TestCase, error) {
	if len(cfg.Code) > 0 && cfg.CodeFile != "" {
		return nil, errors.Configf("test case %d cannot have both a code file and in-place code", id)
	}
	if cfg.Points < 0 {
		return nil, errors.Configf("test case %d has negative point value %v", id, cfg.Points)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &TestCase{
		ID:     id,
		Config: cfg,
		// Unset results must not mask failures: an unreached compile
		// phase reads as failed, an unreached comparison as matched.
		CompileExitCode: -1,
		RunExitCode:     -1,
		OutputMatch:     true,
	}, nil
}

// NewFailed constructs a case that is already terminally failed with err,
// bypassing configuration validation. Used when the configuration itself is
// the failure: the case still appears in reports with its setup cause.
func NewFailed(id int, cfg Config, err error) *TestCase {
	tc := &TestCase{
		ID:              id,
		Config:          cfg,
		CompileExitCode: -1,
		RunExitCode:     -1,
		OutputMatch:     true,
	}
	tc.Fail(err)
	return tc
}

// Phase returns the current phase.
func (tc *TestCase) Phase() Phase {
	return tc.phase
}

// Advance moves the test case to the next phase. Any phase may jump
// straight to PhaseScored (short-circuit on failure); every other
// transition must be strictly sequential.
func (tc *TestCase) Advance(next Phase) error {
	if next == tc.phase+1 || (next == PhaseScored && next > tc.phase) {
		tc.phase = next
		return nil
	}
	return errors.Newf("test case %d: invalid phase transition %s -> %s", tc.ID, tc.phase, next)
}

// Fail records a case-fatal error and short-circuits to PhaseScored.
func (tc *TestCase) Fail(err error) {
	tc.Err = err
	tc.phase = PhaseScored
}

// CompareOptions returns the output comparison strictness for this case.
func (tc *TestCase) CompareOptions() compare.Options {
	return compare.Options{MatchCase: tc.MatchCase, MatchSpace: tc.MatchSpace}
}

// CountChecks returns the number of assertions in this case.
func (tc *TestCase) CountChecks() int {
	return len(tc.Checks)
}

// CountPassed returns how many assertions resolved and passed.
func (tc *TestCase) CountPassed() int {
	n := 0
	for _, c := range tc.Checks {
		if c.Resolved && c.Passed {
			n++
		}
	}
	return n
}

// CountFailed returns how many assertions failed or never resolved.
func (tc *TestCase) CountFailed() int {
	return len(tc.Checks) - tc.CountPassed()
}

// Passed reports whether the test case passed overall: every check resolved
// and passed, output matched, no timeout, and a successful compile.
func (tc *TestCase) Passed() bool {
	return tc.Err == nil &&
		tc.CountPassed() == len(tc.Checks) &&
		tc.OutputMatch &&
		!tc.TimedOut &&
		tc.CompileExitCode == 0
}

// EarnedPoints returns the full point value iff the case passed, else 0.
func (tc *TestCase) EarnedPoints() float64 {
	if tc.Passed() {
		return tc.Points
	}
	return 0
}
