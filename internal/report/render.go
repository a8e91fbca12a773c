package report

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/emperfect/emperfect/internal/assertion"
	"github.com/emperfect/emperfect/internal/testcase"
)

// Options configures one rendering pass.
type Options struct {
	Encoding Encoding
	Detail   Detail
}

// Renderer writes a report for a fully scored suite. It holds no state
// between Render calls and performs no synchronization: rendering is
// read-only over the suite.
type Renderer struct {
	w    io.Writer
	opts Options
}

// New creates a renderer writing to w.
func New(w io.Writer, opts Options) *Renderer {
	return &Renderer{w: w, opts: opts}
}

// Render writes the complete report: heading, one section per test case in
// suite order, and the aggregate footer, each gated by the detail level.
func (r *Renderer) Render(s *testcase.Suite) error {
	r.renderHeading()

	if r.opts.Detail.HasResults() {
		for _, tc := range s.Cases {
			r.renderCase(tc)
		}
	}

	r.renderFooter(s)
	return nil
}

func (r *Renderer) renderHeading() {
	heading := r.opts.Detail.Heading()
	if heading == "" {
		return
	}
	if r.html() {
		fmt.Fprintf(r.w, "<h1>%s</h1>\n\n", html.EscapeString(heading))
	} else {
		fmt.Fprintf(r.w, "%s\n\n", heading)
	}
}

func (r *Renderer) renderCase(tc *testcase.TestCase) {
	r.renderTitle(tc)
	r.renderOutcome(tc)

	// Check details and source are withheld for hidden cases below
	// teacher detail.
	showDetail := !tc.Hidden || r.opts.Detail.HasHiddenDetails()
	if showDetail {
		for _, check := range tc.Checks {
			r.renderCheck(check)
		}
	}

	if showDetail && (!tc.Passed() || r.opts.Detail.HasPassedDetails()) {
		r.renderSource(tc)
	}
}

func (r *Renderer) renderTitle(tc *testcase.TestCase) {
	// The hidden tag itself is instructor-only information.
	tag := ""
	if tc.Hidden && r.opts.Detail.HasHiddenDetails() {
		tag = " [HIDDEN]"
	}
	if r.html() {
		fmt.Fprintf(r.w, "<h2>Test Case %d: %s", tc.ID, html.EscapeString(tc.Name))
		if tag != "" {
			fmt.Fprintf(r.w, " <small>%s</small>", strings.TrimSpace(tag))
		}
		fmt.Fprint(r.w, "</h2>\n")
	} else {
		fmt.Fprintf(r.w, "TEST CASE %d: %s%s\n", tc.ID, tc.Name, tag)
	}
}

// outcomeMessage reports exactly one result line; when several failure
// conditions hold, the cause priority decides which one is shown.
func outcomeMessage(tc *testcase.TestCase) (message string, passed bool) {
	switch tc.Cause() {
	case testcase.CauseNone:
		return "PASSED!", true
	case testcase.CauseSetup:
		return fmt.Sprintf("FAILED during setup: %v.", tc.Err), false
	case testcase.CauseCompile:
		return "FAILED during compilation.", false
	case testcase.CauseTimeout:
		return "FAILED due to timeout.", false
	case testcase.CauseOutput:
		return "FAILED due to mis-matched output.", false
	default:
		return "FAILED due to unsuccessful check.", false
	}
}

func (r *Renderer) renderOutcome(tc *testcase.TestCase) {
	message, passed := outcomeMessage(tc)
	if r.html() {
		color := "red"
		if passed {
			color = "green"
		}
		fmt.Fprintf(r.w, "<b>Result: <span style=\"color: %s\">%s</span></b><br><br>\n\n",
			color, html.EscapeString(message))
	} else {
		fmt.Fprintf(r.w, "Result: %s\n", message)
	}
}

// renderCheck shows detail for a single failed check. Passed checks are
// silent; a comparison shows both sides next to their resolved values.
func (r *Renderer) renderCheck(check *assertion.Record) {
	if check.Resolved && check.Passed {
		return
	}

	if r.html() {
		fmt.Fprintf(r.w, "<p>Check <span style=\"color: red\"><b>FAILED</b></span>:<br>\n")
		fmt.Fprintf(r.w, "Test: <code>%s</code><br><br>\n", html.EscapeString(check.SourceText))
		if check.IsComparison() {
			fmt.Fprintf(r.w, "<table><tr><td>Left side:<td><code>%s</code><td>&nbsp;&nbsp;resolves to:<td><code>%s</code></tr>\n",
				html.EscapeString(check.Left), html.EscapeString(check.ResolvedLeft))
			fmt.Fprintf(r.w, "<tr><td>Right side:<td><code>%s</code><td>&nbsp;&nbsp;resolves to:<td><code>%s</code></tr></table><br>\n",
				html.EscapeString(check.Right), html.EscapeString(check.ResolvedRight))
		}
		if !check.Resolved {
			fmt.Fprint(r.w, "Check never ran (program ended early).<br>\n")
		}
		fmt.Fprint(r.w, "</p>\n")
	} else {
		fmt.Fprintf(r.w, "Check FAILED: %s\n", check.SourceText)
		if check.IsComparison() {
			fmt.Fprintf(r.w, "  Left side:  %-20s resolves to: %s\n", check.Left, check.ResolvedLeft)
			fmt.Fprintf(r.w, "  Right side: %-20s resolves to: %s\n", check.Right, check.ResolvedRight)
		}
		if !check.Resolved {
			fmt.Fprint(r.w, "  Check never ran (program ended early).\n")
		}
	}
}

// renderSource lists the case's original code with failing check lines
// emphasized.
func (r *Renderer) renderSource(tc *testcase.TestCase) {
	if len(tc.Code) == 0 {
		return
	}

	failed := failedLines(tc)

	if r.html() {
		fmt.Fprint(r.w, "Source:<br><br>\n")
		fmt.Fprint(r.w, "<table style=\"background-color:#E3E0CF;\"><tr><td><pre>\n\n")
		for i, line := range tc.Code {
			if failed[i+1] {
				fmt.Fprintf(r.w, "<b>%s</b>\n", html.EscapeString(line))
			} else {
				fmt.Fprintf(r.w, "%s\n", html.EscapeString(line))
			}
		}
		fmt.Fprint(r.w, "</pre></tr></table>\n")
	} else {
		fmt.Fprint(r.w, "Source:\n\n")
		for i, line := range tc.Code {
			if failed[i+1] {
				fmt.Fprintf(r.w, "> %s\n", line)
			} else {
				fmt.Fprintf(r.w, "  %s\n", line)
			}
		}
	}
	fmt.Fprint(r.w, "\n")
}

// failedLines maps 1-based source lines to whether a failed check sits there.
func failedLines(tc *testcase.TestCase) map[int]bool {
	failed := make(map[int]bool)
	for _, check := range tc.Checks {
		if !(check.Resolved && check.Passed) {
			failed[check.Location.Line] = true
		}
	}
	return failed
}

func (r *Renderer) renderFooter(s *testcase.Suite) {
	if r.opts.Detail.HasSummary() {
		r.renderSummary(s)
	}
	if r.opts.Detail.HasScore() {
		score := fmt.Sprintf("Score: %s / %s", formatPoints(s.EarnedPoints()), formatPoints(s.TotalPoints()))
		if r.html() {
			fmt.Fprintf(r.w, "<p><b>%s</b></p>\n", score)
		} else {
			fmt.Fprintf(r.w, "%s\n", score)
		}
	}
	if r.opts.Detail.HasPercent() {
		percent := fmt.Sprintf("Percent: %.1f%%", s.Percent())
		if r.html() {
			fmt.Fprintf(r.w, "<p>%s</p>\n", percent)
		} else {
			fmt.Fprintf(r.w, "%s\n", percent)
		}
	}
}

func (r *Renderer) renderSummary(s *testcase.Suite) {
	if r.html() {
		fmt.Fprint(r.w, "<h2>Summary</h2>\n<table>\n")
		for _, tc := range s.Cases {
			fmt.Fprintf(r.w, "<tr><td>Test Case %d</td><td>%s</td><td>%s</td><td>%s / %s</td></tr>\n",
				tc.ID, html.EscapeString(tc.Name), passFail(tc),
				formatPoints(tc.EarnedPoints()), formatPoints(tc.Points))
		}
		fmt.Fprint(r.w, "</table>\n")
	} else {
		fmt.Fprint(r.w, "SUMMARY\n")
		for _, tc := range s.Cases {
			fmt.Fprintf(r.w, "  Test Case %d: %-24s %-6s %s / %s\n",
				tc.ID, tc.Name, passFail(tc),
				formatPoints(tc.EarnedPoints()), formatPoints(tc.Points))
		}
	}
	fmt.Fprintf(r.w, "\n")
}

func passFail(tc *testcase.TestCase) string {
	if tc.Passed() {
		return "passed"
	}
	return "FAILED"
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}

func (r *Renderer) html() bool {
	return r.opts.Encoding == EncodingHTML
}
