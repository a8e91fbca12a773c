// Package instrument transforms raw test case source into a standalone,
// self-reporting program. Each CHECK(...) marker is replaced with generated
// code that evaluates the assertion, records pass/fail, and appends a line
// to the results file; everything outside markers is copied through
// unchanged so line-based highlighting against the original source stays
// accurate.
package instrument

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emperfect/emperfect/internal/assertion"
	"github.com/emperfect/emperfect/internal/errors"
)

const marker = "CHECK("

// Instrument rewrites source for test case caseID, replacing each CHECK
// marker with generated evaluation code. It returns the rewritten body and
// the assertion records in discovery order. The records are unresolved; the
// execution step fills in their outcomes.
//
// The pass works over a token stream of literal spans and marker spans and
// produces a fresh buffer, so marker replacements of different lengths
// never invalidate scan positions.
func Instrument(source string, caseID int) (string, []*assertion.Record, error) {
	var out strings.Builder
	var checks []*assertion.Record

	pos := 0
	for {
		start := findMarker(source, pos)
		if start < 0 {
			out.WriteString(source[pos:])
			break
		}

		// Literal span before the marker is copied byte for byte.
		out.WriteString(source[pos:start])

		open := start + len(marker) - 1
		end := findParenMatch(source, open)
		if end < 0 {
			return "", nil, errors.Instrumentationf(fmt.Sprintf("Test #%d", caseID),
				"CHECK at offset %d has no matching closing parenthesis", start)
		}

		loc := assertion.Location{
			CaseID: caseID,
			Check:  len(checks),
			Line:   1 + strings.Count(source[:start], "\n"),
		}
		rec, err := assertion.Parse(source[open+1:end], loc)
		if err != nil {
			return "", nil, err
		}
		checks = append(checks, rec)
		out.WriteString(checkCode(rec))

		// Swallow the trailing semicolon; the generated block replaces
		// the whole statement.
		pos = end + 1
		if pos < len(source) && source[pos] == ';' {
			pos++
		}
	}

	return out.String(), checks, nil
}

// findMarker locates the next CHECK( occurrence at or after pos that is not
// part of a longer identifier (e.g. MY_CHECK is left alone).
func findMarker(source string, pos int) int {
	for {
		i := strings.Index(source[pos:], marker)
		if i < 0 {
			return -1
		}
		i += pos
		if i == 0 || !isIdentChar(source[i-1]) {
			return i
		}
		pos = i + len(marker)
	}
}

func isIdentChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// findParenMatch returns the index of the parenthesis closing the one at
// open, or -1. Nested parentheses are tracked; string and character
// literals (with backslash escapes) are skipped so their contents cannot
// unbalance the match.
func findParenMatch(source string, open int) int {
	depth := 0
	for i := open; i < len(source); i++ {
		switch source[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		case '"', '\'':
			quote := source[i]
			for i++; i < len(source); i++ {
				if source[i] == '\\' {
					i++
				} else if source[i] == quote {
					break
				}
			}
			if i >= len(source) {
				return -1
			}
		}
	}
	return -1
}

// checkCode generates the replacement for one CHECK marker. The generated
// block stays on a single line so the surrounding line numbering is
// preserved. It evaluates each operand once, applies the comparison (or
// truthiness for a bare check), folds the result into the running pass
// flag, and writes one tab-separated CHECK line to the results file.
func checkCode(rec *assertion.Record) string {
	var b strings.Builder
	b.WriteString("{ ")
	if rec.IsComparison() {
		fmt.Fprintf(&b, "auto _emperfect_lhs = (%s); ", rec.Left)
		fmt.Fprintf(&b, "auto _emperfect_rhs = (%s); ", rec.Right)
		fmt.Fprintf(&b, "const bool _emperfect_ok = (_emperfect_lhs %s _emperfect_rhs); ", rec.Op)
	} else {
		fmt.Fprintf(&b, "const bool _emperfect_ok = static_cast<bool>(%s); ", rec.Left)
	}
	b.WriteString("if (!_emperfect_ok) _emperfect_passed = false; ")
	fmt.Fprintf(&b, `_emperfect_results << "CHECK\t%d\t" << (_emperfect_ok ? "passed" : "failed")`, rec.Location.Check)
	if rec.IsComparison() {
		b.WriteString(` << "\t" << _emperfect_str(_emperfect_lhs) << "\t" << _emperfect_str(_emperfect_rhs)`)
	} else {
		b.WriteString(` << "\t" << (_emperfect_ok ? "true" : "false") << "\t"`)
	}
	b.WriteString(" << \"\\n\"; }")
	return b.String()
}

// ProgramOptions configures whole-program assembly around an instrumented
// body.
type ProgramOptions struct {
	Header      string  // Shared header block injected into every program
	Body        string  // Instrumented test case code
	Points      float64 // Point value written on the final SCORE line
	ResultsPath string  // Where the running program writes its results
	RunMain     bool    // Whether the tested program's own main() executes
}

// Program wraps an instrumented body into a complete compilable C++
// translation unit. The checks run from a static runner constructed before
// main(); when RunMain is false the runner exits first so the tested
// program's entry point never executes.
func Program(opts ProgramOptions) string {
	var b strings.Builder

	b.WriteString("// Test file generated by Emperfect.\n\n")
	b.WriteString("#include <cstdlib>\n")
	b.WriteString("#include <fstream>\n")
	b.WriteString("#include <iostream>\n")
	b.WriteString("#include <sstream>\n")
	b.WriteString("#include <string>\n\n")

	if opts.Header != "" {
		b.WriteString(opts.Header)
		if !strings.HasSuffix(opts.Header, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("static std::ofstream _emperfect_results;\n")
	b.WriteString("static bool _emperfect_passed = true;\n\n")

	// Tabs and newlines inside resolved values would corrupt the
	// line-oriented results protocol.
	b.WriteString("template <typename T> std::string _emperfect_str(const T & value) {\n")
	b.WriteString("  std::ostringstream ss; ss << value; std::string out = ss.str();\n")
	b.WriteString("  for (auto & c : out) { if (c == '\\t' || c == '\\n') c = ' '; }\n")
	b.WriteString("  return out;\n")
	b.WriteString("}\n\n")

	b.WriteString("void _emperfect_main() {\n")
	fmt.Fprintf(&b, "  _emperfect_results.open(%q);\n\n", opts.ResultsPath)
	b.WriteString(opts.Body)
	if !strings.HasSuffix(opts.Body, "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n  _emperfect_results << \"SCORE\\t\" << (_emperfect_passed ? %s : 0.0) << \"\\n\";\n",
		strconv.FormatFloat(opts.Points, 'g', -1, 64))
	b.WriteString("}\n\n")

	b.WriteString("/* Run the checks before main(). */\n")
	b.WriteString("struct _emperfect_runner {\n")
	b.WriteString("  _emperfect_runner() {\n")
	b.WriteString("    _emperfect_main();\n")
	if !opts.RunMain {
		b.WriteString("    exit(0); // Skip the tested program's main().\n")
	}
	b.WriteString("  }\n")
	b.WriteString("};\n")
	b.WriteString("static _emperfect_runner _emperfect_runner_instance;\n")

	return b.String()
}
