// Package assertion provides parsing and result tracking for the CHECK
// mini-language embedded in test case source code.
//
// An assertion is a single expression containing at most one comparison
// operator. Boolean combinators are rejected: a check like
// CHECK(a == 1 && b == 2) must be written as two separate checks so each
// side can be resolved and reported independently.
package assertion

import (
	"fmt"
	"strings"

	"github.com/emperfect/emperfect/internal/errors"
)

// Comparison operators recognized inside an assertion, multi-character
// tokens first so that "<=" is never misread as "<".
var operators = []string{"==", "!=", "<=", ">=", "<", ">"}

// Location identifies where an assertion lives, for diagnostics and reports.
type Location struct {
	CaseID int // Owning test case id
	Check  int // Assertion index within the case, in source order
	Line   int // 1-based line in the original (pre-instrumentation) source
}

func (l Location) String() string {
	return fmt.Sprintf("Test #%d, Check #%d", l.CaseID, l.Check)
}

// Record holds one assertion's parsed form and, after execution, its outcome.
type Record struct {
	SourceText string   // Original expression, verbatim
	Left       string   // Left operand, whitespace-normalized
	Right      string   // Right operand; empty for a bare truthy check
	Op         string   // One of ==, !=, <, <=, >, >=, or "" when no comparison
	Location   Location

	// Populated by result ingestion after the instrumented program ran.
	ResolvedLeft  string
	ResolvedRight string
	Resolved      bool
	Passed        bool
	Message       string
}

// IsComparison reports whether the assertion compares two operands,
// as opposed to a bare truthiness check.
func (r *Record) IsComparison() bool {
	return r.Op != ""
}

// Parse splits an assertion expression into operands and operator.
//
// It fails with a configuration error if the expression contains a boolean
// combinator or more than one comparison operator. An expression without
// any comparison operator is a truthy check: the whole text becomes the
// left operand.
func Parse(expr string, loc Location) (*Record, error) {
	if strings.Contains(expr, "&&") || strings.Contains(expr, "||") {
		return nil, errors.Configf("%s: checks do not allow \"&&\" or \"||\": %s", loc, expr)
	}

	rec := &Record{SourceText: expr, Location: loc}

	pos, op := findOperator(expr, 0)
	if pos < 0 {
		rec.Left = compressWhitespace(expr)
		return rec, nil
	}

	if again, _ := findOperator(expr, pos+len(op)); again >= 0 {
		return nil, errors.Configf("%s: checks can have only one comparison: %s", loc, expr)
	}

	rec.Left = compressWhitespace(expr[:pos])
	rec.Op = op
	rec.Right = compressWhitespace(expr[pos+len(op):])
	return rec, nil
}

// findOperator returns the byte offset and token of the first comparison
// operator at or after start, or (-1, "") when none is present. A lone '='
// is assignment and never matches.
func findOperator(expr string, start int) (int, string) {
	for i := start; i < len(expr); i++ {
		for _, op := range operators {
			if strings.HasPrefix(expr[i:], op) {
				return i, op
			}
		}
	}
	return -1, ""
}

// compressWhitespace trims the string and collapses internal whitespace
// runs to single spaces, so operands render stably in reports.
func compressWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
