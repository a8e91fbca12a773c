// Package compare implements expected-vs-actual output comparison for test
// case standard output, with configurable case and whitespace strictness.
package compare

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Options configures how strictly outputs must match.
// The zero value is fully relaxed; use Default() for strict matching.
type Options struct {
	MatchCase  bool // Require exact case
	MatchSpace bool // Require exact whitespace
}

// Default returns strict comparison options: exact byte match.
func Default() Options {
	return Options{MatchCase: true, MatchSpace: true}
}

// Match reports whether actual output matches expected output under opts.
// With strict options this is an exact byte comparison; relaxing MatchCase
// applies Unicode case folding, relaxing MatchSpace collapses whitespace
// runs and strips leading/trailing whitespace.
func Match(expected, actual string, opts Options) bool {
	return Normalize(expected, opts) == Normalize(actual, opts)
}

// Normalize applies the configured relaxations to s.
func Normalize(s string, opts Options) string {
	if !opts.MatchSpace {
		s = strings.Join(strings.Fields(s), " ")
	}
	if !opts.MatchCase {
		s = cases.Fold().String(s)
	}
	return s
}

// Diff returns a short human-readable description of the first difference
// between expected and actual after normalization, or "" when they match.
// Line numbers refer to the normalized forms.
func Diff(expected, actual string, opts Options) string {
	ne, na := Normalize(expected, opts), Normalize(actual, opts)
	if ne == na {
		return ""
	}

	expLines := strings.Split(ne, "\n")
	actLines := strings.Split(na, "\n")
	n := len(expLines)
	if len(actLines) < n {
		n = len(actLines)
	}
	for i := 0; i < n; i++ {
		if expLines[i] != actLines[i] {
			return fmt.Sprintf("line %d: expected %s, got %s", i+1, quote(expLines[i]), quote(actLines[i]))
		}
	}
	if len(expLines) > len(actLines) {
		return fmt.Sprintf("output ends early: expected %d lines, got %d", len(expLines), len(actLines))
	}
	return fmt.Sprintf("extra output: expected %d lines, got %d", len(expLines), len(actLines))
}

func quote(s string) string {
	const limit = 60
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return fmt.Sprintf("%q", s)
}
