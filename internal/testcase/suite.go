package testcase

import (
	"github.com/emperfect/emperfect/internal/errors"
)

// Suite is the ordered collection of test cases in one grading run.
// Insertion order is significant: reporting and numbering follow it.
type Suite struct {
	Cases []*TestCase
}

// NewSuite builds a suite, enforcing unique test case ids.
func NewSuite(cases []*TestCase) (*Suite, error) {
	seen := make(map[int]bool, len(cases))
	for _, tc := range cases {
		if seen[tc.ID] {
			return nil, errors.Configf("duplicate test case id %d", tc.ID)
		}
		seen[tc.ID] = true
	}
	return &Suite{Cases: cases}, nil
}

// TotalPoints returns the sum of all point values.
func (s *Suite) TotalPoints() float64 {
	total := 0.0
	for _, tc := range s.Cases {
		total += tc.Points
	}
	return total
}

// EarnedPoints returns the suite score: the sum of per-case scores.
func (s *Suite) EarnedPoints() float64 {
	total := 0.0
	for _, tc := range s.Cases {
		total += tc.EarnedPoints()
	}
	return total
}

// CountPassed returns how many test cases passed.
func (s *Suite) CountPassed() int {
	n := 0
	for _, tc := range s.Cases {
		if tc.Passed() {
			n++
		}
	}
	return n
}

// Percent returns the earned score as a percentage of the total,
// or 100 for an empty suite.
func (s *Suite) Percent() float64 {
	total := s.TotalPoints()
	if total == 0 {
		return 100
	}
	return 100 * s.EarnedPoints() / total
}

// AllScored reports whether every case reached its terminal phase.
func (s *Suite) AllScored() bool {
	for _, tc := range s.Cases {
		if tc.Phase() != PhaseScored {
			return false
		}
	}
	return true
}
