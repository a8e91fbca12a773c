// Package report renders a scored suite for a given audience and encoding.
// Content decisions are driven entirely by the detail level; the text and
// HTML encodings only change the markup around identical content.
package report

import (
	"github.com/emperfect/emperfect/internal/errors"
)

// Encoding selects the output markup.
type Encoding int

const (
	EncodingText Encoding = iota
	EncodingHTML
)

func (e Encoding) String() string {
	if e == EncodingHTML {
		return "html"
	}
	return "txt"
}

// ParseEncoding maps a config string (or filename extension) to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "txt", "text":
		return EncodingText, nil
	case "html", "htm":
		return EncodingHTML, nil
	default:
		return EncodingText, errors.Configf("unknown output type %q", s)
	}
}

// Detail is the audience ladder: each level includes everything below it.
type Detail int

const (
	DetailNone    Detail = iota
	DetailPercent        // Percentage of points earned overall
	DetailScore          // Numerical score overall
	DetailSummary        // Pass/fail status for every case
	DetailStudent        // Details for failed visible cases; hidden cases redacted
	DetailTeacher        // Details for all failed cases, hidden included
	DetailFull           // Details for every case, including passed ones
)

func (d Detail) String() string {
	switch d {
	case DetailNone:
		return "none"
	case DetailPercent:
		return "percent"
	case DetailScore:
		return "score"
	case DetailSummary:
		return "summary"
	case DetailStudent:
		return "student"
	case DetailTeacher:
		return "teacher"
	case DetailFull:
		return "full"
	default:
		return "unknown"
	}
}

// ParseDetail maps a config string to a Detail level.
func ParseDetail(s string) (Detail, error) {
	switch s {
	case "none":
		return DetailNone, nil
	case "percent":
		return DetailPercent, nil
	case "score":
		return DetailScore, nil
	case "summary":
		return DetailSummary, nil
	case "student", "redacted":
		return DetailStudent, nil
	case "teacher", "full-detail":
		return DetailTeacher, nil
	case "full":
		return DetailFull, nil
	default:
		return DetailNone, errors.Configf("unknown detail level %q", s)
	}
}

// Content gates, mirroring the inclusive ladder.

func (d Detail) HasPercent() bool { return d >= DetailPercent }
func (d Detail) HasScore() bool   { return d >= DetailScore }
func (d Detail) HasSummary() bool { return d >= DetailSummary }
func (d Detail) HasResults() bool { return d >= DetailStudent }

// HasHiddenDetails reports whether hidden test cases show their checks and
// source instead of a bare pass/fail line.
func (d Detail) HasHiddenDetails() bool { return d >= DetailTeacher }

// HasPassedDetails reports whether passed cases also show their source.
func (d Detail) HasPassedDetails() bool { return d >= DetailFull }

// Heading returns the report heading for this detail level.
func (d Detail) Heading() string {
	switch d {
	case DetailSummary:
		return "Autograde Summary"
	case DetailStudent:
		return "Autograde Results"
	case DetailTeacher:
		return "Autograde Results (Instructor Eyes Only)"
	case DetailFull:
		return "Autograde Results (All details)"
	default:
		return ""
	}
}
