// Package resultlog parses the results channel written by an instrumented
// test program: one tab-separated CHECK line per assertion and one final
// SCORE line. A truncated file (the program crashed or timed out midway)
// is not an error; unreported checks simply stay unresolved.
package resultlog

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/emperfect/emperfect/internal/assertion"
)

// Check is one parsed CHECK line.
type Check struct {
	Index  int
	Passed bool
	Left   string // Resolved runtime value of the left operand
	Right  string // Resolved runtime value of the right operand, if any
}

// Results is the parsed content of one results file.
type Results struct {
	Checks     []Check
	Score      float64
	ScoreFound bool // False when the program never reached the SCORE line
}

// Parse reads a results stream. Malformed lines are skipped rather than
// failing the whole file, since a crashing program may cut a line short.
func Parse(r io.Reader) (*Results, error) {
	res := &Results{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		switch fields[0] {
		case "CHECK":
			if len(fields) < 3 {
				continue
			}
			idx, err := strconv.Atoi(fields[1])
			if err != nil || idx < 0 {
				continue
			}
			c := Check{Index: idx, Passed: fields[2] == "passed"}
			if len(fields) > 3 {
				c.Left = fields[3]
			}
			if len(fields) > 4 {
				c.Right = fields[4]
			}
			res.Checks = append(res.Checks, c)
		case "SCORE":
			if len(fields) < 2 {
				continue
			}
			score, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				continue
			}
			res.Score = score
			res.ScoreFound = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Merge folds parsed outcomes into the pre-existing assertion records by
// index. Records without a matching CHECK line are left unresolved, which
// downstream scoring treats as failed.
func Merge(res *Results, records []*assertion.Record) {
	for _, c := range res.Checks {
		if c.Index >= len(records) {
			continue
		}
		rec := records[c.Index]
		rec.Resolved = true
		rec.Passed = c.Passed
		rec.ResolvedLeft = c.Left
		rec.ResolvedRight = c.Right
		if !c.Passed && rec.Message == "" {
			rec.Message = "check failed at runtime"
		}
	}
}
