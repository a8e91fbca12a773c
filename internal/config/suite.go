package config

import (
	"strings"
	"time"

	"github.com/emperfect/emperfect/internal/errors"
	"github.com/emperfect/emperfect/internal/testcase"
)

// BuildSuite converts the configured test cases into an ordered suite.
// A test case with broken configuration becomes a terminally failed case
// rather than aborting the whole suite; ids follow declaration order.
func BuildSuite(cfg *Config) (*testcase.Suite, error) {
	cases := make([]*testcase.TestCase, 0, len(cfg.TestCases))
	for i, tcc := range cfg.TestCases {
		cases = append(cases, buildCase(i, tcc))
	}
	return testcase.NewSuite(cases)
}

func buildCase(id int, tcc TestCaseConfig) *testcase.TestCase {
	cfg := testcase.Config{
		Name:         tcc.Name,
		Points:       tcc.Points,
		CodeFile:     tcc.CodeFile,
		InputFile:    tcc.Input,
		ExpectedFile: tcc.Expected,
		Args:         tcc.Args,
		Hidden:       tcc.Hidden,
		RunMain:      boolOr(tcc.RunMain, true),
		MatchCase:    boolOr(tcc.MatchCase, true),
		MatchSpace:   boolOr(tcc.MatchSpace, true),
	}
	if tcc.Code != "" {
		cfg.Code = splitLines(tcc.Code)
	}

	if tcc.Timeout != "" {
		timeout, err := time.ParseDuration(tcc.Timeout)
		if err != nil {
			return testcase.NewFailed(id, cfg, errors.Configf("invalid timeout %q", tcc.Timeout))
		}
		cfg.Timeout = timeout
	}

	if tcc.Code == "" && tcc.CodeFile == "" {
		return testcase.NewFailed(id, cfg, errors.Config("no code or code_file given"))
	}

	tc, err := testcase.New(id, cfg)
	if err != nil {
		return testcase.NewFailed(id, cfg, err)
	}
	return tc
}

// splitLines breaks a YAML block scalar into lines, dropping the final
// empty line a trailing newline would otherwise produce.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
