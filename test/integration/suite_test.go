// Package integration contains integration tests for emperfect.
package integration

import (
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/emperfect/emperfect/internal/config"
	"github.com/emperfect/emperfect/internal/errors"
	"github.com/emperfect/emperfect/internal/testcase"
)

var (
	fixturesDirOnce sync.Once
	fixturesDirPath string
)

// fixturesDir returns the path to the test fixtures directory.
func fixturesDir() string {
	fixturesDirOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		fixturesDirPath = filepath.Join(filepath.Dir(filename), "..", "fixtures")
	})
	return fixturesDirPath
}

func TestMinimalSuite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(fixturesDir(), "minimal", "emperfect.yaml")

	cfg, warnings, err := config.LoadAndValidate(path)
	if err != nil {
		t.Fatalf("failed to load minimal suite: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	if cfg.Workdir != config.DefaultWorkdir {
		t.Errorf("expected default workdir, got %q", cfg.Workdir)
	}
	if len(cfg.Outputs) != 1 || cfg.Outputs[0].Detail != config.DefaultDetail {
		t.Errorf("expected one default output, got %+v", cfg.Outputs)
	}

	suite, err := config.BuildSuite(cfg)
	if err != nil {
		t.Fatalf("failed to build suite: %v", err)
	}
	if len(suite.Cases) != 1 {
		t.Fatalf("expected 1 test case, got %d", len(suite.Cases))
	}
	if suite.TotalPoints() != 1 {
		t.Errorf("expected 1 total point, got %v", suite.TotalPoints())
	}
}

func TestFullSuite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(fixturesDir(), "full", "emperfect.yaml")

	cfg, warnings, err := config.LoadAndValidate(path)
	if err != nil {
		t.Fatalf("failed to load full suite: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	if cfg.Workdir != ".grading" {
		t.Errorf("expected workdir %q, got %q", ".grading", cfg.Workdir)
	}
	if len(cfg.Outputs) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(cfg.Outputs))
	}
	if cfg.Outputs[1].Type != "html" {
		t.Errorf("expected html type derived from filename, got %q", cfg.Outputs[1].Type)
	}

	suite, err := config.BuildSuite(cfg)
	if err != nil {
		t.Fatalf("failed to build suite: %v", err)
	}
	if len(suite.Cases) != 3 {
		t.Fatalf("expected 3 test cases, got %d", len(suite.Cases))
	}
	if suite.TotalPoints() != 30 {
		t.Errorf("expected 30 total points, got %v", suite.TotalPoints())
	}

	stress := suite.Cases[2]
	if !stress.Hidden || stress.RunMain || stress.Timeout != 10*time.Second {
		t.Errorf("stress case misconfigured: %+v", stress.Config)
	}

	formatted := suite.Cases[1]
	if formatted.MatchSpace || !formatted.MatchCase {
		t.Errorf("output format case misconfigured: %+v", formatted.Config)
	}
	if formatted.InputFile != "input.txt" || formatted.ExpectedFile != "expected.txt" {
		t.Errorf("output format case files: %+v", formatted.Config)
	}
}

func TestInvalidSuites(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
	}{
		{"missing compile rules", "no-compile.yaml"},
		{"unknown field", "unknown-field.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(fixturesDir(), "invalid", tt.file)

			_, _, err := config.LoadAndValidate(path)
			if err == nil {
				t.Fatalf("expected %s to fail validation", tt.file)
			}
			if errors.GetExitCode(err) != errors.ExitConfigError {
				t.Errorf("expected config error exit code, got %d (%v)", errors.GetExitCode(err), err)
			}
		})
	}
}

// TestBrokenCaseIsolation verifies that one misconfigured test case fails
// alone while the rest of the suite still builds and can be graded.
func TestBrokenCaseIsolation(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Compile: []string{"g++ ${cpp} -o ${exe}"},
		TestCases: []config.TestCaseConfig{
			{Name: "ok", Points: 5, Code: "CHECK(1 == 1);"},
			{Name: "broken", Points: 5, Timeout: "never"},
		},
	}

	suite, err := config.BuildSuite(cfg)
	if err != nil {
		t.Fatalf("failed to build suite: %v", err)
	}

	if suite.Cases[0].Err != nil {
		t.Errorf("ok case should build cleanly: %v", suite.Cases[0].Err)
	}
	broken := suite.Cases[1]
	if broken.Err == nil || broken.Cause() != testcase.CauseSetup {
		t.Errorf("broken case: err=%v cause=%v", broken.Err, broken.Cause())
	}
	if suite.TotalPoints() != 10 || suite.EarnedPoints() != 0 {
		t.Errorf("points: total=%v earned=%v", suite.TotalPoints(), suite.EarnedPoints())
	}
}
