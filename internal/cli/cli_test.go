package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/emperfect/emperfect/internal/errors"
)

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		wantConfig    string
		wantQuiet     bool
		wantRemaining []string
		wantErr       bool
	}{
		{
			name:          "defaults",
			args:          []string{"run"},
			wantConfig:    DefaultSuiteFile,
			wantRemaining: []string{"run"},
		},
		{
			name:          "config short flag",
			args:          []string{"-C", "hw3.yaml", "run"},
			wantConfig:    "hw3.yaml",
			wantRemaining: []string{"run"},
		},
		{
			name:          "config equals form",
			args:          []string{"run", "--config=hw3.yaml"},
			wantConfig:    "hw3.yaml",
			wantRemaining: []string{"run"},
		},
		{
			name:          "quiet after command",
			args:          []string{"validate", "-q"},
			wantConfig:    DefaultSuiteFile,
			wantQuiet:     true,
			wantRemaining: []string{"validate"},
		},
		{
			name:    "config without value",
			args:    []string{"run", "--config"},
			wantErr: true,
		},
		{
			name:    "config with empty value",
			args:    []string{"run", "--config="},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, remaining, err := parseGlobalFlags(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseGlobalFlags: %v", err)
			}
			if opts.ConfigPath != tt.wantConfig {
				t.Errorf("ConfigPath = %q, want %q", opts.ConfigPath, tt.wantConfig)
			}
			if opts.Quiet != tt.wantQuiet {
				t.Errorf("Quiet = %v", opts.Quiet)
			}
			if len(remaining) != len(tt.wantRemaining) {
				t.Fatalf("remaining = %v, want %v", remaining, tt.wantRemaining)
			}
			for i := range remaining {
				if remaining[i] != tt.wantRemaining[i] {
					t.Errorf("remaining = %v, want %v", remaining, tt.wantRemaining)
				}
			}
		})
	}
}

func TestParseRunFlags(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantAudience string
		wantWorkers  int
		wantErr      bool
	}{
		{name: "no flags", wantWorkers: 1},
		{name: "audience", args: []string{"--audience=teacher"}, wantAudience: "teacher", wantWorkers: 1},
		{name: "audience separate value", args: []string{"--audience", "summary"}, wantAudience: "summary", wantWorkers: 1},
		{name: "parallel", args: []string{"--parallel"}, wantWorkers: runtime.NumCPU()},
		{name: "workers", args: []string{"--workers=3"}, wantWorkers: 3},
		{name: "bad audience", args: []string{"--audience=verbose"}, wantErr: true},
		{name: "zero workers", args: []string{"--workers=0"}, wantErr: true},
		{name: "non-numeric workers", args: []string{"--workers=many"}, wantErr: true},
		{name: "stray argument", args: []string{"extra"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseRunFlags(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRunFlags: %v", err)
			}
			if opts.Audience != tt.wantAudience {
				t.Errorf("Audience = %q", opts.Audience)
			}
			if opts.Workers != tt.wantWorkers {
				t.Errorf("Workers = %d, want %d", opts.Workers, tt.wantWorkers)
			}
		})
	}
}

func TestRun_MetaCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no args shows help", nil, errors.ExitSuccess},
		{"help flag", []string{"--help"}, errors.ExitSuccess},
		{"version", []string{"version"}, errors.ExitSuccess},
		{"unknown command", []string{"grade"}, errors.ExitConfigError},
		{"missing suite file", []string{"run", "-C", "no-such-file.yaml"}, errors.ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Run(tt.args); got != tt.want {
				t.Errorf("Run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestCmdValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	suite := `
compile:
  - g++ -std=c++20 ${cpp} -o ${exe}
testcases:
  - name: basics
    points: 10
    code: |
      CHECK(1 == 1);
`
	if err := os.WriteFile(path, []byte(suite), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := Run([]string{"validate", "-C", path}); got != errors.ExitSuccess {
		t.Errorf("validate exit = %d", got)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("testcases: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Run([]string{"validate", "-C", bad}); got != errors.ExitConfigError {
		t.Errorf("invalid suite exit = %d, want %d", got, errors.ExitConfigError)
	}
}
