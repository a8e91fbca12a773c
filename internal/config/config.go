// Package config provides loading and validation of emperfect suite files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emperfect/emperfect/internal/errors"
	"github.com/emperfect/emperfect/internal/schema"
)

// Config represents a complete suite configuration file.
type Config struct {
	Workdir   string            `yaml:"workdir,omitempty"`
	Vars      map[string]string `yaml:"vars,omitempty"`
	Header    string            `yaml:"header,omitempty"`
	Compile   []string          `yaml:"compile"`
	Outputs   []OutputConfig    `yaml:"outputs,omitempty"`
	TestCases []TestCaseConfig  `yaml:"testcases"`
}

// OutputConfig declares one report target.
type OutputConfig struct {
	File   string `yaml:"file,omitempty"`   // Empty writes to stdout
	Type   string `yaml:"type,omitempty"`   // txt or html; from File's extension if empty
	Detail string `yaml:"detail,omitempty"` // Audience detail level; default student
}

// TestCaseConfig declares one test case. Boolean strictness settings use
// pointers so an omitted value can default to true.
type TestCaseConfig struct {
	Name       string   `yaml:"name"`
	Points     float64  `yaml:"points,omitempty"`
	Code       string   `yaml:"code,omitempty"`
	CodeFile   string   `yaml:"code_file,omitempty"`
	Input      string   `yaml:"input,omitempty"`
	Expected   string   `yaml:"expected,omitempty"`
	Args       []string `yaml:"args,omitempty"`
	RunMain    *bool    `yaml:"run_main,omitempty"`
	Hidden     bool     `yaml:"hidden,omitempty"`
	MatchCase  *bool    `yaml:"match_case,omitempty"`
	MatchSpace *bool    `yaml:"match_space,omitempty"`
	Timeout    string   `yaml:"timeout,omitempty"`
}

// Load reads and parses a suite configuration file without validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	return Parse(data)
}

// Parse parses raw YAML suite data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapConfig(err, "failed to parse suite file")
	}
	return &cfg, nil
}

// LoadAndValidate reads a suite file, checks it against the embedded
// schema, applies defaults, and runs semantic validation. It returns
// warnings for recoverable issues alongside the config.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	if err := schema.ValidateSuite(data); err != nil {
		return nil, nil, errors.WrapConfig(err, "invalid suite file")
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, nil, err
	}

	warnings := applyDefaults(cfg)

	validationWarnings, err := Validate(cfg)
	warnings = append(warnings, validationWarnings...)
	if err != nil {
		return nil, warnings, err
	}

	return cfg, warnings, nil
}
