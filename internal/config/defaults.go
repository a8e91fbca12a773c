package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Default configuration values.
const (
	DefaultWorkdir = ".emperfect"
	DefaultDetail  = "student"
	DefaultType    = "txt"
)

// applyDefaults fills in default values for unset fields and normalizes
// output declarations. It returns warnings for values that were coerced.
func applyDefaults(cfg *Config) []string {
	var warnings []string

	if cfg.Workdir == "" {
		cfg.Workdir = DefaultWorkdir
	}
	if cfg.Vars == nil {
		cfg.Vars = make(map[string]string)
	}

	// A suite with no outputs still reports somewhere.
	if len(cfg.Outputs) == 0 {
		cfg.Outputs = []OutputConfig{{Detail: DefaultDetail, Type: DefaultType}}
	}

	for i := range cfg.Outputs {
		warnings = append(warnings, normalizeOutput(&cfg.Outputs[i])...)
	}

	return warnings
}

// normalizeOutput resolves an output's type and detail, deriving the type
// from the filename extension when unset.
func normalizeOutput(out *OutputConfig) []string {
	var warnings []string

	if out.Type == "" && out.File != "" {
		out.Type = strings.TrimPrefix(filepath.Ext(out.File), ".")
	}
	switch out.Type {
	case "":
		out.Type = DefaultType
	case "htm":
		out.Type = "html"
	case "txt", "text", "html":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown output type %q; using text", out.Type))
		out.Type = DefaultType
	}

	if out.Detail == "" {
		out.Detail = DefaultDetail
	}

	return warnings
}
