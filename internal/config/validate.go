package config

import (
	"fmt"
	"time"

	"github.com/emperfect/emperfect/internal/errors"
	"github.com/emperfect/emperfect/internal/report"
)

// Validate runs semantic checks the schema cannot express. Run-fatal
// problems (broken output declarations, no compile rules) return an error;
// per-case problems come back as warnings because they fail only the
// affected test case, not the run.
func Validate(cfg *Config) ([]string, error) {
	var warnings []string

	if len(cfg.Compile) == 0 {
		return warnings, errors.Config("cannot set up test cases without compile rules")
	}

	for i, out := range cfg.Outputs {
		if _, err := report.ParseEncoding(out.Type); err != nil {
			return warnings, errors.Configf("output %d: %v", i, err)
		}
		if _, err := report.ParseDetail(out.Detail); err != nil {
			return warnings, errors.Configf("output %d: %v", i, err)
		}
	}

	for i, tc := range cfg.TestCases {
		if tc.Code != "" && tc.CodeFile != "" {
			warnings = append(warnings,
				fmt.Sprintf("test case %d (%s): both code and code_file given; the case will fail", i, tc.Name))
		}
		if tc.Code == "" && tc.CodeFile == "" {
			warnings = append(warnings,
				fmt.Sprintf("test case %d (%s): no code or code_file given", i, tc.Name))
		}
		if tc.Timeout != "" {
			if _, err := time.ParseDuration(tc.Timeout); err != nil {
				warnings = append(warnings,
					fmt.Sprintf("test case %d (%s): invalid timeout %q; the case will fail", i, tc.Name, tc.Timeout))
			}
		}
	}

	return warnings, nil
}
