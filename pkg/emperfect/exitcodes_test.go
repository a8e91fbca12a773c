package emperfect_test

import (
	"testing"

	"github.com/emperfect/emperfect/internal/errors"
	"github.com/emperfect/emperfect/pkg/emperfect"
)

// TestExitCodeConsistency verifies that public exit code constants match
// the internal errors package constants. This prevents drift between
// the public API and internal implementation.
func TestExitCodeConsistency(t *testing.T) {
	tests := []struct {
		name     string
		public   int
		internal int
	}{
		{"ExitSuccess", emperfect.ExitSuccess, errors.ExitSuccess},
		{"ExitFailure", emperfect.ExitFailure, errors.ExitRuntimeError},
		{"ExitConfigError", emperfect.ExitConfigError, errors.ExitConfigError},
		{"ExitEnvError", emperfect.ExitEnvError, errors.ExitEnvironmentError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.public != tt.internal {
				t.Errorf("emperfect.%s = %d, internal = %d", tt.name, tt.public, tt.internal)
			}
		})
	}
}
