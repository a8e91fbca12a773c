// Package emperfect provides public constants for external tools
// integrating with the emperfect autograder.
package emperfect

// Exit codes returned by the emperfect CLI.
// These constants allow external tools (LMS bridges, CI wrappers) to check
// exit codes symbolically rather than using magic numbers.
const (
	// ExitSuccess indicates every test case passed.
	ExitSuccess = 0

	// ExitFailure indicates a grading failure (at least one test case failed).
	ExitFailure = 1

	// ExitConfigError indicates a configuration error (invalid suite file,
	// bad assertion, unknown variable, etc.).
	ExitConfigError = 2

	// ExitEnvError indicates an environment error (compiler unavailable,
	// workspace not writable, etc.).
	ExitEnvError = 3
)
