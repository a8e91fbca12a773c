// Package errors provides structured error types and exit codes for Emperfect.
package errors

import (
	"fmt"
)

// Exit codes returned by the emperfect CLI.
const (
	ExitSuccess          = 0 // All test cases passed
	ExitRuntimeError     = 1 // Runtime error or at least one failed test case
	ExitConfigError      = 2 // Configuration error (invalid suite file, bad assertion, etc.)
	ExitEnvironmentError = 3 // Environment error (compiler missing, workdir not writable, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindInstrumentation
	KindNotFound
	KindEnvironment
)

// EmperfectError is the base error type for Emperfect.
type EmperfectError struct {
	Kind     ErrorKind
	Message  string
	TestCase string // Test case name or id if applicable
	Cause    error  // Underlying error
}

func (e *EmperfectError) Error() string {
	if e.TestCase != "" {
		return fmt.Sprintf("[%s] %s", e.TestCase, e.Message)
	}
	return e.Message
}

func (e *EmperfectError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *EmperfectError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindInstrumentation:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *EmperfectError {
	return &EmperfectError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *EmperfectError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *EmperfectError {
	return &EmperfectError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *EmperfectError {
	return Config(fmt.Sprintf(format, args...))
}

// Instrumentation creates an instrumentation error for a specific test case.
func Instrumentation(testCase, message string) *EmperfectError {
	return &EmperfectError{
		Kind:     KindInstrumentation,
		TestCase: testCase,
		Message:  message,
	}
}

// Instrumentationf creates an instrumentation error with formatting.
func Instrumentationf(testCase, format string, args ...interface{}) *EmperfectError {
	return Instrumentation(testCase, fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *EmperfectError {
	return &EmperfectError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *EmperfectError {
	return Environment(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *EmperfectError {
	return &EmperfectError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// WrapConfig wraps an error as a configuration error.
func WrapConfig(err error, message string) *EmperfectError {
	return &EmperfectError{
		Kind:    KindConfig,
		Message: fmt.Sprintf("%s: %v", message, err),
		Cause:   err,
	}
}

// CaseError creates an error attributed to a specific test case.
func CaseError(testCase, message string) *EmperfectError {
	return &EmperfectError{
		Kind:     KindRuntime,
		TestCase: testCase,
		Message:  message,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *EmperfectError {
	return &EmperfectError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// IsConfig reports whether err is a configuration or instrumentation error.
func IsConfig(err error) bool {
	if ee, ok := err.(*EmperfectError); ok {
		return ee.Kind == KindConfig || ee.Kind == KindInstrumentation
	}
	return false
}

// IsEnvironment reports whether err is an environment error.
func IsEnvironment(err error) bool {
	if ee, ok := err.(*EmperfectError); ok {
		return ee.Kind == KindEnvironment
	}
	return false
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if ee, ok := err.(*EmperfectError); ok {
		return ee.ExitCode()
	}
	return ExitRuntimeError
}
