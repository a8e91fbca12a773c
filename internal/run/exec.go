package run

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"time"

	"github.com/emperfect/emperfect/internal/errors"
)

// Compiler turns a generated source file into an executable. The commands
// are fully expanded shell command lines; diagnostics go to logPath.
type Compiler interface {
	Compile(ctx context.Context, commands []string, logPath string) (exitCode int, err error)
}

// Runner executes a compiled test program and reports how it ended.
type Runner interface {
	Run(ctx context.Context, spec RunSpec) (RunResult, error)
}

// RunSpec describes one execution of a compiled test program.
type RunSpec struct {
	Binary     string
	Args       []string
	StdinPath  string // Fed as standard input when set
	StdoutPath string // Captured standard output
	StderrPath string // Captured standard error
	Timeout    time.Duration
}

// RunResult is the observable outcome of a program run.
type RunResult struct {
	ExitCode int
	TimedOut bool
}

// ShellCompiler runs compile command lines through sh -c, appending the
// combined compiler output of every command to the log file.
type ShellCompiler struct{}

// Compile runs each command in order and stops at the first nonzero exit
// code, returning it. A command that cannot be started at all is an
// environment error, not a compile failure.
func (ShellCompiler) Compile(ctx context.Context, commands []string, logPath string) (int, error) {
	log, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return -1, errors.Wrap(err, "failed to create compile log")
	}
	defer log.Close()

	for _, command := range commands {
		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Stdout = log
		cmd.Stderr = log

		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if stderrors.As(err, &exitErr) {
				return exitErr.ExitCode(), nil
			}
			return -1, errors.Environmentf("failed to run compile command %q: %v", command, err)
		}
	}
	return 0, nil
}

// ProcessRunner executes test binaries directly with a hard timeout.
type ProcessRunner struct{}

// Run executes spec.Binary under a deadline. The process is killed when the
// timeout elapses; the result then reports TimedOut with the kill's exit
// code. A nonzero exit from the program itself is a result, not an error.
func (ProcessRunner) Run(ctx context.Context, spec RunSpec) (RunResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, spec.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, spec.Binary, spec.Args...)

	if spec.StdinPath != "" {
		stdin, err := os.Open(spec.StdinPath)
		if err != nil {
			return RunResult{ExitCode: -1}, errors.Wrap(err, "failed to open input file")
		}
		defer stdin.Close()
		cmd.Stdin = stdin
	}

	stdout, err := os.Create(spec.StdoutPath)
	if err != nil {
		return RunResult{ExitCode: -1}, errors.Wrap(err, "failed to create output capture")
	}
	defer stdout.Close()
	cmd.Stdout = stdout

	stderr, err := os.Create(spec.StderrPath)
	if err != nil {
		return RunResult{ExitCode: -1}, errors.Wrap(err, "failed to create error capture")
	}
	defer stderr.Close()
	cmd.Stderr = stderr

	runErr := cmd.Run()
	timedOut := runCtx.Err() == context.DeadlineExceeded

	if runErr != nil {
		var exitErr *exec.ExitError
		if stderrors.As(runErr, &exitErr) {
			return RunResult{ExitCode: exitErr.ExitCode(), TimedOut: timedOut}, nil
		}
		if timedOut {
			return RunResult{ExitCode: -1, TimedOut: true}, nil
		}
		return RunResult{ExitCode: -1}, errors.Environmentf("failed to run test program %q: %v", spec.Binary, runErr)
	}
	return RunResult{ExitCode: 0, TimedOut: timedOut}, nil
}
