// Package run drives a grading run: it turns configured test cases into
// instrumented programs, compiles and executes them inside a per-run
// workspace, and records the results on each case.
package run

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/emperfect/emperfect/internal/compare"
	"github.com/emperfect/emperfect/internal/config"
	"github.com/emperfect/emperfect/internal/errors"
	"github.com/emperfect/emperfect/internal/instrument"
	"github.com/emperfect/emperfect/internal/output"
	"github.com/emperfect/emperfect/internal/resultlog"
	"github.com/emperfect/emperfect/internal/testcase"
)

// Coordinator executes the test cases of one suite. Each Coordinator owns a
// fresh workspace directory, so concurrent runs never share artifacts.
type Coordinator struct {
	cfg      *config.Config
	compiler Compiler
	runner   Runner
	out      *output.Writer
	dir      string
}

// New creates a coordinator with a fresh workspace under cfg.Workdir.
func New(cfg *config.Config, out *output.Writer) (*Coordinator, error) {
	dir := filepath.Join(cfg.Workdir, "run-"+uuid.NewString()[:8])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Environmentf("failed to create workspace %s: %v", dir, err)
	}
	return &Coordinator{
		cfg:      cfg,
		compiler: ShellCompiler{},
		runner:   ProcessRunner{},
		out:      out,
		dir:      dir,
	}, nil
}

// Dir returns the workspace directory artifacts are written to.
func (c *Coordinator) Dir() string {
	return c.dir
}

// RunSuite executes every case in the suite with at most workers running
// concurrently. Grading failures are recorded on the cases themselves; the
// returned error reflects cancellation or a broken environment only.
func (c *Coordinator) RunSuite(ctx context.Context, suite *testcase.Suite, workers int) error {
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, tc := range suite.Cases {
		g.Go(func() error {
			return c.RunCase(ctx, tc)
		})
	}
	return g.Wait()
}

// RunCase takes one test case through instrumentation, compilation,
// execution, and scoring. A failure at any step is recorded on the case;
// a case that arrives already scored is left alone.
func (c *Coordinator) RunCase(ctx context.Context, tc *testcase.TestCase) error {
	if tc.Phase() == testcase.PhaseScored {
		c.out.CaseResult(tc.ID, tc.Name, tc.Passed(), tc.Cause().String())
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	art := testcase.NewArtifacts(c.dir, tc.ID)
	vars := config.MergeVars(c.cfg.Vars, map[string]string{
		"id":      strconv.Itoa(tc.ID),
		"dir":     c.dir,
		"cpp":     art.Source,
		"exe":     art.Binary,
		"out":     art.Stdout,
		"error":   art.Stderr,
		"compile": art.CompileLog,
		"results": art.Results,
	})

	steps := []func(context.Context, *testcase.TestCase, testcase.Artifacts, map[string]string) error{
		c.instrumentCase,
		c.compileCase,
		c.executeCase,
		c.scoreCase,
	}
	for _, step := range steps {
		if tc.Phase() == testcase.PhaseScored {
			break
		}
		if err := step(ctx, tc, art, vars); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// A broken environment (unwritable workspace, missing shell)
			// would fail every case the same way; abort the run instead.
			if errors.IsEnvironment(err) {
				return err
			}
			tc.Fail(err)
			break
		}
	}

	c.out.CaseResult(tc.ID, tc.Name, tc.Passed(), tc.Cause().String())
	return nil
}

// instrumentCase builds the complete generated source file and writes it to
// the workspace.
func (c *Coordinator) instrumentCase(_ context.Context, tc *testcase.TestCase, art testcase.Artifacts, vars map[string]string) error {
	body, err := c.caseBody(tc, vars)
	if err != nil {
		return err
	}

	header, err := config.Expand(c.cfg.Header, vars)
	if err != nil {
		return err
	}

	instrumented, checks, err := instrument.Instrument(body, tc.ID)
	if err != nil {
		return err
	}
	tc.Checks = checks

	source := instrument.Program(instrument.ProgramOptions{
		Header:      header,
		Body:        instrumented,
		Points:      tc.Points,
		ResultsPath: art.Results,
		RunMain:     tc.RunMain,
	})
	tc.InstrumentedSource = source

	if err := os.WriteFile(art.Source, []byte(source), 0o644); err != nil {
		return errors.Environmentf("failed to write generated source: %v", err)
	}
	return tc.Advance(testcase.PhaseInstrumented)
}

// caseBody returns the raw test code with variables expanded, reading the
// code file when the case uses one.
func (c *Coordinator) caseBody(tc *testcase.TestCase, vars map[string]string) (string, error) {
	var body string
	if tc.CodeFile != "" {
		data, err := os.ReadFile(tc.CodeFile)
		if err != nil {
			return "", errors.Configf("failed to read code file %s: %v", tc.CodeFile, err)
		}
		body = string(data)
	} else {
		body = strings.Join(tc.Code, "\n")
	}
	return config.Expand(body, vars)
}

// compileCase runs the configured compile commands. A nonzero compiler exit
// scores the case immediately; only a broken environment is an error.
func (c *Coordinator) compileCase(ctx context.Context, tc *testcase.TestCase, art testcase.Artifacts, vars map[string]string) error {
	commands, err := config.ExpandAll(c.cfg.Compile, vars)
	if err != nil {
		return err
	}

	code, err := c.compiler.Compile(ctx, commands, art.CompileLog)
	if err != nil {
		return err
	}
	tc.CompileExitCode = code
	tc.CompileOutput = readFileQuiet(art.CompileLog)

	if code != 0 {
		return tc.Advance(testcase.PhaseScored)
	}
	return tc.Advance(testcase.PhaseCompiled)
}

// executeCase runs the compiled program with its input and captures its
// streams. A nonzero program exit or a timeout is a result, not an error.
func (c *Coordinator) executeCase(ctx context.Context, tc *testcase.TestCase, art testcase.Artifacts, vars map[string]string) error {
	args, err := config.ExpandAll(tc.Args, vars)
	if err != nil {
		return err
	}
	input, err := config.Expand(tc.InputFile, vars)
	if err != nil {
		return err
	}

	result, err := c.runner.Run(ctx, RunSpec{
		Binary:     art.Binary,
		Args:       args,
		StdinPath:  input,
		StdoutPath: art.Stdout,
		StderrPath: art.Stderr,
		Timeout:    tc.Timeout,
	})
	if err != nil {
		return err
	}
	tc.RunExitCode = result.ExitCode
	tc.TimedOut = result.TimedOut
	tc.Stdout = readFileQuiet(art.Stdout)
	tc.Stderr = readFileQuiet(art.Stderr)

	return tc.Advance(testcase.PhaseExecuted)
}

// scoreCase compares captured output against the expectation and folds the
// results channel back into the case's check records.
func (c *Coordinator) scoreCase(_ context.Context, tc *testcase.TestCase, art testcase.Artifacts, vars map[string]string) error {
	if tc.ExpectedFile != "" {
		path, err := config.Expand(tc.ExpectedFile, vars)
		if err != nil {
			return err
		}
		expected, err := os.ReadFile(path)
		if err != nil {
			return errors.Configf("failed to read expected output %s: %v", path, err)
		}
		tc.OutputMatch = compare.Match(string(expected), tc.Stdout, tc.CompareOptions())
	}

	// A program that crashed or timed out before writing results leaves its
	// checks unresolved; those read as failures when scoring.
	if f, err := os.Open(art.Results); err == nil {
		results, perr := resultlog.Parse(f)
		f.Close()
		if perr != nil {
			return perr
		}
		resultlog.Merge(results, tc.Checks)
	}

	return tc.Advance(testcase.PhaseScored)
}

func readFileQuiet(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
