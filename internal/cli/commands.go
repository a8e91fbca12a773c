package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/emperfect/emperfect/internal/config"
	"github.com/emperfect/emperfect/internal/errors"
	"github.com/emperfect/emperfect/internal/report"
	"github.com/emperfect/emperfect/internal/run"
	"github.com/emperfect/emperfect/internal/testcase"
)

// runOptions holds flags specific to the run command.
type runOptions struct {
	Audience string // Overrides every configured output's detail level
	Workers  int
}

func parseRunFlags(args []string) (*runOptions, error) {
	opts := &runOptions{Workers: 1}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case strings.HasPrefix(arg, "--audience="):
			opts.Audience = strings.TrimPrefix(arg, "--audience=")
			i++
		case arg == "--audience":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--audience requires a value")
			}
			opts.Audience = args[i+1]
			i += 2
		case arg == "--parallel":
			opts.Workers = runtime.NumCPU()
			i++
		case strings.HasPrefix(arg, "--workers="):
			n, err := strconv.Atoi(strings.TrimPrefix(arg, "--workers="))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("--workers requires a positive number")
			}
			opts.Workers = n
			i++
		default:
			return nil, fmt.Errorf("run: unknown argument %q", arg)
		}
	}

	if opts.Audience != "" {
		if _, err := report.ParseDetail(opts.Audience); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// cmdRun grades the configured suite and writes every report.
func cmdRun(args []string, opts *GlobalOptions) int {
	runOpts, err := parseRunFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	cfg, warnings, err := config.LoadAndValidate(opts.ConfigPath)
	for _, w := range warnings {
		out.Warning("%s", w)
	}
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	suite, err := config.BuildSuite(cfg)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	coord, err := run.New(cfg, out)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out.Action("Grading %d test cases from %s", len(suite.Cases), opts.ConfigPath)
	if err := coord.RunSuite(ctx, suite, runOpts.Workers); err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	if code := writeReports(cfg, suite, runOpts.Audience); code != errors.ExitSuccess {
		return code
	}

	printRunSummary(suite)

	if suite.CountPassed() == len(suite.Cases) {
		return errors.ExitSuccess
	}
	return errors.ExitRuntimeError
}

// writeReports renders the suite once per configured output. An audience
// override replaces every output's detail level.
func writeReports(cfg *config.Config, suite *testcase.Suite, audience string) int {
	for _, oc := range cfg.Outputs {
		if code := writeReport(oc, suite, audience); code != errors.ExitSuccess {
			return code
		}
	}
	return errors.ExitSuccess
}

func writeReport(oc config.OutputConfig, suite *testcase.Suite, audience string) int {
	detailName := oc.Detail
	if audience != "" {
		detailName = audience
	}
	detail, err := report.ParseDetail(detailName)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}
	encoding, err := report.ParseEncoding(oc.Type)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	var w io.Writer = os.Stdout
	if oc.File != "" {
		f, err := os.Create(oc.File)
		if err != nil {
			out.ErrorPrefix("failed to create report %s: %v", oc.File, err)
			return errors.ExitEnvironmentError
		}
		defer f.Close()
		w = f
	}

	renderer := report.New(w, report.Options{Encoding: encoding, Detail: detail})
	if err := renderer.Render(suite); err != nil {
		out.ErrorPrefix("failed to write report: %v", err)
		return errors.ExitEnvironmentError
	}
	if oc.File != "" {
		out.Info("Wrote %s report to %s", detail, oc.File)
	}
	return errors.ExitSuccess
}

func printRunSummary(suite *testcase.Suite) {
	passed := suite.CountPassed()
	total := len(suite.Cases)

	out.SummaryHeader("Results")
	out.SummaryItem("Test cases", fmt.Sprintf("%d/%d passed", passed, total))
	out.SummaryItem("Score", fmt.Sprintf("%s / %s",
		strconv.FormatFloat(suite.EarnedPoints(), 'f', -1, 64),
		strconv.FormatFloat(suite.TotalPoints(), 'f', -1, 64)))

	if passed == total {
		out.FinalSuccess("All %d test cases passed.", total)
	} else {
		out.FinalFailure("%d of %d test cases failed.", total-passed, total)
	}
}

// cmdValidate loads and checks the suite file without grading anything.
func cmdValidate(args []string, opts *GlobalOptions) int {
	if len(args) > 0 {
		out.ErrorPrefix("validate: unknown argument %q", args[0])
		return errors.ExitConfigError
	}

	cfg, warnings, err := config.LoadAndValidate(opts.ConfigPath)
	for _, w := range warnings {
		out.Warning("%s", w)
	}
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	var points float64
	var hidden int
	for _, tc := range cfg.TestCases {
		points += tc.Points
		if tc.Hidden {
			hidden++
		}
	}

	out.ValidationSuccess("Suite file is valid.")
	out.SummaryItem("Test cases", fmt.Sprintf("%d (%d hidden)", len(cfg.TestCases), hidden))
	out.SummaryItem("Total points", strconv.FormatFloat(points, 'f', -1, 64))
	out.SummaryItem("Outputs", fmt.Sprintf("%d", len(cfg.Outputs)))
	if len(warnings) > 0 {
		out.SummaryItem("Warnings", fmt.Sprintf("%d", len(warnings)))
	}
	return errors.ExitSuccess
}
