// Package cli provides command-line interface functionality for emperfect.
package cli

import (
	"fmt"
	"strings"

	"github.com/emperfect/emperfect/internal/errors"
	"github.com/emperfect/emperfect/internal/output"
)

// Version is set at build time.
var Version = "dev"

// DefaultSuiteFile is loaded when no --config flag is given.
const DefaultSuiteFile = "emperfect.yaml"

var out = output.New()

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return errors.ExitSuccess
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return errors.ExitSuccess
	case "--version", "version":
		fmt.Printf("emperfect %s\n", Version)
		return errors.ExitSuccess
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	if len(remaining) == 0 {
		printUsage()
		return errors.ExitSuccess
	}
	cmd := remaining[0]
	cmdArgs := remaining[1:]

	switch cmd {
	case "run":
		return cmdRun(cmdArgs, opts)
	case "validate":
		return cmdValidate(cmdArgs, opts)
	default:
		out.ErrorPrefix("unknown command %q (expected run, validate, or version)", cmd)
		return errors.ExitConfigError
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	ConfigPath string
	Quiet      bool
	NoColor    bool
}

// parseGlobalFlags manually parses global flags from arguments. Manual
// parsing is used instead of the stdlib flag package because flags can
// appear anywhere in the argument list, not just before the command.
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{ConfigPath: DefaultSuiteFile}
	var remaining []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-C" || arg == "--config":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("%s requires a value", arg)
			}
			opts.ConfigPath = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--config="):
			opts.ConfigPath = strings.TrimPrefix(arg, "--config=")
			i++
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "--no-color":
			opts.NoColor = true
			i++
		default:
			remaining = append(remaining, arg)
			i++
		}
	}

	if opts.ConfigPath == "" {
		return nil, nil, fmt.Errorf("--config requires a non-empty value")
	}

	out.SetQuiet(opts.Quiet)
	if opts.NoColor {
		out.SetColor(false)
	}

	return opts, remaining, nil
}

func printUsage() {
	w := output.New()

	w.HelpTitle("emperfect - C++ autograder with embedded test assertions")

	w.HelpSection("Usage:")
	w.HelpUsage("emperfect <command> [flags]")

	w.HelpSection("Commands:")
	w.HelpCommand("run", "Compile, execute, and grade the configured test cases", 10)
	w.HelpCommand("validate", "Check the suite file without running anything", 10)
	w.HelpCommand("version", "Show version information", 10)

	w.HelpSection("Global Flags:")
	w.HelpFlag("-C, --config=<file>", "Suite file to load (default emperfect.yaml)", 21)
	w.HelpFlag("-q, --quiet", "Minimal output (errors only)", 21)
	w.HelpFlag("--no-color", "Disable colored output", 21)
	w.HelpFlag("-h, --help", "Show this help", 21)
	w.HelpFlag("--version", "Show version", 21)

	w.HelpSection("Run Flags:")
	w.HelpFlag("--audience=<detail>", "Override every output's detail level", 21)
	w.HelpFlag("--parallel", "Run test cases concurrently", 21)
	w.HelpFlag("--workers=<n>", "Concurrent test cases (implies --parallel)", 21)

	w.HelpSection("Examples:")
	w.HelpExample("emperfect run", "Grade using emperfect.yaml")
	w.HelpExample("emperfect run -C hw3.yaml --audience=teacher", "Full-detail grading of hw3")
	w.HelpExample("emperfect validate -C hw3.yaml", "Check hw3.yaml for problems")
	w.Println("")
}
