package testcase

import (
	"fmt"
	"path/filepath"
)

// Artifacts names every generated file for one test case. Paths are a pure
// function of the workspace directory and the test case id, so concurrent
// cases never collide.
type Artifacts struct {
	Source     string // Generated, instrumented source file
	Binary     string // Compiled executable
	CompileLog string // Captured compiler diagnostics
	Stdout     string // Captured standard output of the run
	Stderr     string // Captured standard error of the run
	Results    string // Results channel written by the instrumented program
}

// NewArtifacts returns the artifact paths for test case id under dir.
func NewArtifacts(dir string, id int) Artifacts {
	base := filepath.Join(dir, fmt.Sprintf("test-%d", id))
	return Artifacts{
		Source:     base + ".cpp",
		Binary:     base + ".exe",
		CompileLog: base + "-compile.txt",
		Stdout:     base + "-output.txt",
		Stderr:     base + "-errors.txt",
		Results:    base + "-results.txt",
	}
}
