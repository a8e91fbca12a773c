package config

import (
	"testing"

	"github.com/emperfect/emperfect/internal/errors"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"cpp": "work/test-0.cpp",
		"exe": "work/test-0.exe",
		"dir": "work",
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no references", "g++ -std=c++20 main.cpp", "g++ -std=c++20 main.cpp"},
		{"single reference", "g++ ${cpp}", "g++ work/test-0.cpp"},
		{"multiple references", "g++ ${cpp} -o ${exe}", "g++ work/test-0.cpp -o work/test-0.exe"},
		{"case insensitive", "cd ${DIR}", "cd work"},
		{"adjacent text", "${dir}/${dir}", "work/work"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Expand(tt.input, vars)
			if err != nil {
				t.Fatalf("Expand(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpand_Errors(t *testing.T) {
	t.Parallel()

	vars := map[string]string{"dir": "work"}

	for _, input := range []string{"${missing}", "echo ${dir", "${}"} {
		_, err := Expand(input, vars)
		if err == nil {
			t.Errorf("Expand(%q) should fail", input)
			continue
		}
		if !errors.IsConfig(err) {
			t.Errorf("Expand(%q) error kind = %v, want config", input, err)
		}
	}
}

func TestExpandAll(t *testing.T) {
	t.Parallel()

	vars := map[string]string{"exe": "a.out"}

	got, err := ExpandAll([]string{"run ${exe}", "plain"}, vars)
	if err != nil {
		t.Fatalf("ExpandAll: %v", err)
	}
	if got[0] != "run a.out" || got[1] != "plain" {
		t.Errorf("ExpandAll = %v", got)
	}

	if _, err := ExpandAll([]string{"ok", "${nope}"}, vars); err == nil {
		t.Error("ExpandAll should fail on a bad reference")
	}
}

func TestMergeVars(t *testing.T) {
	t.Parallel()

	base := map[string]string{"Course": "CSE101", "term": "fall"}
	overrides := map[string]string{"TERM": "spring", "id": "7"}

	merged := MergeVars(base, overrides)

	if merged["course"] != "CSE101" {
		t.Errorf("course = %q", merged["course"])
	}
	if merged["term"] != "spring" {
		t.Errorf("term = %q, want override to win", merged["term"])
	}
	if merged["id"] != "7" {
		t.Errorf("id = %q", merged["id"])
	}
	if base["term"] != "fall" {
		t.Error("MergeVars mutated base")
	}
}
