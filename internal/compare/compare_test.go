package compare

import (
	"strings"
	"testing"
)

func TestMatch_Strict(t *testing.T) {
	t.Parallel()
	opts := Default()

	tests := []struct {
		name     string
		expected string
		actual   string
		match    bool
	}{
		{"identical", "Hello World\n", "Hello World\n", true},
		{"case differs", "Hello World\n", "hello world\n", false},
		{"space differs", "Hello World\n", "Hello  World\n", false},
		{"trailing newline differs", "Hello\n", "Hello", false},
		{"empty both", "", "", true},
		{"empty vs content", "", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Match(tt.expected, tt.actual, opts); got != tt.match {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.expected, tt.actual, got, tt.match)
			}
		})
	}
}

func TestMatch_Relaxed(t *testing.T) {
	t.Parallel()

	// Matches only when both relaxations are active; either one alone
	// still catches the remaining difference.
	expected := "Hello World\n"
	actual := "hello   world\n"

	tests := []struct {
		name  string
		opts  Options
		match bool
	}{
		{"both relaxed", Options{MatchCase: false, MatchSpace: false}, true},
		{"only case relaxed", Options{MatchCase: false, MatchSpace: true}, false},
		{"only space relaxed", Options{MatchCase: true, MatchSpace: false}, false},
		{"both strict", Default(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Match(expected, actual, tt.opts); got != tt.match {
				t.Errorf("Match = %v, want %v", got, tt.match)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		opts Options
		want string
	}{
		{"strict is identity", "  A  b\n", Default(), "  A  b\n"},
		{"space collapse", "a \t b\n\nc", Options{MatchCase: true}, "a b c"},
		{"case fold", "MiXeD", Options{MatchSpace: true}, "mixed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.in, tt.opts); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	if d := Diff("same\n", "same\n", Default()); d != "" {
		t.Errorf("Diff of equal outputs = %q, want empty", d)
	}

	d := Diff("a\nb\nc\n", "a\nX\nc\n", Default())
	if !strings.Contains(d, "line 2") {
		t.Errorf("Diff should point at line 2, got %q", d)
	}

	d = Diff("a\nb", "a", Default())
	if !strings.Contains(d, "ends early") {
		t.Errorf("Diff should report missing output, got %q", d)
	}
}
