package config

import (
	"strings"

	"github.com/emperfect/emperfect/internal/errors"
)

// Expand substitutes ${name} references in s from vars. Variable names are
// case-insensitive. An unknown variable or an unterminated reference is a
// configuration error.
func Expand(s string, vars map[string]string) (string, error) {
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			b.WriteString(s)
			return b.String(), nil
		}
		b.WriteString(s[:start])

		end := strings.Index(s[start:], "}")
		if end < 0 {
			return "", errors.Configf("no end to variable reference in: %s", s)
		}

		name := strings.ToLower(strings.TrimSpace(s[start+2 : start+end]))
		value, ok := vars[name]
		if !ok {
			return "", errors.Configf("unknown variable used: %s", name)
		}
		b.WriteString(value)
		s = s[start+end+1:]
	}
}

// ExpandAll expands every string in ss, failing on the first bad reference.
func ExpandAll(ss []string, vars map[string]string) ([]string, error) {
	out := make([]string, len(ss))
	for i, s := range ss {
		expanded, err := Expand(s, vars)
		if err != nil {
			return nil, err
		}
		out[i] = expanded
	}
	return out, nil
}

// MergeVars layers overrides on top of base without mutating either.
// Keys are lowercased so lookups match Expand's case folding.
func MergeVars(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[strings.ToLower(k)] = v
	}
	for k, v := range overrides {
		merged[strings.ToLower(k)] = v
	}
	return merged
}
