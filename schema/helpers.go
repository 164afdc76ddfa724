package schema

import (
	"slices"
	"strings"
)

// FormatSources joins source names for single-cell display.
func FormatSources(sources []string) string {
	return strings.Join(sources, ", ")
}

// ParseSources splits a string produced by FormatSources.
func ParseSources(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseKinds parses a comma-separated list of exception kinds, case-insensitively.
// Unknown kinds are returned in the second value.
func ParseKinds(s string) (kinds []ExceptionKind, unknown []string) {
	for _, raw := range ParseSources(s) {
		k := ExceptionKind(strings.ToUpper(raw))
		if _, ok := ValidExceptionKinds[k]; !ok {
			unknown = append(unknown, raw)
			continue
		}
		if !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	return kinds, unknown
}
