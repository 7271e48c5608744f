package version

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Normalize strips a leading "v" or "V" prefix from a version string.
func Normalize(v string) string {
	if len(v) > 0 && (v[0] == 'v' || v[0] == 'V') {
		return v[1:]
	}
	return v
}

// Parse parses a tag as a semantic version. Partial versions such as
// "v4" or "v4.1" are accepted and padded with zeros.
func Parse(tag string) (*semver.Version, bool) {
	v, err := semver.NewVersion(Normalize(tag))
	if err != nil {
		return nil, false
	}
	return v, true
}

// IsValid reports whether the tag parses as a semantic version.
func IsValid(tag string) bool {
	_, ok := Parse(tag)
	return ok
}

// IsPreRelease reports whether the tag carries a pre-release suffix
// (e.g. "v2.0.0-rc.1").
func IsPreRelease(tag string) bool {
	v, ok := Parse(tag)
	return ok && v.Prerelease() != ""
}

// Compare compares two version tags by semantic version precedence.
// Returns -1, 0, or 1. Tags that do not parse sort below valid versions;
// two invalid tags fall back to lexicographic comparison.
func Compare(a, b string) int {
	va, okA := Parse(a)
	vb, okB := Parse(b)

	switch {
	case okA && okB:
		return va.Compare(vb)
	case okA:
		return 1
	case okB:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

// Specificity returns the number of explicit dotted-numeric components in
// the tag ("v4" -> 1, "v4.1" -> 2, "v4.1.2" -> 3), used to prefer the more
// specific literal when two tags denote the same version.
func Specificity(tag string) int {
	comps, ok := components(tag)
	if !ok {
		return 0
	}
	return len(comps)
}

// MatchesPrefix reports whether the tag's dotted-numeric components match
// the pattern component-wise. Pattern "v4" matches "v4", "v4.0.0" and
// "v4.9.3" but not "v40.0.0".
func MatchesPrefix(tag, pattern string) bool {
	pc, ok := components(pattern)
	if !ok || len(pc) == 0 {
		return false
	}
	tc, ok := components(tag)
	if !ok || len(tc) < len(pc) {
		return false
	}
	for i, p := range pc {
		if tc[i] != p {
			return false
		}
	}
	return true
}

// components splits a tag into its numeric version components, dropping
// any pre-release or build suffix.
func components(tag string) ([]int, bool) {
	s := Normalize(tag)
	if i := strings.IndexAny(s, "-+"); i != -1 {
		s = s[:i]
	}
	if s == "" {
		return nil, false
	}

	parts := strings.Split(s, ".")
	comps := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, false
		}
		comps = append(comps, n)
	}
	return comps, true
}
