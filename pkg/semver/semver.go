// Package semver implements the strict MAJOR.MINOR.PATCH version scheme
// used by the registry manifest and content frontmatter.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// versionRe matches the strict X.Y.Z form. Pre-release and build
// suffixes are not part of the registry contract.
var versionRe = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// Version is a parsed semantic version triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse parses a strict X.Y.Z version string.
func Parse(s string) (Version, error) {
	m := versionRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Version{}, fmt.Errorf("invalid version %q: must be X.Y.Z", s)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])
	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// IsValid reports whether s is a strict X.Y.Z version string.
func IsValid(s string) bool {
	return versionRe.MatchString(strings.TrimSpace(s))
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Kind selects which component of a version to increment.
type Kind string

const (
	KindMajor Kind = "major"
	KindMinor Kind = "minor"
	KindPatch Kind = "patch"
)

// ParseKind parses a bump kind. The empty string maps to the default
// policy (patch); anything else unrecognized is an error.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return KindPatch, nil
	case "major":
		return KindMajor, nil
	case "minor":
		return KindMinor, nil
	case "patch":
		return KindPatch, nil
	default:
		return "", fmt.Errorf("unknown bump kind %q", s)
	}
}

// labelRe matches bump labels as they appear in PR labels or merge
// commit messages, e.g. "bump:minor".
var labelRe = regexp.MustCompile(`bump:(major|minor|patch)`)

// KindFromLabels extracts the bump kind from a set of labels (or a
// commit message split into tokens). Absence of any bump label means
// patch. Two or more distinct bump labels is a conflict and is
// reported as an error rather than resolved silently.
func KindFromLabels(labels []string) (Kind, error) {
	found := map[Kind]bool{}
	for _, l := range labels {
		for _, m := range labelRe.FindAllStringSubmatch(strings.ToLower(l), -1) {
			found[Kind(m[1])] = true
		}
	}
	switch len(found) {
	case 0:
		return KindPatch, nil
	case 1:
		for k := range found {
			return k, nil
		}
	}
	names := make([]string, 0, len(found))
	for k := range found {
		names = append(names, string(k))
	}
	return "", fmt.Errorf("conflicting bump labels: %s", strings.Join(sortKinds(names), ", "))
}

// sortKinds orders kind names by precedence (major, minor, patch) so
// conflict messages are deterministic.
func sortKinds(names []string) []string {
	order := map[string]int{"major": 0, "minor": 1, "patch": 2}
	out := make([]string, len(names))
	copy(out, names)
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if order[out[j]] < order[out[i]] {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// Bump returns the next version for the given kind. The selected
// component is incremented and all lower-order components reset to
// zero.
func Bump(v Version, kind Kind) Version {
	switch kind {
	case KindMajor:
		return Version{Major: v.Major + 1}
	case KindMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}
