package core

import (
	"fmt"
	"strings"
)

// ViolationKind identifies a distinct class of schema violation.
type ViolationKind string

const (
	// KindMalformedFile covers unparsable YAML or frontmatter.
	KindMalformedFile ViolationKind = "malformed-file"
	// KindMissingField covers absent required frontmatter or entry keys.
	KindMissingField ViolationKind = "missing-field"
	// KindInvalidValue covers values outside a closed enumeration.
	KindInvalidValue ViolationKind = "invalid-value"
	// KindBadVersion covers version fields that are not strict X.Y.Z.
	KindBadVersion ViolationKind = "bad-version"
	// KindDuplicateID covers an identifier declared more than once.
	KindDuplicateID ViolationKind = "duplicate-id"
	// KindDanglingReference covers related_errors pointing at unknown ids.
	KindDanglingReference ViolationKind = "dangling-reference"
)

// Violation describes one schema failure with enough context for a
// human to act on it: the offending file, field, and reason.
type Violation struct {
	Kind    ViolationKind
	File    string
	Field   string
	Value   string
	Message string
	// Related lists additional locations involved, e.g. every file
	// declaring a duplicated identifier.
	Related []string
}

func (v Violation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", v.Kind, v.File)
	if v.Field != "" {
		fmt.Fprintf(&b, " (%s)", v.Field)
	}
	fmt.Fprintf(&b, ": %s", v.Message)
	if len(v.Related) > 0 {
		fmt.Fprintf(&b, " [also: %s]", strings.Join(v.Related, ", "))
	}
	return b.String()
}

// Report is the outcome of one validation run. Validation is read-only
// over its inputs and collects every violation instead of stopping at
// the first.
type Report struct {
	Violations []Violation

	// Counts of what was examined, for operator output.
	MarkdownFiles int
	ErrorFiles    int
	ErrorEntries  int
	KnownIDs      int
}

// Passed reports whether the corpus satisfied the structural contract.
func (r *Report) Passed() bool {
	return len(r.Violations) == 0
}

func (r *Report) add(v Violation) {
	r.Violations = append(r.Violations, v)
}

// ByKind returns the violations of a single kind, preserving order.
func (r *Report) ByKind(kind ViolationKind) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

// Finding is one advisory result from a quality audit. Findings never
// block a release.
type Finding struct {
	Check   string
	File    string
	Message string
	// Blocking marks findings the audit considers must-fix even
	// though the audit command itself always exits zero.
	Blocking bool
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s", f.Check, f.File, f.Message)
}

// AuditReport is the outcome of one quality audit run.
type AuditReport struct {
	Findings []Finding

	MarkdownFiles int
	ErrorEntries  int
	// Coverage counts error entries per language directory.
	Coverage map[string]int
}

// Clean reports whether the audit produced no findings at all.
func (a *AuditReport) Clean() bool {
	return len(a.Findings) == 0
}

// Blocking returns only the must-fix findings.
func (a *AuditReport) Blocking() []Finding {
	var out []Finding
	for _, f := range a.Findings {
		if f.Blocking {
			out = append(out, f)
		}
	}
	return out
}
