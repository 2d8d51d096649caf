package core

import (
	"fmt"
	"regexp"
	"strings"
)

// AuditRules tunes the advisory quality checks. Zero values fall back
// to the defaults.
type AuditRules struct {
	// MaxWords caps the prose length of a Markdown body.
	MaxWords int
	// MinErrorsPerLanguage is the recommended error-dictionary
	// coverage for each expected language.
	MinErrorsPerLanguage int
	// ExpectedLanguages lists the language directories coverage is
	// measured against. The wildcard "all" is not expected here.
	ExpectedLanguages []string
}

// DefaultAuditRules returns the registry's stock quality thresholds.
func DefaultAuditRules() AuditRules {
	return AuditRules{
		MaxWords:             5000,
		MinErrorsPerLanguage: 5,
		ExpectedLanguages: []string{
			"python", "javascript", "typescript", "java", "go", "rust", "csharp",
		},
	}
}

func (r AuditRules) withDefaults() AuditRules {
	d := DefaultAuditRules()
	if r.MaxWords <= 0 {
		r.MaxWords = d.MaxWords
	}
	if r.MinErrorsPerLanguage <= 0 {
		r.MinErrorsPerLanguage = d.MinErrorsPerLanguage
	}
	if len(r.ExpectedLanguages) == 0 {
		r.ExpectedLanguages = d.ExpectedLanguages
	}
	return r
}

var (
	codeFenceRe = regexp.MustCompile("(?s)```.*?```")
	htmlTagRe   = regexp.MustCompile(`<[^>]+>`)
	h2Re        = regexp.MustCompile(`(?m)^## .+`)
)

// Audit runs the advisory quality checks over the corpus. Findings are
// informational: the audit never blocks a release, though Blocking()
// findings are expected to be fixed before the next one.
func Audit(c *Corpus, rules AuditRules) *AuditReport {
	rules = rules.withDefaults()

	report := &AuditReport{
		MarkdownFiles: len(c.Documents),
		ErrorEntries:  c.TotalEntries(),
		Coverage:      map[string]int{},
	}

	for _, f := range c.Failures {
		report.Findings = append(report.Findings, Finding{
			Check:    "valid-yaml",
			File:     f.Path,
			Message:  f.Reason,
			Blocking: true,
		})
	}

	for _, d := range c.Documents {
		if words := countWords(d.Body); words > rules.MaxWords {
			report.Findings = append(report.Findings, Finding{
				Check:   "word-count",
				File:    d.Path,
				Message: fmt.Sprintf("%d words (exceeds %d limit)", words, rules.MaxWords),
			})
		}
		if !h2Re.MatchString(d.Body) {
			report.Findings = append(report.Findings, Finding{
				Check:    "headings",
				File:     d.Path,
				Message:  "no ## heading section found",
				Blocking: true,
			})
		}
	}

	for _, f := range c.ErrorFiles {
		report.Coverage[f.Language] += len(f.Records)
		for _, rec := range f.Records {
			if strings.TrimSpace(rec.FixTemplate) == "" {
				report.Findings = append(report.Findings, Finding{
					Check:    "fix-template",
					File:     f.Path,
					Message:  fmt.Sprintf("entry %s has an empty fix_template", orUnknown(rec.ID)),
					Blocking: true,
				})
			}
			if rec.Pattern != "" {
				if _, err := regexp.Compile(rec.Pattern); err != nil {
					report.Findings = append(report.Findings, Finding{
						Check:    "pattern",
						File:     f.Path,
						Message:  fmt.Sprintf("entry %s: pattern does not compile: %v", orUnknown(rec.ID), err),
						Blocking: true,
					})
				}
			}
		}
	}

	for _, lang := range rules.ExpectedLanguages {
		if count := report.Coverage[lang]; count < rules.MinErrorsPerLanguage {
			report.Findings = append(report.Findings, Finding{
				Check:   "coverage",
				File:    "errors/" + lang,
				Message: fmt.Sprintf("only %d error entries (minimum %d recommended)", count, rules.MinErrorsPerLanguage),
			})
		}
	}

	return report
}

// countWords counts prose words, ignoring fenced code blocks and HTML
// tags. The frontmatter is already stripped by the parser.
func countWords(body string) int {
	text := codeFenceRe.ReplaceAllString(body, "")
	text = htmlTagRe.ReplaceAllString(text, "")
	return len(strings.Fields(text))
}
