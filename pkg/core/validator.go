package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentchanti/kbregistry/pkg/semver"
)

// Required frontmatter and entry keys. The schema is closed and
// versioned by the manifest's MAJOR component.
var (
	RequiredDocumentFields = []string{"id", "title", "category", "language", "version", "created_at"}
	RequiredRecordFields   = []string{"id", "error_type", "severity", "pattern", "cause", "fix_template", "tags"}
)

// Validate checks the corpus against the structural contract and
// returns every violation found. It never mutates its input and never
// short-circuits: a single run reports all failures together.
func Validate(c *Corpus) *Report {
	r := &Report{
		MarkdownFiles: len(c.Documents),
		ErrorFiles:    len(c.ErrorFiles),
		ErrorEntries:  c.TotalEntries(),
	}

	for _, f := range c.Failures {
		r.add(Violation{
			Kind:    KindMalformedFile,
			File:    f.Path,
			Message: f.Reason,
		})
	}

	// Documents failing the required-field check are excluded from
	// the value checks below; one root cause, one violation.
	docs := checkDocumentFields(r, c.Documents)
	files := checkRecordFields(r, c.ErrorFiles)

	checkDocumentValues(r, docs)
	checkSeverities(r, files)

	ids := collectIDs(r, docs, files)
	r.KnownIDs = len(ids)
	checkReferences(r, files, ids)

	return r
}

func checkDocumentFields(r *Report, docs []Document) []Document {
	valid := docs[:0:0]
	for _, d := range docs {
		var missing []string
		for _, field := range RequiredDocumentFields {
			if v, ok := d.Meta[field]; !ok || v == nil {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			r.add(Violation{
				Kind:    KindMissingField,
				File:    d.Path,
				Field:   strings.Join(missing, ", "),
				Message: fmt.Sprintf("missing required frontmatter fields: %s", strings.Join(missing, ", ")),
			})
			continue
		}
		valid = append(valid, d)
	}
	return valid
}

func checkRecordFields(r *Report, files []ErrorFile) []ErrorFile {
	valid := files[:0:0]
	for _, f := range files {
		ok := true
		for i, rec := range f.Records {
			var missing []string
			for _, field := range RequiredRecordFields {
				if v, present := rec.Raw[field]; !present || v == nil {
					missing = append(missing, field)
				}
			}
			if len(missing) > 0 {
				ok = false
				r.add(Violation{
					Kind:    KindMissingField,
					File:    f.Path,
					Field:   strings.Join(missing, ", "),
					Value:   rec.ID,
					Message: fmt.Sprintf("entry %d (id=%s): missing required fields: %s", i, orUnknown(rec.ID), strings.Join(missing, ", ")),
				})
			}
		}
		if ok {
			valid = append(valid, f)
		}
	}
	return valid
}

func checkDocumentValues(r *Report, docs []Document) {
	for _, d := range docs {
		if cat := d.MetaString("category"); !ValidCategory(cat) {
			r.add(Violation{
				Kind:    KindInvalidValue,
				File:    d.Path,
				Field:   "category",
				Value:   cat,
				Message: fmt.Sprintf("invalid category %q (must be one of: %s)", cat, joinCategories()),
			})
		}
		if lang := d.MetaString("language"); !ValidLanguage(lang) {
			r.add(Violation{
				Kind:    KindInvalidValue,
				File:    d.Path,
				Field:   "language",
				Value:   lang,
				Message: fmt.Sprintf("invalid language %q (must be one of: %s)", lang, joinLanguages()),
			})
		}
		if ver := d.MetaString("version"); !semver.IsValid(ver) {
			r.add(Violation{
				Kind:    KindBadVersion,
				File:    d.Path,
				Field:   "version",
				Value:   ver,
				Message: fmt.Sprintf("invalid version %q (must be X.Y.Z)", ver),
			})
		}
	}
}

func checkSeverities(r *Report, files []ErrorFile) {
	for _, f := range files {
		for _, rec := range f.Records {
			if !ValidSeverity(rec.Severity) {
				r.add(Violation{
					Kind:    KindInvalidValue,
					File:    f.Path,
					Field:   "severity",
					Value:   rec.Severity,
					Message: fmt.Sprintf("entry %s: invalid severity %q (must be one of: critical, info, warning)", orUnknown(rec.ID), rec.Severity),
				})
			}
		}
	}
}

// collectIDs builds the corpus-wide identifier set and reports exactly
// one duplicate-id violation per duplicated identifier, naming every
// file that declares it.
func collectIDs(r *Report, docs []Document, files []ErrorFile) map[string]bool {
	locations := map[string][]string{}

	for _, d := range docs {
		if id := strings.TrimSpace(d.ID()); id != "" {
			locations[id] = append(locations[id], d.Path+" (frontmatter)")
		}
	}
	for _, f := range files {
		for _, rec := range f.Records {
			if id := strings.TrimSpace(rec.ID); id != "" {
				locations[id] = append(locations[id], f.Path)
			}
		}
	}

	dupes := make([]string, 0)
	for id, locs := range locations {
		if len(locs) > 1 {
			dupes = append(dupes, id)
		}
	}
	sort.Strings(dupes)

	for _, id := range dupes {
		locs := locations[id]
		r.add(Violation{
			Kind:    KindDuplicateID,
			File:    locs[0],
			Field:   "id",
			Value:   id,
			Message: fmt.Sprintf("identifier %q declared in %d places", id, len(locs)),
			Related: locs[1:],
		})
	}

	ids := make(map[string]bool, len(locations))
	for id := range locations {
		ids[id] = true
	}
	return ids
}

func checkReferences(r *Report, files []ErrorFile, ids map[string]bool) {
	for _, f := range files {
		for _, rec := range f.Records {
			for _, ref := range rec.RelatedErrors {
				if !ids[ref] {
					r.add(Violation{
						Kind:    KindDanglingReference,
						File:    f.Path,
						Field:   "related_errors",
						Value:   ref,
						Message: fmt.Sprintf("entry %s references unknown id %q", orUnknown(rec.ID), ref),
					})
				}
			}
		}
	}
}

func orUnknown(id string) string {
	if id == "" {
		return "?"
	}
	return id
}

func joinCategories() string {
	parts := make([]string, len(Categories))
	for i, c := range Categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func joinLanguages() string {
	parts := make([]string, len(Languages))
	for i, l := range Languages {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}
