package fs

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantBody string
		wantKey  string
		wantVal  string
		wantErr  bool
	}{
		{
			name: "Basic Frontmatter",
			input: `---
title: Retry With Backoff
---
## Context`,
			wantBody: "## Context",
			wantKey:  "title",
			wantVal:  "Retry With Backoff",
			wantErr:  false,
		},
		{
			name:    "No Frontmatter",
			input:   `# Just Markdown`,
			wantErr: true,
		},
		{
			name:    "Empty File",
			input:   ``,
			wantErr: true,
		},
		{
			name: "Invalid YAML",
			input: `---
key: : value
---
Content`,
			wantErr: true,
		},
		{
			name: "Unclosed Frontmatter",
			input: `---
title: Unclosed
Content`,
			wantErr: true,
		},
		{
			name: "Multiline Body",
			input: `---
id: doc-test
---
Line 1
Line 2`,
			wantBody: "Line 1\nLine 2",
			wantKey:  "id",
			wantVal:  "doc-test",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body, err := ParseMarkdown(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseMarkdown() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}
			if body != tt.wantBody {
				t.Errorf("Body = %q, want %q", body, tt.wantBody)
			}
			if tt.wantKey != "" {
				if got := meta[tt.wantKey]; got != tt.wantVal {
					t.Errorf("Meta[%q] = %v, want %q", tt.wantKey, got, tt.wantVal)
				}
			}
		})
	}
}

// Parsing the same bytes twice must yield identical structures.
func TestParseMarkdownDeterministic(t *testing.T) {
	input := `---
id: pattern-retry
title: Retry With Backoff
tags: [resilience, http]
---
## Context

Body text.
`
	meta1, body1, err := ParseMarkdown(strings.NewReader(input))
	if err != nil {
		t.Fatalf("first parse failed: %v", err)
	}
	meta2, body2, err := ParseMarkdown(strings.NewReader(input))
	if err != nil {
		t.Fatalf("second parse failed: %v", err)
	}

	if body1 != body2 {
		t.Errorf("bodies differ: %q vs %q", body1, body2)
	}
	if !reflect.DeepEqual(meta1, meta2) {
		t.Errorf("metadata differs: %v vs %v", meta1, meta2)
	}
}

func TestSerializeMarkdownRoundTrip(t *testing.T) {
	meta, body, err := ParseMarkdown(strings.NewReader(`---
id: doc-roundtrip
title: Round Trip
---
## Section

Text.
`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	data, err := SerializeMarkdown(meta, body)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}

	meta2, body2, err := ParseMarkdown(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if body2 != body {
		t.Errorf("body mismatch: %q vs %q", body2, body)
	}
	if !reflect.DeepEqual(meta2, meta) {
		t.Errorf("metadata mismatch: %v vs %v", meta2, meta)
	}
}

func TestParseErrorFile(t *testing.T) {
	t.Run("Valid List", func(t *testing.T) {
		input := `
- id: go-nil-deref
  error_type: NilPointerDereference
  severity: critical
  pattern: 'runtime error: invalid memory address'
  cause: A nil pointer was dereferenced.
  fix_template: Check the pointer before use.
  tags: [runtime]
  related_errors: [go-index-range]
- id: go-index-range
  error_type: IndexOutOfRange
  severity: warning
  pattern: 'index out of range'
  cause: Slice index exceeded its length.
  fix_template: Bound the index by len().
  tags: [runtime]
`
		records, err := ParseErrorFile(strings.NewReader(input))
		if err != nil {
			t.Fatalf("ParseErrorFile failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0].ID != "go-nil-deref" {
			t.Errorf("ID = %q", records[0].ID)
		}
		if records[0].Severity != "critical" {
			t.Errorf("Severity = %q", records[0].Severity)
		}
		if got := records[0].RelatedErrors; len(got) != 1 || got[0] != "go-index-range" {
			t.Errorf("RelatedErrors = %v", got)
		}
		// Raw mapping is preserved for required-field checks.
		if _, ok := records[0].Raw["fix_template"]; !ok {
			t.Error("Raw mapping missing fix_template key")
		}
		if _, ok := records[1].Raw["related_errors"]; ok {
			t.Error("Raw mapping invented a related_errors key")
		}
	})

	t.Run("Not A List", func(t *testing.T) {
		if _, err := ParseErrorFile(strings.NewReader("id: not-a-list")); err == nil {
			t.Error("expected error for mapping input")
		}
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		if _, err := ParseErrorFile(strings.NewReader("- id: [unclosed")); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})

	t.Run("Empty File", func(t *testing.T) {
		if _, err := ParseErrorFile(strings.NewReader("")); err == nil {
			t.Error("expected error for empty input")
		}
	})
}
