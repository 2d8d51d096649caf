package fs

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentchanti/kbregistry/pkg/core"
)

const sampleDoc = `---
id: pattern-retry
title: Retry With Backoff
category: pattern
language: go
version: 1.0.0
created_at: 2025-01-15
tags: [resilience]
---
## Context

Retries smooth over transient failures.
`

const sampleErrors = `- id: go-nil-deref
  error_type: NilPointerDereference
  severity: critical
  pattern: 'invalid memory address'
  cause: A nil pointer was dereferenced.
  fix_template: Check the pointer before use.
  tags: [runtime]
`

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	root := t.TempDir()
	reg := NewRegistry(Config{Root: root})
	require.NoError(t, reg.Initialize(context.Background()))
	return reg, root
}

func TestRegistryScan(t *testing.T) {
	reg, root := newTestRegistry(t)
	writeFile(t, root, "patterns/retry.md", sampleDoc)
	writeFile(t, root, "docs/nested/deep.md", sampleDoc)
	writeFile(t, root, "errors/go/runtime.yml", sampleErrors)
	// Files outside content dirs are not corpus data.
	writeFile(t, root, "README.md", "# readme")

	corpus, err := reg.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, corpus.Documents, 2)
	assert.Equal(t, "docs/nested/deep.md", corpus.Documents[0].Path)
	assert.Equal(t, core.CategoryDoc, corpus.Documents[0].Category)
	assert.Equal(t, "patterns/retry.md", corpus.Documents[1].Path)
	assert.Equal(t, core.CategoryPattern, corpus.Documents[1].Category)
	assert.Equal(t, "pattern-retry", corpus.Documents[1].ID())

	require.Len(t, corpus.ErrorFiles, 1)
	assert.Equal(t, "go", corpus.ErrorFiles[0].Language)
	require.Len(t, corpus.ErrorFiles[0].Records, 1)
	assert.Equal(t, "go-nil-deref", corpus.ErrorFiles[0].Records[0].ID)
	assert.Empty(t, corpus.Failures)
}

func TestRegistryScanDeterministic(t *testing.T) {
	reg, root := newTestRegistry(t)
	writeFile(t, root, "patterns/a.md", sampleDoc)
	writeFile(t, root, "patterns/b.md", sampleDoc)
	writeFile(t, root, "errors/go/runtime.yml", sampleErrors)

	first, err := reg.Scan(context.Background())
	require.NoError(t, err)
	second, err := reg.Scan(context.Background())
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(first, second), "two scans of the same tree must match")
}

func TestRegistryScanCollectsFailures(t *testing.T) {
	reg, root := newTestRegistry(t)
	writeFile(t, root, "patterns/ok.md", sampleDoc)
	writeFile(t, root, "patterns/broken.md", "no frontmatter at all")
	writeFile(t, root, "errors/go/bad.yml", "not: a\nlist")

	corpus, err := reg.Scan(context.Background())
	require.NoError(t, err, "parse failures must not abort the scan")

	assert.Len(t, corpus.Documents, 1)
	require.Len(t, corpus.Failures, 2)
	paths := []string{corpus.Failures[0].Path, corpus.Failures[1].Path}
	assert.Contains(t, paths, "patterns/broken.md")
	assert.Contains(t, paths, "errors/go/bad.yml")
}

func TestRegistryManifestRoundTrip(t *testing.T) {
	reg, _ := newTestRegistry(t)

	manifest := core.Manifest{
		Name:    "kb-registry",
		Version: "1.2.3",
		Categories: map[string]core.CategoryStats{
			"patterns": {TotalFiles: 4},
			"errors":   {TotalFiles: 2, TotalEntries: 37},
		},
	}
	require.NoError(t, reg.SaveManifest(context.Background(), manifest))

	got, err := reg.Manifest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, manifest, got)
}

func TestRegistryManifestMissing(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Manifest(context.Background())
	assert.Error(t, err)
}

func TestRegistryMustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	reg := NewRegistry(Config{Root: missing, MustExist: true})
	assert.Error(t, reg.Initialize(context.Background()))
}

func TestRegistryContentFiles(t *testing.T) {
	reg, root := newTestRegistry(t)
	writeFile(t, root, "patterns/retry.md", sampleDoc)
	writeFile(t, root, "errors/go/runtime.yml", sampleErrors)
	require.NoError(t, reg.SaveManifest(context.Background(), core.Manifest{Version: "1.0.0"}))
	// CI files are not content.
	writeFile(t, root, ".github/workflows/ci.yml", "jobs: {}")
	writeFile(t, root, ".kbreg.yaml", "output_dir: dist")

	files, err := reg.ContentFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"errors/go/runtime.yml",
		"manifest.json",
		"patterns/retry.md",
	}, files)
}

func TestRegistryErrorLanguage(t *testing.T) {
	reg := NewRegistry(Config{Root: "/corpus"})

	tests := []struct {
		rel  string
		want string
	}{
		{"errors/go/runtime.yml", "go"},
		{"errors/python/frameworks/django.yml", "python"},
		{"errors/orphan.yml", "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reg.errorLanguage(tt.rel), tt.rel)
	}
}
