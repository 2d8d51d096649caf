package kbregistry_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentchanti/kbregistry"
	"github.com/agentchanti/kbregistry/pkg/core"
	"github.com/agentchanti/kbregistry/pkg/semver"
)

func writeDoc(t *testing.T, root, rel, id, category string) {
	t.Helper()
	content := fmt.Sprintf(`---
id: %s
title: Test Document
category: %s
language: go
version: 1.0.0
created_at: 2025-01-15
---
## Context

Some prose.
`, id, category)
	writeCorpusFile(t, root, rel, content)
}

func writeErrors(t *testing.T, root, rel string, ids ...string) {
	t.Helper()
	content := ""
	for _, id := range ids {
		content += fmt.Sprintf(`- id: %s
  error_type: TestError
  severity: warning
  pattern: 'oops'
  cause: Something went wrong.
  fix_template: Fix it.
  tags: [test]
`, id)
	}
	writeCorpusFile(t, root, rel, content)
}

func writeCorpusFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writeManifest(t *testing.T, root, version string) {
	t.Helper()
	m := core.Manifest{Name: "kb-registry", Version: version}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "manifest.json"), data, 0644))
}

func newCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeDoc(t, root, "patterns/retry.md", "pattern-retry", "pattern")
	writeDoc(t, root, "adrs/0001-storage.md", "adr-storage", "adr")
	writeErrors(t, root, "errors/go/runtime.yml", "go-nil-deref", "go-index-range")
	writeManifest(t, root, "1.0.0")
	return root
}

func TestPipelineCleanRelease(t *testing.T) {
	root := newCorpus(t)
	dist := t.TempDir()

	svc, err := kbregistry.New(root, kbregistry.WithOutputDir(dist))
	require.NoError(t, err)

	report, result, err := svc.Release(context.Background(), semver.KindMinor)
	require.NoError(t, err)
	assert.True(t, report.Passed())
	require.NotNil(t, result)
	assert.Equal(t, "1.0.0", result.Old.String())
	assert.Equal(t, "1.1.0", result.Version.String())

	// The archive carries the bumped version in its name and exists.
	assert.Equal(t, filepath.Join(dist, "kb-registry-v1.1.0.zip"), result.Artifact.Path)
	_, err = os.Stat(result.Artifact.Path)
	require.NoError(t, err)

	// Manifest was rewritten with the new version and fresh counts.
	manifest, err := svc.Registry().Manifest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", manifest.Version)
	assert.NotEmpty(t, manifest.UpdatedAt)
	assert.Equal(t, 1, manifest.Categories["patterns"].TotalFiles)
	assert.Equal(t, 1, manifest.Categories["adrs"].TotalFiles)
	assert.Equal(t, 1, manifest.Categories["errors"].TotalFiles)
	assert.Equal(t, 2, manifest.Categories["errors"].TotalEntries)
}

func TestPipelineCustomManifestName(t *testing.T) {
	root := t.TempDir()
	dist := t.TempDir()
	writeDoc(t, root, "patterns/retry.md", "pattern-retry", "pattern")
	m := core.Manifest{Name: "kb-registry", Version: "1.0.0"}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "kb.json"), data, 0644))

	svc, err := kbregistry.New(root,
		kbregistry.WithManifest("kb.json"),
		kbregistry.WithOutputDir(dist),
	)
	require.NoError(t, err)

	artifact, err := svc.Package(context.Background())
	require.NoError(t, err, "packaging must verify against the configured manifest name")
	assert.Equal(t, filepath.Join(dist, "kb-registry-v1.0.0.zip"), artifact.Path)
}

func TestPipelineDuplicateIDAcrossFiles(t *testing.T) {
	root := newCorpus(t)
	// Same id in a second markdown file and an error dictionary.
	writeDoc(t, root, "docs/shadow.md", "go-nil-deref", "doc")

	svc, err := kbregistry.New(root)
	require.NoError(t, err)

	report, err := svc.Validate(context.Background())
	require.NoError(t, err)

	dups := report.ByKind(core.KindDuplicateID)
	require.Len(t, dups, 1, "one duplicated id must produce exactly one violation")
	assert.Equal(t, "go-nil-deref", dups[0].Value)

	locations := append([]string{dups[0].File}, dups[0].Related...)
	assert.Contains(t, locations, "docs/shadow.md (frontmatter)")
	assert.Contains(t, locations, "errors/go/runtime.yml")
}

func TestPipelineDanglingReference(t *testing.T) {
	root := newCorpus(t)
	writeCorpusFile(t, root, "errors/python/imports.yml", `- id: py-import-error
  error_type: ImportError
  severity: warning
  pattern: 'No module named'
  cause: The module is not installed.
  fix_template: Install the module.
  tags: [imports]
  related_errors: [does-not-exist]
`)

	svc, err := kbregistry.New(root)
	require.NoError(t, err)

	report, err := svc.Validate(context.Background())
	require.NoError(t, err)

	dangling := report.ByKind(core.KindDanglingReference)
	require.Len(t, dangling, 1)
	assert.Equal(t, "errors/python/imports.yml", dangling[0].File)
	assert.Equal(t, "does-not-exist", dangling[0].Value)
}

func TestPipelineReleaseHaltsOnViolations(t *testing.T) {
	root := newCorpus(t)
	writeCorpusFile(t, root, "patterns/broken.md", "no frontmatter here")
	dist := t.TempDir()

	svc, err := kbregistry.New(root, kbregistry.WithOutputDir(dist))
	require.NoError(t, err)

	report, result, err := svc.Release(context.Background(), semver.KindPatch)
	require.ErrorIs(t, err, core.ErrValidationFailed)
	require.NotNil(t, report)
	assert.False(t, report.Passed())
	assert.Nil(t, result)

	// Nothing was mutated and nothing was packaged.
	manifest, err := svc.Registry().Manifest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", manifest.Version)
	entries, err := os.ReadDir(dist)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPipelineAudit(t *testing.T) {
	root := newCorpus(t)
	// A document without a section heading draws a blocking finding.
	writeCorpusFile(t, root, "docs/flat.md", `---
id: doc-flat
title: Flat
category: doc
language: all
version: 1.0.0
created_at: 2025-01-15
---
Prose with no headings at all.
`)

	svc, err := kbregistry.New(root)
	require.NoError(t, err)

	audit, err := svc.Audit(context.Background())
	require.NoError(t, err)
	assert.False(t, audit.Clean())

	var hit bool
	for _, f := range audit.Blocking() {
		if f.File == "docs/flat.md" {
			hit = true
		}
	}
	assert.True(t, hit, "expected a blocking finding for docs/flat.md")
	assert.Equal(t, 2, audit.Coverage["go"])
}

func TestPipelineRevalidateAfterChange(t *testing.T) {
	root := newCorpus(t)
	svc, err := kbregistry.New(root)
	require.NoError(t, err)

	report, err := svc.Validate(context.Background())
	require.NoError(t, err)
	require.True(t, report.Passed())

	// One long-lived service observes edits made after construction:
	// every run scans the tree fresh.
	writeCorpusFile(t, root, "patterns/broken.md", "no frontmatter here")

	report, err = svc.Validate(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Passed())
	assert.Len(t, report.ByKind(core.KindMalformedFile), 1)
}

func TestPipelineMustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent")
	_, err := kbregistry.New(missing, kbregistry.WithMustExist(true))
	assert.Error(t, err)
}
