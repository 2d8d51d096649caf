package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agentchanti/kbregistry/pkg/semver"
)

// Artifact describes a built release archive.
type Artifact struct {
	Path string
	Size int64
}

// Packager builds the distributable archive for a corpus version.
type Packager interface {
	// Package writes the release archive for version and returns its
	// location and size. No partial archive may be left on failure.
	Package(ctx context.Context, version string) (Artifact, error)
}

// Service orchestrates the release pipeline over a registry. Every
// operation is a single synchronous pass; there is no retry logic
// anywhere because a failure reflects a content defect, not a
// transient condition.
type Service struct {
	mu       sync.RWMutex
	reg      Registry
	packager Packager
	rules    AuditRules
	logger   *slog.Logger
	now      func() time.Time
}

// ServiceConfig wires the service collaborators.
type ServiceConfig struct {
	Packager Packager
	Rules    AuditRules
	Logger   *slog.Logger
}

// NewService creates a pipeline service over reg.
func NewService(reg Registry, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		reg:      reg,
		packager: cfg.Packager,
		rules:    cfg.Rules,
		logger:   logger,
		now:      time.Now,
	}
}

// Registry exposes the underlying registry (read-only use).
func (s *Service) Registry() Registry { return s.reg }

// Snapshot scans the corpus once.
func (s *Service) Snapshot(ctx context.Context) (*Corpus, error) {
	return s.reg.Scan(ctx)
}

// Validate scans the corpus and checks it against the structural
// contract. The returned report carries every violation found; the
// error is non-nil only for I/O failures.
func (s *Service) Validate(ctx context.Context) (*Report, error) {
	corpus, err := s.reg.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}

	report := Validate(corpus)
	s.logger.Debug("validation finished",
		"md_files", report.MarkdownFiles,
		"error_files", report.ErrorFiles,
		"violations", len(report.Violations),
	)
	return report, nil
}

// Audit runs the advisory quality checks.
func (s *Service) Audit(ctx context.Context) (*AuditReport, error) {
	corpus, err := s.reg.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}
	return Audit(corpus, s.rules), nil
}

// Bump computes the next version from the manifest and the bump kind,
// recounts per-category stats from the actual file tree, and rewrites
// the manifest. It returns the old and new versions.
func (s *Service) Bump(ctx context.Context, kind semver.Kind) (old, next semver.Version, err error) {
	manifest, err := s.reg.Manifest(ctx)
	if err != nil {
		return old, next, fmt.Errorf("read manifest: %w", err)
	}

	old, err = semver.Parse(manifest.Version)
	if err != nil {
		return old, next, fmt.Errorf("%w: %q", ErrBadManifestVersion, manifest.Version)
	}

	next = semver.Bump(old, kind)

	corpus, err := s.reg.Scan(ctx)
	if err != nil {
		return old, next, fmt.Errorf("scan corpus: %w", err)
	}

	manifest.Version = next.String()
	manifest.Categories = CountCategories(corpus)
	manifest.Touch(s.now())

	if err := s.reg.SaveManifest(ctx, manifest); err != nil {
		return old, next, fmt.Errorf("write manifest: %w", err)
	}

	s.logger.Info("version bumped", "from", old.String(), "to", next.String(), "kind", string(kind))
	return old, next, nil
}

// Package builds the release archive for the current manifest version.
func (s *Service) Package(ctx context.Context) (Artifact, error) {
	if s.packager == nil {
		return Artifact{}, errors.New("registry does not support packaging")
	}
	manifest, err := s.reg.Manifest(ctx)
	if err != nil {
		return Artifact{}, fmt.Errorf("read manifest: %w", err)
	}
	if _, err := semver.Parse(manifest.Version); err != nil {
		return Artifact{}, fmt.Errorf("%w: %q", ErrBadManifestVersion, manifest.Version)
	}
	return s.packager.Package(ctx, manifest.Version)
}

// ReleaseResult summarizes a completed release cycle.
type ReleaseResult struct {
	Old      semver.Version
	Version  semver.Version
	Artifact Artifact
}

// Release runs the full pipeline in the fixed order
// Validate -> Bump -> Package. A failing validation halts before any
// mutation; the returned report carries the violations.
func (s *Service) Release(ctx context.Context, kind semver.Kind) (*Report, *ReleaseResult, error) {
	report, err := s.Validate(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !report.Passed() {
		return report, nil, fmt.Errorf("%w: %d violation(s)", ErrValidationFailed, len(report.Violations))
	}

	old, next, err := s.Bump(ctx, kind)
	if err != nil {
		return report, nil, err
	}

	artifact, err := s.Package(ctx)
	if err != nil {
		return report, nil, err
	}

	return report, &ReleaseResult{Old: old, Version: next, Artifact: artifact}, nil
}

// Watch observes content changes if the registry supports it.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.reg.(Watchable)
	if !ok {
		return nil, errors.New("registry does not support watching")
	}
	return w.Watch(ctx, pattern)
}

// CountCategories derives the manifest category stats from a corpus
// snapshot. Markdown categories record file counts; the error category
// records both files and entries.
func CountCategories(c *Corpus) map[string]CategoryStats {
	stats := map[string]CategoryStats{
		"patterns":   {},
		"adrs":       {},
		"docs":       {},
		"behavioral": {},
		"errors":     {},
	}

	keys := map[Category]string{
		CategoryPattern:    "patterns",
		CategoryADR:        "adrs",
		CategoryDoc:        "docs",
		CategoryBehavioral: "behavioral",
	}

	for _, d := range c.Documents {
		if key, ok := keys[d.Category]; ok {
			cur := stats[key]
			cur.TotalFiles++
			stats[key] = cur
		}
	}

	errStats := stats["errors"]
	errStats.TotalFiles = len(c.ErrorFiles)
	errStats.TotalEntries = c.TotalEntries()
	stats["errors"] = errStats

	return stats
}
