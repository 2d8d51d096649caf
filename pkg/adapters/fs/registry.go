package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/agentchanti/kbregistry/pkg/core"
)

// DefaultManifestName is the manifest filename at the corpus root.
const DefaultManifestName = "manifest.json"

// DefaultMarkdownDirs maps the stock content directories to their
// categories.
func DefaultMarkdownDirs() map[string]core.Category {
	return map[string]core.Category{
		"patterns":   core.CategoryPattern,
		"adrs":       core.CategoryADR,
		"docs":       core.CategoryDoc,
		"behavioral": core.CategoryBehavioral,
	}
}

// Config holds the configuration for the filesystem registry.
type Config struct {
	Root string
	// MarkdownDirs maps content directory names to categories.
	// Nil selects DefaultMarkdownDirs.
	MarkdownDirs map[string]core.Category
	// ErrorsDir is the YAML error dictionary tree. Defaults to "errors".
	ErrorsDir string
	// ManifestName defaults to manifest.json.
	ManifestName string
	// MustExist requires the corpus root to already exist.
	MustExist bool
	Logger    *slog.Logger
	// ErrorHandler receives runtime watcher failures.
	ErrorHandler func(error)
}

// Registry implements core.Registry over a corpus directory tree.
type Registry struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
}

// NewRegistry creates a filesystem-backed registry.
func NewRegistry(config Config) *Registry {
	if config.MarkdownDirs == nil {
		config.MarkdownDirs = DefaultMarkdownDirs()
	}
	if config.ErrorsDir == "" {
		config.ErrorsDir = "errors"
	}
	if config.ManifestName == "" {
		config.ManifestName = DefaultManifestName
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Registry{
		Path:   config.Root,
		config: config,
	}
}

// Root returns the corpus root directory.
func (r *Registry) Root() string { return r.Path }

// ManifestName returns the manifest filename at the corpus root.
func (r *Registry) ManifestName() string { return r.config.ManifestName }

// Initialize ensures the corpus root is usable.
func (r *Registry) Initialize(ctx context.Context) error {
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("corpus path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("corpus path is not a directory: %s", r.Path)
		}
		return nil
	}
	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create corpus directory: %w", err)
	}
	return nil
}

// Scan walks every content file once and returns a corpus snapshot.
// File order is sorted so repeated scans are deterministic.
func (r *Registry) Scan(ctx context.Context) (*core.Corpus, error) {
	corpus := &core.Corpus{}

	mdDirs := make([]string, 0, len(r.config.MarkdownDirs))
	for dir := range r.config.MarkdownDirs {
		mdDirs = append(mdDirs, dir)
	}
	sort.Strings(mdDirs)

	for _, dir := range mdDirs {
		category := r.config.MarkdownDirs[dir]
		matches, err := doublestar.FilepathGlob(filepath.Join(r.Path, dir, "**", "*.md"))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", dir, err)
		}
		sort.Strings(matches)

		for _, path := range matches {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			rel := r.relPath(path)
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", rel, err)
			}
			meta, body, perr := ParseMarkdown(f)
			f.Close()
			if perr != nil {
				corpus.Failures = append(corpus.Failures, core.ParseFailure{
					Path:   rel,
					Reason: perr.Error(),
				})
				continue
			}
			corpus.Documents = append(corpus.Documents, core.Document{
				Path:     rel,
				Category: category,
				Meta:     meta,
				Body:     body,
			})
		}
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(r.Path, r.config.ErrorsDir, "**", "*.{yml,yaml}"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", r.config.ErrorsDir, err)
	}
	sort.Strings(matches)

	for _, path := range matches {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		rel := r.relPath(path)
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", rel, err)
		}
		records, perr := ParseErrorFile(f)
		f.Close()
		if perr != nil {
			corpus.Failures = append(corpus.Failures, core.ParseFailure{
				Path:   rel,
				Reason: perr.Error(),
			})
			continue
		}
		corpus.ErrorFiles = append(corpus.ErrorFiles, core.ErrorFile{
			Path:     rel,
			Language: r.errorLanguage(rel),
			Records:  records,
		})
	}

	r.config.Logger.Debug("corpus scanned",
		"documents", len(corpus.Documents),
		"error_files", len(corpus.ErrorFiles),
		"failures", len(corpus.Failures),
	)
	return corpus, nil
}

// Manifest reads the corpus manifest.
func (r *Registry) Manifest(ctx context.Context) (core.Manifest, error) {
	var m core.Manifest
	data, err := os.ReadFile(r.manifestPath())
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

// SaveManifest rewrites the manifest atomically (temp file + rename).
func (r *Registry) SaveManifest(ctx context.Context, m core.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	return writeFileAtomic(r.manifestPath(), data, 0644)
}

// ContentFiles lists every file a release archive must contain:
// all content trees plus the manifest, relative to the root.
func (r *Registry) ContentFiles(ctx context.Context) ([]string, error) {
	var files []string

	dirs := make([]string, 0, len(r.config.MarkdownDirs)+1)
	for dir := range r.config.MarkdownDirs {
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, r.config.ErrorsDir)
	sort.Strings(dirs)

	for _, dir := range dirs {
		matches, err := doublestar.FilepathGlob(filepath.Join(r.Path, dir, "**", "*.{md,yml,yaml}"))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", dir, err)
		}
		for _, m := range matches {
			files = append(files, r.relPath(m))
		}
	}

	if _, err := os.Stat(r.manifestPath()); err == nil {
		files = append(files, r.config.ManifestName)
	}

	sort.Strings(files)
	return files, nil
}

func (r *Registry) manifestPath() string {
	return filepath.Join(r.Path, r.config.ManifestName)
}

func (r *Registry) relPath(path string) string {
	rel, err := filepath.Rel(r.Path, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// errorLanguage derives the language tag from the first path segment
// under the errors directory, e.g. errors/go/runtime.yml -> "go".
func (r *Registry) errorLanguage(rel string) string {
	rest := strings.TrimPrefix(rel, r.config.ErrorsDir+"/")
	if rest == rel {
		return "unknown"
	}
	if i := strings.IndexByte(rest, '/'); i > 0 {
		return rest[:i]
	}
	return "unknown"
}

var _ core.Registry = (*Registry)(nil)
