// Package release builds the distributable corpus archive.
package release

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/agentchanti/kbregistry/pkg/core"
)

// Source lists the content files a release must carry.
type Source interface {
	Root() string
	// ManifestName is the manifest filename within the content set.
	ManifestName() string
	ContentFiles(ctx context.Context) ([]string, error)
}

// Packager builds versioned zip archives of the corpus. The source
// tree is never mutated; the only side effect is the archive file.
type Packager struct {
	src       Source
	outputDir string
	logger    *slog.Logger
}

// NewPackager creates a packager writing archives into outputDir.
// An empty outputDir writes next to the corpus root.
func NewPackager(src Source, outputDir string, logger *slog.Logger) *Packager {
	if outputDir == "" {
		outputDir = src.Root()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Packager{src: src, outputDir: outputDir, logger: logger}
}

// ArchiveName returns the deterministic artifact name for a version.
func ArchiveName(version string) string {
	return fmt.Sprintf("kb-registry-v%s.zip", version)
}

// Package writes the release archive for version. The archive is
// written to a temporary path and renamed on success, so a failure
// never leaves a partial archive behind. The finished archive is
// verified before the rename.
func (p *Packager) Package(ctx context.Context, version string) (core.Artifact, error) {
	files, err := p.src.ContentFiles(ctx)
	if err != nil {
		return core.Artifact{}, fmt.Errorf("collect content files: %w", err)
	}
	if len(files) == 0 {
		return core.Artifact{}, fmt.Errorf("nothing to package under %s", p.src.Root())
	}

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return core.Artifact{}, fmt.Errorf("create output dir: %w", err)
	}

	target := filepath.Join(p.outputDir, ArchiveName(version))

	tmp, err := os.CreateTemp(p.outputDir, "kbreg-tmp-*.zip")
	if err != nil {
		return core.Artifact{}, fmt.Errorf("create temp archive: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if err := p.writeArchive(ctx, tmp, files); err != nil {
		tmp.Close()
		return core.Artifact{}, err
	}
	if err := tmp.Close(); err != nil {
		return core.Artifact{}, fmt.Errorf("close temp archive: %w", err)
	}

	if err := p.Verify(tmpName, version); err != nil {
		return core.Artifact{}, fmt.Errorf("verify archive: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		return core.Artifact{}, fmt.Errorf("finalize archive: %w", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return core.Artifact{}, err
	}

	p.logger.Info("release archive built", "path", target, "files", len(files), "bytes", info.Size())
	return core.Artifact{Path: target, Size: info.Size()}, nil
}

func (p *Packager) writeArchive(ctx context.Context, w io.Writer, files []string) error {
	zw := zip.NewWriter(w)

	for _, rel := range files {
		if ctx.Err() != nil {
			zw.Close()
			return ctx.Err()
		}

		src, err := os.Open(filepath.Join(p.src.Root(), filepath.FromSlash(rel)))
		if err != nil {
			zw.Close()
			return fmt.Errorf("open %s: %w", rel, err)
		}

		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:   rel,
			Method: zip.Deflate,
		})
		if err != nil {
			src.Close()
			zw.Close()
			return fmt.Errorf("add %s: %w", rel, err)
		}
		if _, err := io.Copy(entry, src); err != nil {
			src.Close()
			zw.Close()
			return fmt.Errorf("write %s: %w", rel, err)
		}
		src.Close()
	}

	return zw.Close()
}

// Verify confirms the archive opens, contains a manifest, and that the
// manifest version matches the requested one.
func (p *Packager) Verify(path, version string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	name := p.src.ManifestName()
	var manifest *zip.File
	for _, f := range zr.File {
		if f.Name == name {
			manifest = f
			break
		}
	}
	if manifest == nil {
		return fmt.Errorf("archive is missing %s", name)
	}

	rc, err := manifest.Open()
	if err != nil {
		return fmt.Errorf("open manifest entry: %w", err)
	}
	defer rc.Close()

	var m core.Manifest
	if err := json.NewDecoder(rc).Decode(&m); err != nil {
		return fmt.Errorf("decode manifest entry: %w", err)
	}
	if m.Version != version {
		return fmt.Errorf("manifest version %q does not match archive version %q", m.Version, version)
	}
	return nil
}

var _ core.Packager = (*Packager)(nil)
