package platform

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/agentchanti/kbregistry/internal/config"
	"github.com/agentchanti/kbregistry/pkg/adapters/fs"
	"github.com/agentchanti/kbregistry/pkg/core"
	"github.com/agentchanti/kbregistry/pkg/release"
)

// New wires a pipeline service for the corpus rooted at root: settings
// file, filesystem registry, packager, and domain service.
func New(root string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	reg := o.registry
	var contentSrc release.Source

	if reg == nil {
		dirs, err := cfg.CategoryDirs()
		if err != nil {
			return nil, err
		}

		mustExist, _ := o.config["must_exist"].(bool)
		manifest := cfg.Manifest
		if v, ok := o.config["manifest"].(string); ok && v != "" {
			manifest = v
		}
		errorHandler, _ := o.config["watcher_error_handler"].(func(error))

		fsReg := fs.NewRegistry(fs.Config{
			Root:         root,
			MarkdownDirs: dirs,
			ErrorsDir:    cfg.ErrorsDir,
			ManifestName: manifest,
			MustExist:    mustExist,
			Logger:       logger,
			ErrorHandler: errorHandler,
		})
		if err := fsReg.Initialize(context.Background()); err != nil {
			return nil, err
		}
		reg = fsReg
		contentSrc = fsReg
	} else if src, ok := reg.(release.Source); ok {
		contentSrc = src
	}

	var packager core.Packager
	if contentSrc != nil {
		outputDir := cfg.OutputDir
		if v, ok := o.config["output_dir"].(string); ok && v != "" {
			outputDir = v
		}
		if outputDir != "" && !filepath.IsAbs(outputDir) {
			outputDir = filepath.Join(root, outputDir)
		}
		packager = release.NewPackager(contentSrc, outputDir, logger)
	}

	return core.NewService(reg, core.ServiceConfig{
		Packager: packager,
		Rules:    cfg.AuditRules(),
		Logger:   logger,
	}), nil
}
