package kbregistry

import (
	"log/slog"

	"github.com/agentchanti/kbregistry/internal/platform"
	"github.com/agentchanti/kbregistry/pkg/core"
)

// Version exposes the version of the library.
const Version = "1.0.0"

// --- Configuration ---

// Option defines a functional option for configuring the service.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRegistry allows injecting a custom registry adapter.
func WithRegistry(reg core.Registry) Option {
	return platform.WithRegistry(reg)
}

// WithMustExist requires the corpus root to already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithOutputDir overrides the release archive output directory.
func WithOutputDir(dir string) Option {
	return platform.WithOutputDir(dir)
}

// WithManifest overrides the manifest filename.
func WithManifest(name string) Option {
	return platform.WithManifest(name)
}

// WithWatcherErrorHandler registers a callback for watch loop errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a pipeline service for the corpus rooted at root.
func New(root string, opts ...Option) (*core.Service, error) {
	return platform.New(root, opts...)
}
