package platform

import (
	"log/slog"

	"github.com/agentchanti/kbregistry/pkg/core"
)

// options holds the internal configuration for the registry service.
type options struct {
	registry core.Registry
	logger   *slog.Logger
	config   map[string]interface{}
}

// Option defines a functional option for configuring the service.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		registry: nil,
		logger:   nil,
		config:   make(map[string]interface{}),
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry allows injecting a custom registry adapter (e.g. mock).
// If provided, the default filesystem adapter is skipped.
func WithRegistry(reg core.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithMustExist requires the corpus root to already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithOutputDir overrides the release archive output directory.
func WithOutputDir(dir string) Option {
	return func(o *options) {
		o.config["output_dir"] = dir
	}
}

// WithManifest overrides the manifest filename.
func WithManifest(name string) Option {
	return func(o *options) {
		o.config["manifest"] = name
	}
}

// WithWatcherErrorHandler registers a callback for errors occurring
// during the watch loop (e.g. permission denied), which are otherwise
// only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
