package fs

import (
	"sort"

	"github.com/aretw0/introspection"
)

// RegistryState exposes internal state for observability.
type RegistryState struct {
	Path          string   `json:"path"`
	MarkdownDirs  []string `json:"markdown_dirs"`
	ErrorsDir     string   `json:"errors_dir"`
	Manifest      string   `json:"manifest"`
	WatcherActive bool     `json:"watcher_active"`
}

// State implements introspection.Introspectable.
func (r *Registry) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dirs := make([]string, 0, len(r.config.MarkdownDirs))
	for dir := range r.config.MarkdownDirs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	return RegistryState{
		Path:          r.Path,
		MarkdownDirs:  dirs,
		ErrorsDir:     r.config.ErrorsDir,
		Manifest:      r.config.ManifestName,
		WatcherActive: r.watcherActive,
	}
}

// ComponentType implements introspection.Component.
func (r *Registry) ComponentType() string {
	return "fs-registry"
}

var _ introspection.Introspectable = (*Registry)(nil)
var _ introspection.Component = (*Registry)(nil)

func (r *Registry) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
