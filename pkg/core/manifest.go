package core

import "time"

// Manifest is the corpus-wide singleton recording the current release
// version and per-category counts. It is mutated exactly once per
// release, by the version bump, immediately before packaging.
type Manifest struct {
	Name       string                   `json:"name,omitempty"`
	Version    string                   `json:"version"`
	UpdatedAt  string                   `json:"updated_at,omitempty"`
	Categories map[string]CategoryStats `json:"categories"`
}

// CategoryStats holds the counts recorded per category.
type CategoryStats struct {
	TotalFiles   int `json:"total_files"`
	TotalEntries int `json:"total_entries"`
}

// Touch refreshes the UpdatedAt stamp (UTC, RFC 3339).
func (m *Manifest) Touch(now time.Time) {
	m.UpdatedAt = now.UTC().Format(time.RFC3339)
}
