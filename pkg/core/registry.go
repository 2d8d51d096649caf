package core

import "context"

// Registry defines the contract for reading the corpus and its
// manifest. Adhering to this interface keeps the core independent of
// the underlying storage (filesystem today, anything else tomorrow).
type Registry interface {
	// Scan walks every content file and returns a corpus snapshot.
	// Unparsable files land in Corpus.Failures; Scan itself only
	// fails on I/O errors.
	Scan(ctx context.Context) (*Corpus, error)

	// Manifest reads the corpus manifest.
	Manifest(ctx context.Context) (Manifest, error)

	// SaveManifest rewrites the manifest atomically.
	SaveManifest(ctx context.Context, m Manifest) error

	// Root returns the corpus root directory.
	Root() string
}

// Watchable defines registries that can report content changes.
type Watchable interface {
	// Watch observes content files matching pattern and emits change
	// events until ctx is cancelled.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
