package core

import "errors"

// Common errors.
var (
	// ErrBadManifestVersion means the manifest version string is not
	// strict X.Y.Z. This is fatal: the bumper never guesses.
	ErrBadManifestVersion = errors.New("manifest version is not a valid X.Y.Z semver")

	// ErrValidationFailed is returned by pipeline compositions when a
	// validation run produced violations.
	ErrValidationFailed = errors.New("corpus validation failed")
)
