// Package errs defines the sentinel error values shared across the
// resolution and launch pipeline, mirroring the error taxonomy in the
// specification's error-handling design.
package errs

import "errors"

var (
	// ErrInvalidHash is returned when a hex digest has the wrong length,
	// contains non-hex characters, or does not match the expected value.
	ErrInvalidHash = errors.New("invalid hash")

	// ErrInvalidLibraryName is returned when a library coordinate string
	// has fewer than three colon-separated components.
	ErrInvalidLibraryName = errors.New("invalid library name")

	// ErrLibraryNotSupported is returned when no artifact can be selected
	// for a library on the host platform.
	ErrLibraryNotSupported = errors.New("library not supported on this platform")

	// ErrLibraryMissing is returned by the verifier when an expected
	// artifact is absent from disk. Callers recover from this by emitting
	// a download request.
	ErrLibraryMissing = errors.New("library missing")

	// ErrLibraryInvalidHash is returned by the verifier when an artifact
	// on disk does not match its expected hash. Callers recover from this
	// by emitting a download request.
	ErrLibraryInvalidHash = errors.New("library has invalid hash")

	// ErrMetaNotFound is returned when a referenced UID, version, or
	// manifest field is absent from the resolver's state.
	ErrMetaNotFound = errors.New("metadata not found")
)
