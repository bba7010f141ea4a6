package domain

import "errors"

var (
	// ErrIndexUnavailable signals that the corpus is not loaded (startup failure
	// or a reload that did not complete). It is distinct from an empty result set.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrSnapshotNotFound signals a missing chunks or vectors snapshot.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrSnapshotCorrupt signals a snapshot that is not a JSON array of records.
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
	// ErrChunkNotFound signals a missing chunk.
	ErrChunkNotFound = errors.New("chunk not found")
	// ErrInvalidRequest signals invalid search parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
