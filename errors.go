package chunkdex

import "github.com/kailas-cloud/chunkdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrIndexUnavailable  = domain.ErrIndexUnavailable
	ErrSnapshotNotFound  = domain.ErrSnapshotNotFound
	ErrSnapshotCorrupt   = domain.ErrSnapshotCorrupt
	ErrChunkNotFound     = domain.ErrChunkNotFound
	ErrInvalidRequest    = domain.ErrInvalidRequest
	ErrVectorDimMismatch = domain.ErrVectorDimMismatch
)
