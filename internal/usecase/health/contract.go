package health

import "context"

// StoragePinger checks snapshot storage availability.
type StoragePinger interface {
	Ping(ctx context.Context) error
}

// CorpusChecker reports whether the corpus can answer queries.
type CorpusChecker interface {
	Available() bool
}
