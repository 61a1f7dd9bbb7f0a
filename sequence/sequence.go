// Package sequence allocates the monotonically increasing internal ids that
// short codes are derived from.
package sequence

import "context"

// Sequence hands out ids starting at 1. Implementations must never return
// the same id twice and must be safe for concurrent use.
// Use Local (default) for in-process ids, or Redis to share the counter
// across replicas and restarts.
type Sequence interface {
	// Next returns the next unused id.
	Next(ctx context.Context) (int64, error)
	// Close releases resources (no-op ok).
	Close(ctx context.Context) error
}
