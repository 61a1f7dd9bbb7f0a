package sequence

import (
	"context"
	"sync/atomic"
)

// Local is an in-process counter (default). Ids restart from the configured
// base after a process restart, so pair it with a persistent store only if
// the base is re-seeded above the highest allocated id.
type Local struct {
	n atomic.Int64
}

var _ Sequence = (*Local)(nil)

// NewLocal creates a counter whose first Next returns start; start < 1 is
// treated as 1.
func NewLocal(start int64) *Local {
	if start < 1 {
		start = 1
	}
	s := &Local{}
	s.n.Store(start - 1)
	return s
}

func (s *Local) Next(_ context.Context) (int64, error) {
	return s.n.Add(1), nil
}

func (s *Local) Close(context.Context) error { return nil }
