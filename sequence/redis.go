package sequence

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Redis shares the id counter across processes and survives restarts.
// All replicas pointing at the same key allocate from one id space.
type Redis struct {
	rdb redis.UniversalClient
	ns  string // logical namespace; should match Options.Namespace
}

var _ Sequence = (*Redis)(nil)

// NewRedis creates a Redis-backed sequence. Ids come from INCR on a single
// key, so they are strictly increasing and gap-free per namespace.
func NewRedis(client redis.UniversalClient, namespace string) *Redis {
	return &Redis{rdb: client, ns: namespace}
}

func (s *Redis) key() string { return "seq:" + s.ns }

func (s *Redis) Next(ctx context.Context) (int64, error) {
	v, err := s.rdb.Incr(ctx, s.key()).Result()
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Close closes the underlying Redis client.
func (s *Redis) Close(context.Context) error { return s.rdb.Close() }
