// Package memory provides an in-process Store with per-entry TTL and an
// optional background sweep. It is the default for tests and single-node
// deployments; entries do not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	st "github.com/unkn0wn-root/sixlink/store"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

// Store keeps records in a mutex-guarded map. Expired entries are dropped
// lazily on Get and, when a sweep interval is configured, by a janitor
// goroutine.
type Store struct {
	mu sync.RWMutex
	m  map[string]entry

	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

var _ st.Store = (*Store)(nil)

// New creates a memory store. sweepInterval <= 0 disables the janitor;
// expired entries are then only collected lazily on read.
func New(sweepInterval time.Duration) *Store {
	s := &Store{m: make(map[string]entry)}
	if sweepInterval > 0 {
		s.ticker = time.NewTicker(sweepInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.sweep(time.Now())
				case <-s.stopCh:
					return
				}
			}
		}()
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		s.mu.Lock()
		// re-check under the write lock; a fresh Set may have landed
		if cur, ok := s.m[key]; ok && !cur.exp.IsZero() && time.Now().After(cur.exp) {
			delete(s.m, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.v, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	// copy: callers may reuse their buffer
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	s.m[key] = entry{v: v, exp: exp}
	s.mu.Unlock()
	return true, nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.once.Do(func() {
		if s.stopCh != nil {
			close(s.stopCh)
			s.ticker.Stop()
			s.wg.Wait()
		}
	})
	return nil
}

// Len reports the number of live entries; expired-but-unswept entries count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	for k, e := range s.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(s.m, k)
		}
	}
	s.mu.Unlock()
}
