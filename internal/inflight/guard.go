// Package inflight rejects re-entrant submissions of the same action while one
// is still outstanding. The guard is advisory: it never queues or waits.
package inflight

import (
	"context"
	"errors"
	"sync"
)

// ErrInFlight is returned when the key is already held.
var ErrInFlight = errors.New("operation already in flight")

// Guard hands out exclusive, non-blocking holds on keys.
type Guard interface {
	// TryAcquire takes key or fails with ErrInFlight. The returned release must be
	// called exactly once when the operation finishes.
	TryAcquire(ctx context.Context, key string) (release func(), err error)
}

// MemoryGuard is a process-local Guard.
type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{held: make(map[string]struct{})}
}

func (g *MemoryGuard) TryAcquire(_ context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.held[key]; busy {
		return nil, ErrInFlight
	}
	g.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, nil
}

// Held reports whether key is currently taken.
func (g *MemoryGuard) Held(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.held[key]
	return busy
}
