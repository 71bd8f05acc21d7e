package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/caterbazar/caterbazar-console/internal/metrics"
	"github.com/google/uuid"
)

// Console is the per-admin UI state: one discovery view and one review view.
type Console struct {
	ID        string
	Discovery *VendorDiscovery
	Review    *RegistrationReview
}

// ConsoleFactory builds the views for a new console.
type ConsoleFactory func(id string) *Console

type consoleEntry struct {
	console  *Console
	owner    [sha256.Size]byte
	lastSeen time.Time
}

// ConsoleRegistry maps console session ids to their state and forgets consoles
// that have been idle longer than ttl. A console belongs to the bearer token
// that created it; at most limit consoles are kept when limit is positive.
type ConsoleRegistry struct {
	mu       sync.Mutex
	consoles map[string]*consoleEntry
	factory  ConsoleFactory
	ttl      time.Duration
	limit    int
	now      func() time.Time
	onEvict  []func(id string)
}

func NewConsoleRegistry(factory ConsoleFactory, ttl time.Duration, limit int) *ConsoleRegistry {
	return &ConsoleRegistry{
		consoles: make(map[string]*consoleEntry),
		factory:  factory,
		ttl:      ttl,
		limit:    limit,
		now:      time.Now,
	}
}

func tokenDigest(token string) [sha256.Size]byte {
	return sha256.Sum256([]byte(token))
}

func (e *consoleEntry) ownedBy(digest [sha256.Size]byte) bool {
	return subtle.ConstantTimeCompare(e.owner[:], digest[:]) == 1
}

// NewConsoleFactory wires views to the shared upstream client, guard and signer.
func NewConsoleFactory(vendors VendorSearcher, registrations RegistrationAPI, deps ReviewDeps) ConsoleFactory {
	return func(id string) *Console {
		return &Console{
			ID:        id,
			Discovery: NewVendorDiscovery(vendors),
			Review:    NewRegistrationReview(registrations, deps.Guard, deps.Signer),
		}
	}
}

// OnEvict registers fn to run after a console is dropped.
func (r *ConsoleRegistry) OnEvict(fn func(id string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvict = append(r.onEvict, fn)
}

// Acquire returns the console for id and marks it active. An empty or unknown
// id, or one created under a different token, gets a fresh console under a new
// id; created reports that case. When the registry is full the least recently
// seen console is evicted to make room.
func (r *ConsoleRegistry) Acquire(id, token string) (console *Console, created bool) {
	digest := tokenDigest(token)

	r.mu.Lock()
	if entry, ok := r.consoles[id]; ok && id != "" && entry.ownedBy(digest) {
		entry.lastSeen = r.now()
		r.mu.Unlock()
		return entry.console, false
	}

	var evicted string
	if r.limit > 0 && len(r.consoles) >= r.limit {
		evicted = r.oldestLocked()
		delete(r.consoles, evicted)
	}

	newID := uuid.NewString()
	entry := &consoleEntry{console: r.factory(newID), owner: digest, lastSeen: r.now()}
	r.consoles[newID] = entry
	metrics.ConsoleSessionsActive.Set(float64(len(r.consoles)))
	hooks := append([]func(string){}, r.onEvict...)
	r.mu.Unlock()

	if evicted != "" {
		for _, fn := range hooks {
			fn(evicted)
		}
	}
	return entry.console, true
}

// Owns reports whether id names a live console created under token.
func (r *ConsoleRegistry) Owns(id, token string) bool {
	if id == "" {
		return false
	}
	digest := tokenDigest(token)
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.consoles[id]
	return ok && entry.ownedBy(digest)
}

func (r *ConsoleRegistry) oldestLocked() string {
	var (
		oldestID string
		oldestAt time.Time
	)
	for id, entry := range r.consoles {
		if oldestID == "" || entry.lastSeen.Before(oldestAt) {
			oldestID, oldestAt = id, entry.lastSeen
		}
	}
	return oldestID
}

// Get returns the console for id without creating one.
func (r *ConsoleRegistry) Get(id string) (*Console, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.consoles[id]
	if !ok {
		return nil, false
	}
	return entry.console, true
}

// Remove drops a console immediately.
func (r *ConsoleRegistry) Remove(id string) {
	r.mu.Lock()
	_, ok := r.consoles[id]
	delete(r.consoles, id)
	metrics.ConsoleSessionsActive.Set(float64(len(r.consoles)))
	hooks := append([]func(string){}, r.onEvict...)
	r.mu.Unlock()

	if ok {
		for _, fn := range hooks {
			fn(id)
		}
	}
}

// Sweep evicts consoles idle for longer than ttl and returns how many went.
func (r *ConsoleRegistry) Sweep() int {
	r.mu.Lock()
	cutoff := r.now().Add(-r.ttl)
	var evicted []string
	for id, entry := range r.consoles {
		if entry.lastSeen.Before(cutoff) {
			delete(r.consoles, id)
			evicted = append(evicted, id)
		}
	}
	metrics.ConsoleSessionsActive.Set(float64(len(r.consoles)))
	hooks := append([]func(string){}, r.onEvict...)
	r.mu.Unlock()

	for _, id := range evicted {
		for _, fn := range hooks {
			fn(id)
		}
	}
	return len(evicted)
}

func (r *ConsoleRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.consoles)
}
