// Package session makes upstream session expiry an explicit event instead of a
// side effect hidden inside the HTTP client.
package session

import (
	"context"
	"sync"
	"time"
)

// ExpiredEvent is published when the upstream rejects the admin's token on a
// non-exempt endpoint, or when the token is already past its expiry.
type ExpiredEvent struct {
	At        time.Time `json:"at"`
	ConsoleID string    `json:"consoleId,omitempty"` // console session that made the call, if known
	Endpoint  string    `json:"endpoint"`            // upstream path that observed the expiry
	Reason    string    `json:"reason"`
}

type consoleIDKey struct{}

// WithConsoleID tags ctx with the console session making upstream calls, so an
// expiry observed during those calls can be routed back to it.
func WithConsoleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, consoleIDKey{}, id)
}

// ConsoleIDFrom returns the id set by WithConsoleID, or "".
func ConsoleIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(consoleIDKey{}).(string)
	return id
}

// Listener reacts to an expired session. Listeners run synchronously on the
// publishing goroutine and must not block.
type Listener func(ExpiredEvent)

// Notifier fans expiry events out to subscribers. The zero value is ready to use.
type Notifier struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers l and returns a function that removes it.
func (n *Notifier) Subscribe(l Listener) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.listeners == nil {
		n.listeners = make(map[int]Listener)
	}
	id := n.nextID
	n.nextID++
	n.listeners[id] = l

	return func() {
		n.mu.Lock()
		delete(n.listeners, id)
		n.mu.Unlock()
	}
}

// Publish delivers ev to every current subscriber.
func (n *Notifier) Publish(ev ExpiredEvent) {
	if n == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	n.mu.RLock()
	listeners := make([]Listener, 0, len(n.listeners))
	for _, l := range n.listeners {
		listeners = append(listeners, l)
	}
	n.mu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}
