package service

import (
	"testing"
	"time"

	"github.com/caterbazar/caterbazar-console/internal/inflight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerToken = "admin-token"

func newTestRegistry(ttl time.Duration, limit int) (*ConsoleRegistry, *time.Time) {
	api := newFakeUpstream()
	factory := NewConsoleFactory(api, api, ReviewDeps{Guard: inflight.NewMemoryGuard()})
	reg := NewConsoleRegistry(factory, ttl, limit)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }
	return reg, &now
}

func TestConsoleRegistry_Acquire(t *testing.T) {
	reg, _ := newTestRegistry(time.Hour, 0)

	first, created := reg.Acquire("", ownerToken)
	require.True(t, created)
	require.NotEmpty(t, first.ID)
	require.NotNil(t, first.Discovery)
	require.NotNil(t, first.Review)

	again, created := reg.Acquire(first.ID, ownerToken)
	assert.False(t, created)
	assert.Same(t, first, again)

	other, created := reg.Acquire("unknown-id", ownerToken)
	assert.True(t, created)
	assert.NotEqual(t, "unknown-id", other.ID)
	assert.Equal(t, 2, reg.Len())
}

func TestConsoleRegistry_AcquireWithForeignTokenGetsFreshConsole(t *testing.T) {
	reg, _ := newTestRegistry(time.Hour, 0)

	owned, _ := reg.Acquire("", ownerToken)

	foreign, created := reg.Acquire(owned.ID, "someone-else")
	require.True(t, created)
	assert.NotEqual(t, owned.ID, foreign.ID)
	assert.NotSame(t, owned, foreign)

	// The owner's console is left untouched.
	again, created := reg.Acquire(owned.ID, ownerToken)
	assert.False(t, created)
	assert.Same(t, owned, again)

	assert.True(t, reg.Owns(owned.ID, ownerToken))
	assert.False(t, reg.Owns(owned.ID, "someone-else"))
	assert.True(t, reg.Owns(foreign.ID, "someone-else"))
	assert.False(t, reg.Owns("", ownerToken))
	assert.False(t, reg.Owns("unknown-id", ownerToken))
}

func TestConsoleRegistry_LimitEvictsLeastRecentlySeen(t *testing.T) {
	reg, now := newTestRegistry(time.Hour, 2)

	var evicted []string
	reg.OnEvict(func(id string) { evicted = append(evicted, id) })

	oldest, _ := reg.Acquire("", ownerToken)
	*now = now.Add(time.Minute)
	recent, _ := reg.Acquire("", ownerToken)
	*now = now.Add(time.Minute)
	// Touching oldest makes recent the least recently seen.
	reg.Acquire(oldest.ID, ownerToken)
	*now = now.Add(time.Minute)

	newest, created := reg.Acquire("", ownerToken)
	require.True(t, created)

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{recent.ID}, evicted)
	_, ok := reg.Get(recent.ID)
	assert.False(t, ok)
	_, ok = reg.Get(oldest.ID)
	assert.True(t, ok)
	_, ok = reg.Get(newest.ID)
	assert.True(t, ok)

	for i := 0; i < 10; i++ {
		reg.Acquire("", "token-flood")
	}
	assert.Equal(t, 2, reg.Len())
}

func TestConsoleRegistry_SweepEvictsIdle(t *testing.T) {
	reg, now := newTestRegistry(30*time.Minute, 0)

	var evicted []string
	reg.OnEvict(func(id string) { evicted = append(evicted, id) })

	idle, _ := reg.Acquire("", ownerToken)
	*now = now.Add(20 * time.Minute)
	active, _ := reg.Acquire("", ownerToken)

	*now = now.Add(15 * time.Minute)
	reg.Acquire(active.ID, ownerToken)

	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, []string{idle.ID}, evicted)

	_, ok := reg.Get(idle.ID)
	assert.False(t, ok)
	_, ok = reg.Get(active.ID)
	assert.True(t, ok)
}

func TestConsoleRegistry_Remove(t *testing.T) {
	reg, _ := newTestRegistry(time.Hour, 0)
	var evicted []string
	reg.OnEvict(func(id string) { evicted = append(evicted, id) })

	c, _ := reg.Acquire("", ownerToken)
	reg.Remove(c.ID)
	reg.Remove(c.ID)

	assert.Equal(t, []string{c.ID}, evicted)
	assert.Equal(t, 0, reg.Len())
}
