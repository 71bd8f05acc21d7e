package session

import (
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp *time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "admin-1"}
	if exp != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*exp)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return token
}

func TestNotifier_PublishAndUnsubscribe(t *testing.T) {
	n := NewNotifier()

	var mu sync.Mutex
	var got []ExpiredEvent
	unsubscribe := n.Subscribe(func(ev ExpiredEvent) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	})

	n.Publish(ExpiredEvent{Endpoint: "/admin/vendors", Reason: "upstream returned 401"})
	unsubscribe()
	n.Publish(ExpiredEvent{Endpoint: "/admin/business-registrations"})

	require.Len(t, got, 1)
	assert.Equal(t, "/admin/vendors", got[0].Endpoint)
	assert.False(t, got[0].At.IsZero())
}

func TestNotifier_NilIsNoop(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() { n.Publish(ExpiredEvent{}) })
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	assert.True(t, TokenExpired(signedToken(t, &past), now))
	assert.False(t, TokenExpired(signedToken(t, &future), now))
	assert.False(t, TokenExpired(signedToken(t, nil), now), "no exp claim")
	assert.False(t, TokenExpired("opaque-session-token", now))
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)

	got, ok, err := ExpiresAt(signedToken(t, &exp))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, _, err = ExpiresAt("not-a-jwt")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestConsoleIDContext(t *testing.T) {
	ctx := WithConsoleID(t.Context(), "console-1")
	assert.Equal(t, "console-1", ConsoleIDFrom(ctx))
	assert.Equal(t, "", ConsoleIDFrom(t.Context()))
}
