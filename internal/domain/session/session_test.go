package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digifyhq/digify-go/pkg/digify"
)

const ttl = 30 * time.Minute

var now = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func TestEnsureMintsSessionWhenAbsent(t *testing.T) {
	sess, rotated := Ensure(nil, ttl, now)

	assert.True(t, rotated)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, now, sess.StartedAt)
	assert.Equal(t, now, sess.LastSeenAt)
}

func TestEnsureRefreshesActiveSession(t *testing.T) {
	existing := &digify.Session{
		ID:         "01J8ZK5M2P4Q6R8S0T1U3V5W7X",
		StartedAt:  now.Add(-20 * time.Minute),
		LastSeenAt: now.Add(-10 * time.Minute),
	}

	sess, rotated := Ensure(existing, ttl, now)

	assert.False(t, rotated)
	assert.Equal(t, existing.ID, sess.ID)
	assert.Equal(t, existing.StartedAt, sess.StartedAt)
	assert.Equal(t, now, sess.LastSeenAt)
	// the input is not mutated
	assert.Equal(t, now.Add(-10*time.Minute), existing.LastSeenAt)
}

func TestEnsureRotatesStaleSession(t *testing.T) {
	existing := &digify.Session{
		ID:         "01J8ZK5M2P4Q6R8S0T1U3V5W7X",
		StartedAt:  now.Add(-2 * time.Hour),
		LastSeenAt: now.Add(-31 * time.Minute),
	}

	sess, rotated := Ensure(existing, ttl, now)

	assert.True(t, rotated)
	assert.NotEqual(t, existing.ID, sess.ID)
	assert.Equal(t, now, sess.StartedAt)
	assert.Equal(t, now, sess.LastSeenAt)
}

func TestEnsureExactThresholdIsStillValid(t *testing.T) {
	existing := &digify.Session{
		ID:         "01J8ZK5M2P4Q6R8S0T1U3V5W7X",
		StartedAt:  now.Add(-ttl),
		LastSeenAt: now.Add(-ttl),
	}

	sess, rotated := Ensure(existing, ttl, now)

	assert.False(t, rotated)
	assert.Equal(t, existing.ID, sess.ID)
}

func TestEnsureRotatesMalformedSession(t *testing.T) {
	cases := map[string]*digify.Session{
		"empty id":      {LastSeenAt: now.Add(-time.Minute)},
		"zero lastSeen": {ID: "01J8ZK5M2P4Q6R8S0T1U3V5W7X"},
	}

	for name, existing := range cases {
		t.Run(name, func(t *testing.T) {
			sess, rotated := Ensure(existing, ttl, now)
			require.True(t, rotated)
			assert.NotEmpty(t, sess.ID)
		})
	}
}

func TestEnsureMintsDistinctIDs(t *testing.T) {
	a, _ := Ensure(nil, ttl, now)
	b, _ := Ensure(nil, ttl, now)
	assert.NotEqual(t, a.ID, b.ID)
}
