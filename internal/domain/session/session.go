// Package session maintains the rotating short-lived session identifier.
// The session id is independent of the visitor id: it rotates after the
// inactivity threshold and only scopes short-term engagement measurement,
// while the visitor id is stable across sessions.
package session

import (
	"time"

	"github.com/digifyhq/digify-go/internal/infrastructure/security"
	"github.com/digifyhq/digify-go/pkg/digify"
)

// Ensure returns the session for the current request. A session is valid
// when it exists and the last activity is within ttl; then only LastSeenAt
// is refreshed. Otherwise a new session is minted. rotated reports whether
// the returned session carries a fresh id.
//
// Ensure never reads the wall clock; callers pass now so staleness
// boundaries are deterministic under test.
func Ensure(existing *digify.Session, ttl time.Duration, now time.Time) (sess digify.Session, rotated bool) {
	if existing == nil || existing.ID == "" || existing.LastSeenAt.IsZero() || now.Sub(existing.LastSeenAt) > ttl {
		return digify.Session{
			ID:         security.GenerateULID(),
			StartedAt:  now,
			LastSeenAt: now,
		}, true
	}

	sess = *existing
	sess.LastSeenAt = now
	return sess, false
}
