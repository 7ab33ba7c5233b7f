package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digifyhq/digify-go/internal/infrastructure/observability/logging"
	"github.com/digifyhq/digify-go/pkg/config"
	"github.com/digifyhq/digify-go/pkg/digify"
)

func newAttributionService(t *testing.T) *AttributionService {
	t.Helper()
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	require.NoError(t, err)
	return NewAttributionService(logger)
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRefreshEmitsAllTrackingCookies(t *testing.T) {
	svc := newAttributionService(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/track", nil)
	result := svc.Refresh(req, "/pricing", time.Time{}, now)

	session := cookieByName(result.Cookies, config.SessionCookieName)
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	sid := cookieByName(result.Cookies, config.SessionIDCookieName)
	require.NotNil(t, sid)
	assert.Equal(t, result.SessionID, sid.Value)

	visitor := cookieByName(result.Cookies, config.VisitorCookieName)
	require.NotNil(t, visitor)
	assert.Zero(t, visitor.MaxAge, "no consent means session-scoped visitor cookie")
}

func TestRefreshReportedTimeDoesNotRotateSession(t *testing.T) {
	svc := newAttributionService(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	sessionValue, err := digify.EncodeCookie(digify.Session{
		ID:         "01J8ZK5M2P4Q6R8S0T1U3V5W7X",
		StartedAt:  now.Add(-10 * time.Minute),
		LastSeenAt: now.Add(-time.Minute),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/track", nil)
	req.AddCookie(&http.Cookie{Name: config.SessionCookieName, Value: sessionValue})

	// a beacon timestamp hours in the past only dates the page view
	result := svc.Refresh(req, "/pricing", now.Add(-6*time.Hour), now)

	assert.False(t, result.SessionRotated)
	assert.Equal(t, "01J8ZK5M2P4Q6R8S0T1U3V5W7X", result.SessionID)
}
