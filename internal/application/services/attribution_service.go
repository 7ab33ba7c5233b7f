// Package services provides application-level orchestration services
package services

import (
	"net/http"
	"net/url"
	"time"

	"github.com/digifyhq/digify-go/internal/domain/attribution"
	"github.com/digifyhq/digify-go/internal/domain/consent"
	"github.com/digifyhq/digify-go/internal/domain/session"
	"github.com/digifyhq/digify-go/internal/infrastructure/observability/logging"
	"github.com/digifyhq/digify-go/internal/infrastructure/security"
	"github.com/digifyhq/digify-go/pkg/config"
	"github.com/digifyhq/digify-go/pkg/digify"
)

// AttributionService runs the per-request tracking pipeline: session
// continuity, consent evaluation, touch classification and recording, and
// cookie refresh. It holds no per-visitor state; everything round-trips
// through cookies.
type AttributionService struct {
	logger *logging.ChanneledLogger
	limits attribution.Limits
}

// NewAttributionService creates the tracking pipeline service with limits
// taken from configuration.
func NewAttributionService(logger *logging.ChanneledLogger) *AttributionService {
	return &AttributionService{
		logger: logger,
		limits: attribution.Limits{
			MaxTouches:   config.MaxTouches,
			DedupWindow:  config.TouchDedupWindow,
			StepCap:      config.EngagedStepCap,
			LifetimeCap:  config.EngagedLifetimeCap,
			VisitPageCap: config.VisitPageLimit,
		},
	}
}

// TrackResult is the outcome of one pipeline run. Cookies carries every
// Set-Cookie the response must include; the ids feed the response headers.
type TrackResult struct {
	VisitorID      string
	SessionID      string
	SessionRotated bool
	Persisted      bool
	Touched        bool
	Visitor        digify.Visitor
	Cookies        []*http.Cookie
}

// Track runs the full pipeline for a document navigation: it classifies the
// request into a touch, records it and the page view, and refreshes all
// tracking cookies. now is passed in so the pipeline stays deterministic
// under test.
func (s *AttributionService) Track(r *http.Request, now time.Time) *TrackResult {
	state := s.readState(r, now)

	touch := attribution.Classify(requestURL(r), r.Referer(), config.SiteHost, now)
	state.Visitor = attribution.Record(state.Visitor, touch, s.limits)
	state.Visitor = attribution.RecordPageView(state.Visitor, state.Session.ID, touch.LandingPath, now, s.limits)
	state.Touched = true

	s.logger.Attribution().Debug("Touch recorded",
		"visitorId", state.Visitor.VisitorID,
		"sessionId", state.Session.ID,
		"channel", touch.Channel,
		"source", touch.Source,
		"path", touch.LandingPath)

	return s.finish(state, now)
}

// Refresh runs the pipeline without classifying a touch. It keeps the
// session alive and records a page view for engagement rollups. Used for
// client beacons and for requests that are not document navigations.
// reportedAt is the client-reported page view time; zero means now. Session
// continuity always runs on the server clock so a stale beacon timestamp
// cannot rotate a live session.
func (s *AttributionService) Refresh(r *http.Request, pagePath string, reportedAt, now time.Time) *TrackResult {
	state := s.readState(r, now)

	if pagePath != "" {
		at := reportedAt
		if at.IsZero() {
			at = now
		}
		state.Visitor = attribution.RecordPageView(state.Visitor, state.Session.ID, pagePath, at, s.limits)
	}

	return s.finish(state, now)
}

// Current reads the visitor record without modifying it or touching any
// cookies. Used by the readback endpoint.
func (s *AttributionService) Current(r *http.Request) (digify.Visitor, bool) {
	return digify.ReadVisitor(r, config.VisitorCookieName)
}

// pipelineState is the in-flight request state between read and finish.
type pipelineState struct {
	Visitor digify.Visitor
	Session digify.Session
	Rotated bool
	Consent consent.Decision
	Touched bool
}

func (s *AttributionService) readState(r *http.Request, now time.Time) pipelineState {
	var state pipelineState

	state.Consent = consent.Read(r, config.ConsentCookieName)

	var existing *digify.Session
	if cookie, err := r.Cookie(config.SessionCookieName); err == nil {
		var sess digify.Session
		if digify.DecodeCookie(cookie.Value, &sess) {
			existing = &sess
		} else {
			s.logger.Session().Debug("Unreadable session cookie, minting fresh session")
		}
	}
	state.Session, state.Rotated = session.Ensure(existing, config.SessionTTL, now)

	if visitor, ok := digify.ReadVisitor(r, config.VisitorCookieName); ok {
		state.Visitor = visitor
	}
	if state.Visitor.VisitorID == "" {
		state.Visitor.VisitorID = security.GenerateULID()
		s.logger.Attribution().Debug("Minted visitor id", "visitorId", state.Visitor.VisitorID)
	}

	if state.Rotated {
		s.logger.Session().Debug("Session rotated",
			"sessionId", state.Session.ID,
			"visitorId", state.Visitor.VisitorID)
	}

	return state
}

func (s *AttributionService) finish(state pipelineState, now time.Time) *TrackResult {
	result := &TrackResult{
		VisitorID:      state.Visitor.VisitorID,
		SessionID:      state.Session.ID,
		SessionRotated: state.Rotated,
		Persisted:      state.Consent.Persist(),
		Touched:        state.Touched,
		Visitor:        state.Visitor,
	}

	// A marshal failure for one record must not cost the other its refresh,
	// so each cookie is encoded and appended independently.
	if sessionValue, err := digify.EncodeCookie(state.Session); err != nil {
		s.logger.Session().Error("Failed to encode session cookie", "error", err.Error())
	} else {
		sessionMaxAge := int(config.SessionTTL.Seconds())
		result.Cookies = append(result.Cookies,
			&http.Cookie{
				Name:     config.SessionCookieName,
				Value:    sessionValue,
				Path:     "/",
				MaxAge:   sessionMaxAge,
				HttpOnly: true,
				Secure:   config.SecureCookies,
				SameSite: http.SameSiteLaxMode,
			},
			&http.Cookie{
				Name:     config.SessionIDCookieName,
				Value:    state.Session.ID,
				Path:     "/",
				MaxAge:   sessionMaxAge,
				Secure:   config.SecureCookies,
				SameSite: http.SameSiteLaxMode,
			},
		)
	}

	if visitorValue, err := digify.EncodeCookie(state.Visitor); err != nil {
		s.logger.Attribution().Error("Failed to encode visitor cookie", "error", err.Error())
	} else {
		// Without consent the visitor record is still written, but only for
		// the browser session: no MaxAge means it dies with the tab.
		visitorCookie := &http.Cookie{
			Name:     config.VisitorCookieName,
			Value:    visitorValue,
			Path:     "/",
			Secure:   config.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		}
		if result.Persisted {
			visitorCookie.MaxAge = int(config.VisitorCookieTTL.Seconds())
			visitorCookie.Expires = now.Add(config.VisitorCookieTTL)
		}
		result.Cookies = append(result.Cookies, visitorCookie)
	}

	return result
}

// requestURL rebuilds the navigated URL from the request line. Path and
// query are all the classifier needs.
func requestURL(r *http.Request) *url.URL {
	if r.URL != nil {
		return r.URL
	}
	return &url.URL{Path: "/"}
}
