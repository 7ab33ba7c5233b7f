// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/digifyhq/digify-go/internal/application/services"
	"github.com/digifyhq/digify-go/internal/infrastructure/observability/logging"
	"github.com/digifyhq/digify-go/internal/presentation/http/middleware"
)

// TrackHandlers serves the client beacon and the visit readback endpoints.
type TrackHandlers struct {
	attributionService *services.AttributionService
	logger             *logging.ChanneledLogger
}

// NewTrackHandlers creates track handlers with injected dependencies.
func NewTrackHandlers(attributionService *services.AttributionService, logger *logging.ChanneledLogger) *TrackHandlers {
	return &TrackHandlers{
		attributionService: attributionService,
		logger:             logger,
	}
}

// trackBeacon is the client report: the viewed page and an optional RFC 3339
// timestamp of when the view happened.
type trackBeacon struct {
	Pathname  string `json:"pathname" binding:"required"`
	Timestamp string `json:"ts"`
}

// PostTrack handles POST /api/v1/track - the client-side engagement beacon.
// The beacon keeps the session alive and folds the reported page into the
// visit rollups.
func (h *TrackHandlers) PostTrack(c *gin.Context) {
	var beacon trackBeacon
	if err := c.ShouldBindJSON(&beacon); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing pathname"})
		return
	}

	var reportedAt time.Time
	if beacon.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, beacon.Timestamp); err == nil {
			reportedAt = parsed.UTC()
		}
	}

	now := time.Now().UTC()
	result := h.attributionService.Refresh(c.Request, beacon.Pathname, reportedAt, now)

	for _, cookie := range result.Cookies {
		http.SetCookie(c.Writer, cookie)
	}
	c.Header(middleware.HeaderVisitorID, result.VisitorID)
	c.Header(middleware.HeaderSessionID, result.SessionID)

	c.JSON(http.StatusOK, gin.H{
		"visitorId":      result.VisitorID,
		"sessionId":      result.SessionID,
		"engagedSeconds": result.Visitor.Rollups.EngagedSeconds,
		"persisted":      result.Persisted,
	})
}

// GetVisit handles GET /api/v1/visit - read-only view of the caller's own
// attribution record. Nothing is recorded and no cookies are written.
func (h *TrackHandlers) GetVisit(c *gin.Context) {
	visitor, ok := h.attributionService.Current(c.Request)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"visitor": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"visitor": visitor})
}
