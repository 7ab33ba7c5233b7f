// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/digifyhq/digify-go/internal/application/services"
	"github.com/digifyhq/digify-go/internal/infrastructure/observability/logging"
)

// Response headers carrying the tracking identifiers back to the client.
const (
	HeaderVisitorID = "X-Dfy-Visitor"
	HeaderSessionID = "X-Dfy-Session"
)

// skipPrefixes are request paths the tracker never touches.
var skipPrefixes = []string{
	"/api/",
	"/static/",
	"/assets/",
	"/_astro/",
}

// skipExact are individual paths excluded from tracking, including the
// tracker's own client script.
var skipExact = map[string]bool{
	"/favicon.ico": true,
	"/robots.txt":  true,
	"/sitemap.xml": true,
	"/digify.js":   true,
	"/healthz":     true,
}

// AttributionMiddleware runs the tracking pipeline on page requests. It
// never blocks a request: any panic inside the pipeline is logged and the
// page is served untracked.
func AttributionMiddleware(attributionService *services.AttributionService, logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if shouldSkip(c.Request) {
			c.Next()
			return
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Attribution().Error("Tracking pipeline panic, serving request untracked",
						"panic", r,
						"path", c.Request.URL.Path)
				}
			}()

			now := time.Now().UTC()

			var result *services.TrackResult
			if isDocumentNavigation(c.Request) {
				result = attributionService.Track(c.Request, now)
			} else {
				result = attributionService.Refresh(c.Request, "", time.Time{}, now)
			}

			for _, cookie := range result.Cookies {
				http.SetCookie(c.Writer, cookie)
			}
			c.Header(HeaderVisitorID, result.VisitorID)
			c.Header(HeaderSessionID, result.SessionID)
		}()

		c.Next()
	}
}

func shouldSkip(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return true
	}

	p := r.URL.Path
	if skipExact[p] {
		return true
	}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	// Asset requests carry a file extension; pages do not.
	if ext := path.Ext(p); ext != "" && ext != ".html" {
		return true
	}
	return false
}

// isDocumentNavigation reports whether the request is a top-level page load
// rather than a prefetch, subresource, or data fetch. Fetch metadata wins
// when present; the Accept header is the fallback for older clients.
func isDocumentNavigation(r *http.Request) bool {
	if purpose := r.Header.Get("Sec-Purpose"); strings.Contains(purpose, "prefetch") {
		return false
	}
	if r.Header.Get("Purpose") == "prefetch" {
		return false
	}
	if dest := r.Header.Get("Sec-Fetch-Dest"); dest != "" {
		return dest == "document"
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
