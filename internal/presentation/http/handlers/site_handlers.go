package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// ServeSite returns the fallback handler that serves the static site from
// publicDir. Clean URLs resolve to their .html file, and directories to
// their index.html.
func ServeSite(publicDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		reqPath := path.Clean(c.Request.URL.Path)
		if strings.Contains(reqPath, "..") {
			c.Status(http.StatusBadRequest)
			return
		}

		for _, candidate := range siteCandidates(publicDir, reqPath) {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				c.File(candidate)
				return
			}
		}

		notFound := filepath.Join(publicDir, "404.html")
		if _, err := os.Stat(notFound); err == nil {
			c.Status(http.StatusNotFound)
			c.File(notFound)
			return
		}
		c.String(http.StatusNotFound, "not found")
	}
}

func siteCandidates(publicDir, reqPath string) []string {
	base := filepath.Join(publicDir, filepath.FromSlash(reqPath))
	if path.Ext(reqPath) != "" {
		return []string{base}
	}
	if reqPath == "/" {
		return []string{filepath.Join(publicDir, "index.html")}
	}
	return []string{
		base + ".html",
		filepath.Join(base, "index.html"),
	}
}
