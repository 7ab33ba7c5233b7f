package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/digifyhq/digify-go/internal/infrastructure/database"
)

// HealthHandlers serves liveness and readiness checks.
type HealthHandlers struct {
	db *database.DB
}

// NewHealthHandlers creates health handlers.
func NewHealthHandlers(db *database.DB) *HealthHandlers {
	return &HealthHandlers{db: db}
}

// GetHealth handles GET /healthz.
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"
	code := http.StatusOK

	if h.db == nil {
		dbStatus = "disabled"
	} else if err := h.db.Ping(); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
		code = http.StatusServiceUnavailable
	}

	payload := gin.H{"status": status, "database": dbStatus}
	if h.db != nil {
		payload["driver"] = h.db.DriverLabel()
	}
	c.JSON(code, payload)
}
