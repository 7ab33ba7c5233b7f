package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/digifyhq/digify-go/internal/application/services"
	"github.com/digifyhq/digify-go/internal/infrastructure/observability/logging"
)

// AuthHandlers contains the admin authentication HTTP handlers.
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
}

// NewAuthHandlers creates auth handlers with injected dependencies.
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
	}
}

// PostLogin handles POST /api/v1/auth/login - admin authentication.
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	result := h.authService.AuthenticateAdmin(req.Password)
	if !result.Success {
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Error})
		return
	}

	c.JSON(http.StatusOK, result)
}
