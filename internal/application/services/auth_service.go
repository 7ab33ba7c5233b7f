package services

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/digifyhq/digify-go/internal/infrastructure/observability/logging"
	"github.com/digifyhq/digify-go/internal/infrastructure/security"
	"github.com/digifyhq/digify-go/pkg/config"
)

// AuthService handles admin authentication and JWT issuance.
type AuthService struct {
	logger *logging.ChanneledLogger
}

// NewAuthService creates a new authentication service.
func NewAuthService(logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{logger: logger}
}

// AuthResult holds authentication result data.
type AuthResult struct {
	Token   string `json:"token"`
	Role    string `json:"role"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// AuthenticateAdmin validates the admin password and issues a JWT. The
// configured value is expected to be a bcrypt hash.
func (a *AuthService) AuthenticateAdmin(password string) *AuthResult {
	if config.AdminPasswordHash == "" || config.JWTSecret == "" {
		a.logger.System().Warn("Admin authentication attempted without admin credentials configured")
		return &AuthResult{Success: false, Error: "Admin access is not configured"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(config.AdminPasswordHash), []byte(password)); err != nil {
		a.logger.System().Warn("Admin authentication failed")
		return &AuthResult{Success: false, Error: "Invalid credentials"}
	}

	token, err := security.GenerateAdminToken(config.JWTSecret, config.AdminTokenTTL)
	if err != nil {
		a.logger.System().Error("Failed to generate admin token", "error", err.Error())
		return &AuthResult{Success: false, Error: "Token generation failed"}
	}

	a.logger.System().Info("Admin authenticated")
	return &AuthResult{Token: token, Role: "admin", Success: true}
}

// ValidateToken checks an admin bearer token.
func (a *AuthService) ValidateToken(tokenString string) bool {
	if config.JWTSecret == "" {
		return false
	}
	_, err := security.ValidateAdminToken(tokenString, config.JWTSecret)
	return err == nil
}
