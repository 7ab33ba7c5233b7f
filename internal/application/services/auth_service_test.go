package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/digifyhq/digify-go/internal/infrastructure/observability/logging"
	"github.com/digifyhq/digify-go/pkg/config"
)

func newServiceTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	require.NoError(t, err)
	return logger
}

func withAdminCredentials(t *testing.T, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	prevHash, prevSecret := config.AdminPasswordHash, config.JWTSecret
	config.AdminPasswordHash = string(hash)
	config.JWTSecret = "test-secret"
	t.Cleanup(func() {
		config.AdminPasswordHash = prevHash
		config.JWTSecret = prevSecret
	})
}

func TestAuthenticateAdminIssuesValidToken(t *testing.T) {
	withAdminCredentials(t, "hunter2")
	svc := NewAuthService(newServiceTestLogger(t))

	result := svc.AuthenticateAdmin("hunter2")
	require.True(t, result.Success)
	assert.Equal(t, "admin", result.Role)
	assert.NotEmpty(t, result.Token)

	assert.True(t, svc.ValidateToken(result.Token))
}

func TestAuthenticateAdminRejectsWrongPassword(t *testing.T) {
	withAdminCredentials(t, "hunter2")
	svc := NewAuthService(newServiceTestLogger(t))

	result := svc.AuthenticateAdmin("wrong")
	assert.False(t, result.Success)
	assert.Empty(t, result.Token)
}

func TestAuthenticateAdminUnconfigured(t *testing.T) {
	prevHash, prevSecret := config.AdminPasswordHash, config.JWTSecret
	config.AdminPasswordHash = ""
	config.JWTSecret = ""
	t.Cleanup(func() {
		config.AdminPasswordHash = prevHash
		config.JWTSecret = prevSecret
	})

	svc := NewAuthService(newServiceTestLogger(t))
	result := svc.AuthenticateAdmin("anything")
	assert.False(t, result.Success)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	withAdminCredentials(t, "hunter2")
	svc := NewAuthService(newServiceTestLogger(t))

	assert.False(t, svc.ValidateToken(""))
	assert.False(t, svc.ValidateToken("not.a.jwt"))
}
