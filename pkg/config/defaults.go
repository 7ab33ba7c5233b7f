// Package config provides centralized default values for digify-go
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

// loadEnvFile loads environment variables from .env file
func loadEnvFile() {
	envLoaded.Do(func() {
		loadEnvFileOnce()
	})
}

func loadEnvFileOnce() {
	file, err := os.Open(".env")
	if err != nil {
		// .env file is optional, don't error if it doesn't exist
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Split on first = sign
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Only set if not already set in environment
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

// getEnvInt reads environment variable with fallback to default
func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvString reads environment variable with string fallback
func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// getEnvBool reads environment variable as boolean with fallback
func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1"
	}
	return defaultValue
}

// getEnvDuration reads environment variable as duration with fallback
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Site Configuration
	SiteHost      string
	PublicDir     string
	SecureCookies bool

	// Cookie Names
	SessionCookieName   string
	SessionIDCookieName string
	VisitorCookieName   string
	ConsentCookieName   string

	// Attribution Configuration
	SessionTTL         time.Duration
	VisitorCookieTTL   time.Duration
	MaxTouches         int
	TouchDedupWindow   time.Duration
	EngagedStepCap     time.Duration
	EngagedLifetimeCap time.Duration
	VisitPageLimit     int

	// Database Configuration
	SQLitePath         string
	TursoDatabase      string
	TursoToken         string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetime  time.Duration
	DBConnMaxIdle      time.Duration
	SlowQueryThreshold time.Duration

	// Email Configuration
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	LeadNotifyTo  string

	// Admin Configuration
	AdminPasswordHash string
	JWTSecret         string
	AdminTokenTTL     time.Duration
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Site Configuration
	SiteHost = getEnvString("SITE_HOST", "localhost:8080")
	PublicDir = getEnvString("PUBLIC_DIR", "web/public")
	SecureCookies = getEnvBool("SECURE_COOKIES", true)

	// Cookie Names
	SessionCookieName = getEnvString("SESSION_COOKIE_NAME", "_digify_session")
	SessionIDCookieName = getEnvString("SESSION_ID_COOKIE_NAME", "_digify_sid")
	VisitorCookieName = getEnvString("VISITOR_COOKIE_NAME", "_digify")
	ConsentCookieName = getEnvString("CONSENT_COOKIE_NAME", "consent_state")

	// Attribution Configuration
	SessionTTL = getEnvDuration("SESSION_TTL", 30*time.Minute)
	VisitorCookieTTL = getEnvDuration("VISITOR_COOKIE_TTL", 365*24*time.Hour)
	MaxTouches = getEnvInt("MAX_TOUCHES", 10)
	TouchDedupWindow = getEnvDuration("TOUCH_DEDUP_WINDOW", 2*time.Second)
	EngagedStepCap = getEnvDuration("ENGAGED_STEP_CAP", 30*time.Minute)
	EngagedLifetimeCap = getEnvDuration("ENGAGED_LIFETIME_CAP", 24*time.Hour)
	VisitPageLimit = getEnvInt("VISIT_PAGE_LIMIT", 20)

	// Database Configuration
	SQLitePath = getEnvString("SQLITE_PATH", "db/leads.db")
	TursoDatabase = getEnvString("TURSO_DATABASE_URL", "")
	TursoToken = getEnvString("TURSO_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetime = time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute
	DBConnMaxIdle = time.Duration(getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)) * time.Minute
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond)

	// Email Configuration
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	EmailFrom = getEnvString("EMAIL_FROM", "noreply@digify.local")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "Digify")
	LeadNotifyTo = getEnvString("LEAD_NOTIFY_TO", "")

	// Admin Configuration
	AdminPasswordHash = getEnvString("ADMIN_PASSWORD_HASH", "")
	JWTSecret = getEnvString("JWT_SECRET", "")
	AdminTokenTTL = getEnvDuration("ADMIN_TOKEN_TTL", 24*time.Hour)
}
