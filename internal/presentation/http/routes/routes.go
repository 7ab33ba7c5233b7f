// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/digifyhq/digify-go/internal/application/container"
	"github.com/digifyhq/digify-go/internal/presentation/http/handlers"
	"github.com/digifyhq/digify-go/internal/presentation/http/middleware"
	"github.com/digifyhq/digify-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(c *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	trackHandlers := handlers.NewTrackHandlers(c.AttributionService, c.Logger)
	leadHandlers := handlers.NewLeadHandlers(c.LeadService, c.AttributionService, c.Logger)
	authHandlers := handlers.NewAuthHandlers(c.AuthService, c.Logger)
	healthHandlers := handlers.NewHealthHandlers(c.DB)

	r.GET("/healthz", healthHandlers.GetHealth)

	api := r.Group("/api/v1")
	{
		api.POST("/track", trackHandlers.PostTrack)
		api.GET("/visit", trackHandlers.GetVisit)
		api.POST("/leads", leadHandlers.PostLead)
		api.POST("/auth/login", authHandlers.PostLogin)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(c.AuthService))
		{
			admin.GET("/leads", leadHandlers.GetLeads)
			admin.GET("/leads/:id", leadHandlers.GetLead)
		}
	}

	// Every page request flows through the tracker before the static site
	// is served.
	r.Use(middleware.AttributionMiddleware(c.AttributionService, c.Logger))
	r.NoRoute(handlers.ServeSite(config.PublicDir))

	return r
}
