// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/digifyhq/digify-go/internal/application/services"
	"github.com/digifyhq/digify-go/internal/infrastructure/database"
	"github.com/digifyhq/digify-go/internal/infrastructure/email"
	"github.com/digifyhq/digify-go/internal/infrastructure/observability/logging"
	"github.com/digifyhq/digify-go/internal/infrastructure/persistence/leads"
	"github.com/digifyhq/digify-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies.
type Container struct {
	// Application services (stateless singletons)
	AttributionService *services.AttributionService
	LeadService        *services.LeadService
	AuthService        *services.AuthService

	// Infrastructure
	Logger *logging.ChanneledLogger
	DB     *database.DB
}

// NewContainer creates and wires all singleton services.
func NewContainer() (*Container, error) {
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	db, err := database.Connect(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open lead store: %w", err)
	}

	leadRepo := leads.NewSQLLeadRepository(db, logger)

	// The notification email is optional; intake works without it.
	var emailer email.Service
	if config.ResendAPIKey != "" && config.LeadNotifyTo != "" {
		emailer, err = email.NewService()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize email service: %w", err)
		}
	} else {
		logger.Startup().Warn("Lead notification email disabled",
			"hasApiKey", config.ResendAPIKey != "",
			"hasRecipient", config.LeadNotifyTo != "")
	}

	return &Container{
		AttributionService: services.NewAttributionService(logger),
		LeadService:        services.NewLeadService(leadRepo, emailer, logger),
		AuthService:        services.NewAuthService(logger),
		Logger:             logger,
		DB:                 db,
	}, nil
}

// Close releases held infrastructure resources.
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
