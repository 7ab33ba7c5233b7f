package services

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/digifyhq/digify-go/internal/domain/lead"
	"github.com/digifyhq/digify-go/internal/infrastructure/email"
	"github.com/digifyhq/digify-go/internal/infrastructure/observability/logging"
	"github.com/digifyhq/digify-go/internal/infrastructure/security"
	"github.com/digifyhq/digify-go/pkg/digify"
)

// LeadService handles contact form intake: validation, persistence, and the
// notification email.
type LeadService struct {
	repo    lead.Repository
	emailer email.Service
	logger  *logging.ChanneledLogger
}

// NewLeadService creates a new lead intake service. emailer may be nil when
// no notification recipient is configured.
func NewLeadService(repo lead.Repository, emailer email.Service, logger *logging.ChanneledLogger) *LeadService {
	return &LeadService{
		repo:    repo,
		emailer: emailer,
		logger:  logger,
	}
}

// LeadInput is the submitted contact form payload. Attrib carries the
// client-decoded attribution bundle when the form poster already holds one;
// it takes precedence over whatever rides on the request cookies.
type LeadInput struct {
	Name           string          `json:"name" binding:"required"`
	Email          string          `json:"email" binding:"required"`
	Phone          string          `json:"phone"`
	Message        string          `json:"message"`
	MarketingOptIn bool            `json:"marketingOptIn"`
	Attrib         *digify.Visitor `json:"attrib"`
}

// Validate normalizes the input and reports the first problem found.
func (in *LeadInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)

	if in.Name == "" {
		return fmt.Errorf("name is required")
	}
	if in.Email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("email is invalid")
	}
	return nil
}

// Create persists a validated lead, stamped with the attribution bundle the
// request carried, and fires the notification email in the background. Email
// failures are logged, never surfaced: the lead is already stored.
func (s *LeadService) Create(input LeadInput, attribution *digify.Visitor, sourceIP, userAgent string, now time.Time) (*lead.Lead, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	l := &lead.Lead{
		ID:             security.GenerateULID(),
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Message:        input.Message,
		MarketingOptIn: input.MarketingOptIn,
		SourceIP:       sourceIP,
		UserAgent:      userAgent,
		CreatedAt:      now,
	}

	if attribution != nil {
		blob, err := json.Marshal(attribution)
		if err != nil {
			s.logger.Lead().Error("Failed to serialize attribution bundle", "error", err.Error())
		} else {
			l.Attribution = string(blob)
		}
	}

	if err := s.repo.Store(l); err != nil {
		s.logger.Lead().Error("Failed to store lead", "error", err.Error(), "email", l.Email)
		return nil, err
	}
	s.logger.Lead().Info("Lead stored", "id", l.ID, "email", l.Email)

	if s.emailer != nil {
		go func(l *lead.Lead, attribution *digify.Visitor) {
			if err := s.emailer.SendLeadNotification(l, attribution); err != nil {
				s.logger.Email().Error("Lead notification failed", "error", err.Error(), "leadId", l.ID)
				return
			}
			s.logger.Email().Info("Lead notification sent", "leadId", l.ID)
		}(l, attribution)
	}

	return l, nil
}

// FindByID returns one stored lead, or nil when absent.
func (s *LeadService) FindByID(id string) (*lead.Lead, error) {
	return s.repo.FindByID(id)
}

// List returns stored leads newest first, with sane bounds on paging.
func (s *LeadService) List(limit, offset int) ([]*lead.Lead, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(limit, offset)
}
