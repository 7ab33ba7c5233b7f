// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"

	"github.com/resendlabs/resend-go"

	"github.com/digifyhq/digify-go/internal/domain/lead"
	"github.com/digifyhq/digify-go/internal/infrastructure/email/templates"
	"github.com/digifyhq/digify-go/pkg/config"
	"github.com/digifyhq/digify-go/pkg/digify"
)

// Service defines the interface for sending emails, allowing for mock
// implementations in tests.
type Service interface {
	SendLeadNotification(l *lead.Lead, attribution *digify.Visitor) error
}

// ResendClient is the concrete implementation of the email Service using the
// Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
	notifyTo  string
}

// NewService creates a new email service client, returning the Service
// interface. Both the API key and a notification recipient are required;
// deployments without them should not construct the service.
func NewService() (Service, error) {
	if config.ResendAPIKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}
	if config.LeadNotifyTo == "" {
		return nil, fmt.Errorf("LEAD_NOTIFY_TO environment variable is required")
	}

	return &ResendClient{
		client:    resend.NewClient(config.ResendAPIKey),
		fromEmail: config.EmailFrom,
		fromName:  config.EmailFromName,
		notifyTo:  config.LeadNotifyTo,
	}, nil
}

// SendLeadNotification composes and sends the new-lead email. The attribution
// bundle is optional; when present its latest touch is summarized.
func (c *ResendClient) SendLeadNotification(l *lead.Lead, attribution *digify.Visitor) error {
	props := templates.LeadNotificationProps{
		Name:           l.Name,
		Email:          l.Email,
		Phone:          l.Phone,
		Message:        l.Message,
		MarketingOptIn: l.MarketingOptIn,
		SubmittedAt:    l.CreatedAt.UTC().Format("2006-01-02 15:04 MST"),
	}
	if attribution != nil {
		if touch := attribution.LastTouch(); touch != nil {
			props.Channel = touch.Channel
			props.Source = touch.Source
			props.Campaign = touch.Campaign
			props.LandingPath = touch.LandingPath
		}
	}

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: "New lead: " + l.Email,
		Content:   templates.GetLeadNotificationContent(props),
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{c.notifyTo},
		Subject: "New lead: " + l.Name,
		Html:    htmlContent,
		ReplyTo: l.Email,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send lead notification via Resend: %w", err)
	}
	return nil
}
