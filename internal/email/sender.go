// Package email delivers internal notification mail over SMTP.
package email

import (
	"context"

	"landing_leads_backend/platform/config"
)

// Sender sends lead notification emails to the sales inbox.
type Sender interface {
	SendLeadNotification(ctx context.Context, toEmail string, data LeadNotificationData) error
}

// LeadNotificationData fills the new-lead notification template.
type LeadNotificationData struct {
	Form      string
	Name      string
	Email     string
	Phone     string
	ContactID string
	Files     int
}

// NoopSender drops every email. Used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendLeadNotification(ctx context.Context, toEmail string, data LeadNotificationData) error {
	return nil
}

// NewSender builds a sender from configuration: SMTP when enabled,
// otherwise a no-op.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
