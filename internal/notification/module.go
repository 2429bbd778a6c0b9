// Package notification provides event handlers for sending notifications
// in response to domain events. Domain modules publish events and never
// know about email providers or templates.
package notification

import (
	"context"
	"strings"

	"landing_leads_backend/internal/email"
	"landing_leads_backend/internal/events"
	"landing_leads_backend/platform/config"
	"landing_leads_backend/platform/logger"
)

// Module wires domain events to outbound notifications.
type Module struct {
	sender email.Sender
	notify string
	log    *logger.Logger
}

// New creates the notification module. When no notify address is
// configured the module still registers but drops everything.
func New(sender email.Sender, cfg config.EmailConfig, log *logger.Logger) *Module {
	return &Module{
		sender: sender,
		notify: cfg.GetNotifyAddress(),
		log:    log,
	}
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadSubmitted{}.EventName(), events.HandlerFunc(m.handleLeadSubmitted))
	bus.Subscribe(events.LeadSubmissionFailed{}.EventName(), events.HandlerFunc(m.handleSubmissionFailed))
}

func (m *Module) handleLeadSubmitted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadSubmitted)
	if !ok {
		return nil
	}
	if m.notify == "" {
		return nil
	}

	data := email.LeadNotificationData{
		Form:      e.Form,
		Name:      strings.TrimSpace(e.FirstName + " " + e.LastName),
		Email:     e.Email,
		Phone:     e.Phone,
		ContactID: e.ContactID,
		Files:     e.Files,
	}
	if err := m.sender.SendLeadNotification(ctx, m.notify, data); err != nil {
		m.log.Error("failed to send lead notification", "error", err, "form", e.Form)
		return err
	}
	return nil
}

// handleSubmissionFailed only logs: the visitor already saw the retry
// message and there is no contact to act on yet.
func (m *Module) handleSubmissionFailed(_ context.Context, event events.Event) error {
	e, ok := event.(events.LeadSubmissionFailed)
	if !ok {
		return nil
	}
	m.log.Warn("lead submission failed", "form", e.Form, "email", e.Email, "reason", e.Reason)
	return nil
}
