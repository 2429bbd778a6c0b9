package notification

import (
	"context"
	"testing"

	"landing_leads_backend/internal/email"
	"landing_leads_backend/internal/events"
	"landing_leads_backend/platform/logger"
)

type testEmailConfig struct {
	notify string
}

func (c testEmailConfig) GetEmailEnabled() bool       { return true }
func (c testEmailConfig) GetSMTPHost() string         { return "localhost" }
func (c testEmailConfig) GetSMTPPort() int            { return 1025 }
func (c testEmailConfig) GetSMTPUsername() string     { return "" }
func (c testEmailConfig) GetSMTPPassword() string     { return "" }
func (c testEmailConfig) GetEmailFromName() string    { return "Landing" }
func (c testEmailConfig) GetEmailFromAddress() string { return "noreply@example.com" }
func (c testEmailConfig) GetNotifyAddress() string    { return c.notify }

type testSender struct {
	calls []email.LeadNotificationData
	to    string
}

func (s *testSender) SendLeadNotification(_ context.Context, toEmail string, data email.LeadNotificationData) error {
	s.to = toEmail
	s.calls = append(s.calls, data)
	return nil
}

func submittedEvent() events.LeadSubmitted {
	return events.LeadSubmitted{
		BaseEvent: events.NewBaseEvent(),
		Form:      "registro-profesional",
		ContactID: "abc123",
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@example.com",
		Phone:     "+541123456789",
		Files:     1,
	}
}

func TestLeadSubmitted_SendsNotificationToConfiguredAddress(t *testing.T) {
	sender := &testSender{}
	module := New(sender, testEmailConfig{notify: "ventas@example.com"}, logger.New("test"))

	bus := events.NewInMemoryBus(logger.New("test"))
	module.RegisterHandlers(bus)

	if err := bus.PublishSync(context.Background(), submittedEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(sender.calls) != 1 {
		t.Fatalf("expected one notification, got %d", len(sender.calls))
	}
	if sender.to != "ventas@example.com" {
		t.Fatalf("unexpected recipient: %q", sender.to)
	}
	got := sender.calls[0]
	if got.Name != "Ana García" || got.ContactID != "abc123" {
		t.Fatalf("unexpected notification data: %+v", got)
	}
}

func TestLeadSubmitted_NoNotifyAddressDropsSilently(t *testing.T) {
	sender := &testSender{}
	module := New(sender, testEmailConfig{notify: ""}, logger.New("test"))

	bus := events.NewInMemoryBus(logger.New("test"))
	module.RegisterHandlers(bus)

	if err := bus.PublishSync(context.Background(), submittedEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(sender.calls) != 0 {
		t.Fatalf("expected no notification without a notify address")
	}
}

func TestSubmissionFailed_IsLoggedOnly(t *testing.T) {
	sender := &testSender{}
	module := New(sender, testEmailConfig{notify: "ventas@example.com"}, logger.New("test"))

	bus := events.NewInMemoryBus(logger.New("test"))
	module.RegisterHandlers(bus)

	err := bus.PublishSync(context.Background(), events.LeadSubmissionFailed{
		BaseEvent: events.NewBaseEvent(),
		Form:      "registro-profesional",
		Email:     "ana@example.com",
		Reason:    "upstream 502",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(sender.calls) != 0 {
		t.Fatalf("failure events must not email anyone")
	}
}
