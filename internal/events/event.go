// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"landing_leads_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadSubmitted is published when a submission was upserted into the CRM.
type LeadSubmitted struct {
	BaseEvent
	Form      string `json:"form"`
	ContactID string `json:"contactId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Files     int    `json:"files"`
}

func (e LeadSubmitted) EventName() string { return "leads.lead.submitted" }

// LeadSubmissionFailed is published when the CRM upsert failed. The wizard
// already returned the user to the last step; this event exists for
// observability subscribers.
type LeadSubmissionFailed struct {
	BaseEvent
	Form   string `json:"form"`
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

func (e LeadSubmissionFailed) EventName() string { return "leads.lead.submission_failed" }
