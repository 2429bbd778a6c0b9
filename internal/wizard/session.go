// Package wizard implements the server-side multi-step form controller:
// one session per form visitor, a step state machine gated on per-step
// validation, and a pluggable session store.
package wizard

import (
	"time"

	"landing_leads_backend/internal/forms"
)

// Status is the session's coarse state. Steps are tracked separately:
// a session in StatusInProgress is at Step 1..TotalSteps.
type Status string

const (
	// StatusInProgress means the visitor is filling in steps.
	StatusInProgress Status = "in_progress"
	// StatusSubmitting means a submission is in flight; all transition
	// events are rejected until it resolves.
	StatusSubmitting Status = "submitting"
	// StatusSubmitted is terminal: the CRM accepted the contact.
	StatusSubmitted Status = "submitted"
)

// Session is one visitor's pass through a form. It exclusively owns its
// composite record; nothing is shared across sessions.
type Session struct {
	ID         string        `json:"id"`
	Form       string        `json:"form"`
	Step       int           `json:"step"`
	TotalSteps int           `json:"totalSteps"`
	Status     Status        `json:"status"`
	Record     *forms.Record `json:"record"`
	// Errors holds the current step's validation messages, recomputed
	// fresh on every transition attempt and never merged across steps.
	Errors forms.ErrorSet `json:"errors,omitempty"`
	// SubmitError is the non-field-scoped message of a failed
	// submission. It is not part of Errors.
	SubmitError string    `json:"submitError,omitempty"`
	ContactID   string    `json:"contactId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// clone returns a deep copy so a stored session can never alias a live one.
func (s *Session) clone() *Session {
	dup := *s
	if s.Record != nil {
		rec := forms.NewRecord()
		for k, v := range s.Record.Values {
			rec.Values[k] = v
		}
		for k, refs := range s.Record.Files {
			rec.Files[k] = append([]forms.FileRef(nil), refs...)
		}
		dup.Record = rec
	}
	if s.Errors != nil {
		errs := make(forms.ErrorSet, len(s.Errors))
		for k, v := range s.Errors {
			errs[k] = v
		}
		dup.Errors = errs
	}
	return &dup
}
