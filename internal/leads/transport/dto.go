// Package transport defines the request/response shapes of the public
// lead capture API.
package transport

import (
	"landing_leads_backend/internal/forms"
	"landing_leads_backend/internal/wizard"
)

// StartSessionRequest opens a wizard session. Form is optional and
// defaults to the registration form.
type StartSessionRequest struct {
	Form string `json:"form"`
}

// SetFieldsRequest applies one or more scalar field edits to a session.
type SetFieldsRequest struct {
	Fields map[string]string `json:"fields" validate:"required,min=1"`
}

// SessionResponse is the session snapshot returned by every wizard
// endpoint. The frontend renders Step/Errors/SubmitError directly.
type SessionResponse struct {
	ID          string            `json:"id"`
	Form        string            `json:"form"`
	Step        int               `json:"step"`
	TotalSteps  int               `json:"totalSteps"`
	Status      string            `json:"status"`
	Values      map[string]string `json:"values"`
	Files       map[string][]File `json:"files,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
	SubmitError string            `json:"submitError,omitempty"`
	ContactID   string            `json:"contactId,omitempty"`
}

// File is the client-visible view of a stored upload.
type File struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// SubmitResponse acknowledges a successful single-shot submission.
type SubmitResponse struct {
	ContactID string `json:"contactId,omitempty"`
	Message   string `json:"message"`
}

// NewSessionResponse maps a wizard session to its API shape.
func NewSessionResponse(s *wizard.Session) SessionResponse {
	resp := SessionResponse{
		ID:          s.ID,
		Form:        s.Form,
		Step:        s.Step,
		TotalSteps:  s.TotalSteps,
		Status:      string(s.Status),
		Errors:      s.Errors,
		SubmitError: s.SubmitError,
		ContactID:   s.ContactID,
	}
	if s.Record != nil {
		resp.Values = s.Record.Values
		resp.Files = filesView(s.Record.Files)
	}
	return resp
}

func filesView(files map[string][]forms.FileRef) map[string][]File {
	if len(files) == 0 {
		return nil
	}
	out := make(map[string][]File, len(files))
	for field, refs := range files {
		view := make([]File, 0, len(refs))
		for _, ref := range refs {
			view = append(view, File{Name: ref.Name, Size: ref.Size, URL: ref.URL})
		}
		out[field] = view
	}
	return out
}
