package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"landing_leads_backend/platform/apperr"
	"landing_leads_backend/platform/config"
	"landing_leads_backend/platform/logger"
)

const upsertPath = "/contacts/upsert"

// submitFailedMsg is the only detail the end user ever sees for a CRM
// failure; the structured cause stays in server logs.
const submitFailedMsg = "No pudimos enviar el formulario. Intentá nuevamente en unos minutos."

// Client performs contact upserts against the CRM REST API. It attaches
// the static identity context (location id, bearer credential, API version)
// configured at process start and performs no retries: failure recovery is
// the caller's responsibility.
type Client struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	version    string
	locationID string
	log        *logger.Logger
}

// NewClient creates an upsert client from configuration. Missing
// credentials are tolerated here; the composition root warns about them
// and calls then fail at the transport layer.
func NewClient(cfg config.CRMConfig, log *logger.Logger) *Client {
	return &Client{
		http:       &http.Client{Timeout: cfg.GetCRMTimeout()},
		baseURL:    cfg.GetCRMBaseURL(),
		apiKey:     cfg.GetCRMAPIKey(),
		version:    cfg.GetCRMAPIVersion(),
		locationID: cfg.GetCRMLocationID(),
		log:        log,
	}
}

// UpsertResult is the outcome of a successful upsert.
type UpsertResult struct {
	ContactID string
	// Raw is the full CRM response body, retained for observability.
	Raw json.RawMessage
}

// upsertRequest is the wire shape of the upsert body.
type upsertRequest struct {
	LocationID   string        `json:"locationId"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Name         string        `json:"name"`
	Tags         []string      `json:"tags"`
	CustomFields []CustomField `json:"customFields"`
}

// upsertResponse covers both response shapes the CRM is known to return:
// the contact id nested under "contact" or at the top level.
type upsertResponse struct {
	ID      string `json:"id"`
	Contact struct {
		ID string `json:"id"`
	} `json:"contact"`
}

// UpsertContact performs a single idempotent contact upsert. On non-2xx or
// network failure it logs the structured error body when the CRM returned
// one (else the transport error) and returns a typed upstream error with a
// generic user-facing message.
func (c *Client) UpsertContact(ctx context.Context, payload Payload) (UpsertResult, error) {
	customFields := payload.CustomFields
	if customFields == nil {
		customFields = []CustomField{}
	}
	body := upsertRequest{
		LocationID:   c.locationID,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Email:        payload.Email,
		Phone:        payload.Phone,
		Name:         payload.DisplayName(),
		Tags:         payload.Tags,
		CustomFields: customFields,
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return UpsertResult{}, apperr.Wrap(apperr.KindInternal, submitFailedMsg, err).WithOp("crm.upsert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+upsertPath, bytes.NewReader(encoded))
	if err != nil {
		return UpsertResult{}, apperr.Wrap(apperr.KindInternal, submitFailedMsg, err).WithOp("crm.upsert")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Version", c.version)

	res, err := c.http.Do(req)
	if err != nil {
		c.log.CRMError("contacts.upsert", 0, err.Error())
		return UpsertResult{}, apperr.Wrap(apperr.KindUpstream, submitFailedMsg, err).WithOp("crm.upsert")
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		c.log.CRMError("contacts.upsert", res.StatusCode, err.Error())
		return UpsertResult{}, apperr.Wrap(apperr.KindUpstream, submitFailedMsg, err).WithOp("crm.upsert")
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.log.CRMError("contacts.upsert", res.StatusCode, string(raw))
		err := fmt.Errorf("crm upsert returned status %d", res.StatusCode)
		return UpsertResult{}, apperr.Wrap(apperr.KindUpstream, submitFailedMsg, err).WithOp("crm.upsert")
	}

	var parsed upsertResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// A 2xx with an unreadable body still created the contact;
		// return success without an id rather than failing the user.
		c.log.Warn("crm upsert returned unparseable body", "error", err)
		return UpsertResult{Raw: raw}, nil
	}

	contactID := parsed.Contact.ID
	if contactID == "" {
		contactID = parsed.ID
	}

	c.log.Info("crm upsert ok", "email", payload.Email, "contactId", contactID)
	return UpsertResult{ContactID: contactID, Raw: raw}, nil
}
