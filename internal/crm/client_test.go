package crm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"landing_leads_backend/platform/apperr"
	"landing_leads_backend/platform/logger"
)

type testCRMConfig struct {
	baseURL string
}

func (c testCRMConfig) GetCRMBaseURL() string        { return c.baseURL }
func (c testCRMConfig) GetCRMAPIKey() string         { return "test-key" }
func (c testCRMConfig) GetCRMAPIVersion() string     { return "2021-07-28" }
func (c testCRMConfig) GetCRMLocationID() string     { return "loc-123" }
func (c testCRMConfig) GetCRMTimeout() time.Duration { return 5 * time.Second }
func (c testCRMConfig) GetCRMFieldIDsFile() string   { return "" }
func (c testCRMConfig) HasCRMCredentials() bool      { return true }

func TestUpsertContact_SendsIdentityContextAndParsesContactID(t *testing.T) {
	var captured struct {
		auth    string
		version string
		body    map[string]interface{}
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.auth = r.Header.Get("Authorization")
		captured.version = r.Header.Get("Version")
		if err := json.NewDecoder(r.Body).Decode(&captured.body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"contact":{"id":"abc123"}}`))
	}))
	defer server.Close()

	client := NewClient(testCRMConfig{baseURL: server.URL}, logger.New("test"))
	result, err := client.UpsertContact(context.Background(), Payload{
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@example.com",
		Phone:     "+541123456789",
		Tags:      []string{"Landing Registro Profesional"},
		CustomFields: []CustomField{
			{ID: "field-1", Value: "Femenino"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ContactID != "abc123" {
		t.Fatalf("expected contact id abc123, got %q", result.ContactID)
	}

	if captured.auth != "Bearer test-key" {
		t.Fatalf("unexpected authorization header: %q", captured.auth)
	}
	if captured.version != "2021-07-28" {
		t.Fatalf("unexpected version header: %q", captured.version)
	}
	if captured.body["locationId"] != "loc-123" {
		t.Fatalf("expected injected location id, got %v", captured.body["locationId"])
	}
	if captured.body["name"] != "Ana García" {
		t.Fatalf("expected combined display name, got %v", captured.body["name"])
	}
}

func TestUpsertContact_TopLevelIDFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"top-level"}`))
	}))
	defer server.Close()

	client := NewClient(testCRMConfig{baseURL: server.URL}, logger.New("test"))
	result, err := client.UpsertContact(context.Background(), Payload{Email: "x@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ContactID != "top-level" {
		t.Fatalf("expected top-level id, got %q", result.ContactID)
	}
}

func TestUpsertContact_NonSuccessStatusIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid field"}`))
	}))
	defer server.Close()

	client := NewClient(testCRMConfig{baseURL: server.URL}, logger.New("test"))
	_, err := client.UpsertContact(context.Background(), Payload{Email: "x@example.com"})
	if err == nil {
		t.Fatalf("expected error for 422 response")
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected typed error, got %T", err)
	}
	if appErr.Kind != apperr.KindUpstream {
		t.Fatalf("expected upstream kind, got %v", appErr.Kind)
	}
	if appErr.Message != submitFailedMsg {
		t.Fatalf("user-facing message must stay generic, got %q", appErr.Message)
	}
}

func TestUpsertContact_UnparseableSuccessBodyStillSucceeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := NewClient(testCRMConfig{baseURL: server.URL}, logger.New("test"))
	result, err := client.UpsertContact(context.Background(), Payload{Email: "x@example.com"})
	if err != nil {
		t.Fatalf("2xx with garbage body must not fail: %v", err)
	}
	if result.ContactID != "" {
		t.Fatalf("expected empty contact id, got %q", result.ContactID)
	}
}

func TestUpsertContact_NetworkFailureIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // port is closed before the call

	client := NewClient(testCRMConfig{baseURL: server.URL}, logger.New("test"))
	_, err := client.UpsertContact(context.Background(), Payload{Email: "x@example.com"})
	if err == nil {
		t.Fatalf("expected error for unreachable CRM")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindUpstream {
		t.Fatalf("expected upstream kind, got %v", err)
	}
}

func TestUpsertContact_NilCustomFieldsEncodeAsEmptyArray(t *testing.T) {
	var rawBody map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&rawBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Write([]byte(`{"id":"x"}`))
	}))
	defer server.Close()

	client := NewClient(testCRMConfig{baseURL: server.URL}, logger.New("test"))
	if _, err := client.UpsertContact(context.Background(), Payload{Email: "x@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(rawBody["customFields"]) != "[]" {
		t.Fatalf("expected empty array, got %s", rawBody["customFields"])
	}
}
