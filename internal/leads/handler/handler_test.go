package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"landing_leads_backend/internal/crm"
	"landing_leads_backend/internal/events"
	"landing_leads_backend/internal/leads"
	"landing_leads_backend/internal/leads/handler"
	"landing_leads_backend/internal/wizard"
	"landing_leads_backend/platform/apperr"
	"landing_leads_backend/platform/logger"
	"landing_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type stubUpserter struct {
	result crm.UpsertResult
	err    error
	calls  int
}

func (s *stubUpserter) UpsertContact(_ context.Context, _ crm.Payload) (crm.UpsertResult, error) {
	s.calls++
	if s.err != nil {
		return crm.UpsertResult{}, s.err
	}
	return s.result, nil
}

type stubStorage struct{}

func (stubStorage) UploadFile(_ context.Context, _, folder, fileName, _ string, _ io.Reader, _ int64) (string, error) {
	return folder + "/" + fileName, nil
}
func (stubStorage) ObjectURL(bucket, fileKey string) string {
	return "http://minio.local/" + bucket + "/" + fileKey
}
func (stubStorage) EnsureBucketExists(context.Context, string) error { return nil }
func (stubStorage) ValidateContentType(string) error                 { return nil }
func (stubStorage) ValidateFileSize(int64) error                     { return nil }
func (stubStorage) GetMaxFileSize() int64                            { return 10 << 20 }

type silentBus struct{}

func (silentBus) Publish(context.Context, events.Event) {}
func (silentBus) PublishSync(context.Context, events.Event) error {
	return nil
}
func (silentBus) Subscribe(string, events.Handler) {}

var testFieldIDs = crm.FieldIDs{
	"sexo":      "id-sexo",
	"cv_upload": "id-cv",
}

func newTestRouter(upserter *stubUpserter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.New("test")
	service := leads.NewService(leads.NewNormalizer(testFieldIDs), upserter, stubStorage{}, "cv-uploads", silentBus{}, log)
	manager := wizard.NewManager(wizard.NewMemoryStore(time.Hour), service, log)
	h := handler.New(service, manager, validator.New())

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1/leads"))
	h.RegisterWizardRoutes(engine.Group("/api/v1/wizard"), func(c *gin.Context) { c.Next() })
	return engine
}

func registroFormValues() map[string]string {
	return map[string]string{
		"first_name":       "Ana",
		"last_name":        "García",
		"sexo":             "femenino",
		"fecha_nacimiento": "15/03/1990",
		"profesion":        "medico",
		"cuit_cuil":        "27-12345678-4",
		"monotributo":      "si",
		"telefono":         "1123456789",
		"email":            "ana@example.com",
		"localidad":        "CABA",
		"domicilio":        "Av. Siempre Viva 123",
		"barrio":           "Palermo",
	}
}

func multipartBody(t *testing.T, values map[string]string, fileField string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range values {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="cv.pdf"`)
		header.Set("Content-Type", "application/pdf")
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write([]byte("%PDF-1.4 test")); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestSubmit_FullFormSucceeds(t *testing.T) {
	upserter := &stubUpserter{result: crm.UpsertResult{ContactID: "abc123"}}
	engine := newTestRouter(upserter)

	body, contentType := multipartBody(t, registroFormValues(), "cv_upload")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/submit", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ContactID string `json:"contactId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ContactID != "abc123" {
		t.Fatalf("expected contact id, got %q", resp.ContactID)
	}
	if upserter.calls != 1 {
		t.Fatalf("expected one upsert, got %d", upserter.calls)
	}
}

func TestSubmit_MissingFieldsReturnFieldKeyedErrors(t *testing.T) {
	upserter := &stubUpserter{}
	engine := newTestRouter(upserter)

	body, contentType := multipartBody(t, map[string]string{"first_name": "Ana"}, "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/submit", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Errors["last_name"] != "El apellido es obligatorio" {
		t.Fatalf("expected field message, got %v", resp.Errors)
	}
	if upserter.calls != 0 {
		t.Fatalf("invalid form must never reach the CRM")
	}
}

func TestWizard_StartAndNextValidationFlow(t *testing.T) {
	engine := newTestRouter(&stubUpserter{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wizard/sessions", strings.NewReader(`{"form":"registro-profesional"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var session struct {
		ID   string `json:"id"`
		Step int    `json:"step"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Step != 1 || session.ID == "" {
		t.Fatalf("unexpected new session: %+v", session)
	}

	// Advancing an empty step stays on it and carries the messages.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/wizard/sessions/"+session.ID+"/next", nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var next struct {
		Step   int               `json:"step"`
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &next); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if next.Step != 1 || next.Errors["first_name"] == "" {
		t.Fatalf("expected validation block, got %+v", next)
	}

	// Patch the fields and advance for real.
	fields := `{"fields":{"first_name":"Ana","last_name":"García","sexo":"femenino","fecha_nacimiento":"15/03/1990"}}`
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/wizard/sessions/"+session.ID+"/fields", strings.NewReader(fields))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/wizard/sessions/"+session.ID+"/next", nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	// The errors key is omitted on success, and Unmarshal leaves absent
	// fields untouched, so clear the previous decode's map first.
	next.Errors = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &next); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if next.Step != 2 || len(next.Errors) != 0 {
		t.Fatalf("expected advance to step 2, got %+v", next)
	}
}

func TestWizard_UnknownSessionIs404(t *testing.T) {
	engine := newTestRouter(&stubUpserter{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wizard/sessions/ghost", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestWizard_SubmitFailureReturnsSessionWithRetryMessage(t *testing.T) {
	upstream := apperr.New(apperr.KindUpstream, "No pudimos enviar el formulario. Intentá nuevamente en unos minutos.")
	engine := newTestRouter(&stubUpserter{err: upstream})

	// Drive a session to the last step through the API.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wizard/sessions", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	var session struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	stepFields := []string{
		`{"fields":{"first_name":"Ana","last_name":"García","sexo":"femenino","fecha_nacimiento":"15/03/1990"}}`,
		`{"fields":{"profesion":"medico","cuit_cuil":"27-12345678-4","monotributo":"si"}}`,
		`{"fields":{"telefono":"1123456789","email":"ana@example.com","localidad":"CABA","domicilio":"Calle 1","barrio":"Centro"}}`,
	}
	for _, payload := range stepFields {
		req = httptest.NewRequest(http.MethodPatch, "/api/v1/wizard/sessions/"+session.ID+"/fields", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec = httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("patch fields: %d %s", rec.Code, rec.Body.String())
		}

		req = httptest.NewRequest(http.MethodPost, "/api/v1/wizard/sessions/"+session.ID+"/next", nil)
		rec = httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("next: %d %s", rec.Code, rec.Body.String())
		}
	}

	// Attach the CV through the files endpoint.
	body, contentType := multipartBody(t, map[string]string{"field": "cv_upload"}, "file")
	req = httptest.NewRequest(http.MethodPost, "/api/v1/wizard/sessions/"+session.ID+"/files", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("attach file: %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/wizard/sessions/"+session.ID+"/submit", nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
	var failed struct {
		Status      string `json:"status"`
		Step        int    `json:"step"`
		SubmitError string `json:"submitError"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &failed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if failed.Status != "in_progress" || failed.Step != 4 {
		t.Fatalf("expected rollback to the final step, got %+v", failed)
	}
	if failed.SubmitError != "No pudimos enviar el formulario. Intentá nuevamente en unos minutos." {
		t.Fatalf("expected retry message on the session, got %+v", failed)
	}
}
