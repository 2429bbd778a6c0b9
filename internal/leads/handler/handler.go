// Package handler exposes the public lead capture endpoints: the
// single-shot submission and the wizard session API.
package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"landing_leads_backend/internal/forms"
	"landing_leads_backend/internal/leads/transport"
	"landing_leads_backend/internal/wizard"
	"landing_leads_backend/platform/apperr"
	"landing_leads_backend/platform/httpkit"
	"landing_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "invalid request"

// SubmissionService is the slice of the lead service the handler needs:
// the single-shot pipeline and attachment storage.
type SubmissionService interface {
	SubmitRecord(ctx context.Context, formName string, record *forms.Record) (string, error)
	StoreFile(ctx context.Context, fileName, contentType string, size int64, reader io.Reader) (forms.FileRef, error)
}

// Handler handles HTTP requests for lead submissions.
type Handler struct {
	service SubmissionService
	wizard  *wizard.Manager
	val     *validator.Validator
}

// New creates a new leads handler.
func New(service SubmissionService, manager *wizard.Manager, val *validator.Validator) *Handler {
	return &Handler{service: service, wizard: manager, val: val}
}

// RegisterRoutes adds lead routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/submit", h.Submit)
}

// RegisterWizardRoutes adds the wizard session routes. Only session
// creation and submission are rate limited; field edits and step moves
// are frequent by nature.
func (h *Handler) RegisterWizardRoutes(rg *gin.RouterGroup, submitLimit gin.HandlerFunc) {
	rg.POST("/sessions", submitLimit, h.StartSession)
	rg.GET("/sessions/:id", h.GetSession)
	rg.PATCH("/sessions/:id/fields", h.SetFields)
	rg.POST("/sessions/:id/files", h.AttachFile)
	rg.POST("/sessions/:id/next", h.NextStep)
	rg.POST("/sessions/:id/back", h.PreviousStep)
	rg.POST("/sessions/:id/submit", submitLimit, h.SubmitSession)
}

// Submit accepts a whole form in one multipart request, validates every
// step and runs the pipeline. It exists for clients that keep the wizard
// state themselves.
func (h *Handler) Submit(c *gin.Context) {
	formName := c.PostForm("form")
	if formName == "" {
		formName = forms.Default().Name
	}
	schema, ok := forms.Lookup(formName)
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, "formulario desconocido", nil)
		return
	}

	record := forms.NewRecord()
	for _, field := range schema.FieldsInOrder() {
		if field.Kind == forms.KindFiles {
			continue
		}
		if value, present := c.GetPostForm(field.Name); present {
			record.Set(field.Name, value)
		}
	}
	if err := h.collectFiles(c, schema, record); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	contactID, err := h.service.SubmitRecord(c.Request.Context(), schema.Name, record)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindValidation {
			if fields, ok := appErr.Details.(forms.ErrorSet); ok {
				httpkit.ValidationErrors(c, fields)
				return
			}
		}
		httpkit.HandleError(c, err)
		return
	}

	httpkit.Created(c, transport.SubmitResponse{
		ContactID: contactID,
		Message:   "Formulario enviado correctamente",
	})
}

// collectFiles stores every upload posted under a file-kind field and
// attaches the resulting references to the record.
func (h *Handler) collectFiles(c *gin.Context, schema *forms.Schema, record *forms.Record) error {
	if c.ContentType() != "multipart/form-data" {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return apperr.New(apperr.KindBadRequest, msgInvalidRequest)
	}
	for _, field := range schema.FieldsInOrder() {
		if field.Kind != forms.KindFiles {
			continue
		}
		for _, fileHeader := range form.File[field.Name] {
			ref, err := h.storeUpload(c, fileHeader)
			if err != nil {
				return err
			}
			record.AddFile(field.Name, ref)
		}
	}
	return nil
}

func (h *Handler) storeUpload(c *gin.Context, fileHeader *multipart.FileHeader) (forms.FileRef, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return forms.FileRef{}, apperr.New(apperr.KindBadRequest, msgInvalidRequest)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	return h.service.StoreFile(c.Request.Context(), fileHeader.Filename, contentType, fileHeader.Size, file)
}

// StartSession opens a new wizard session.
func (h *Handler) StartSession(c *gin.Context) {
	var req transport.StartSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	if req.Form == "" {
		req.Form = forms.Default().Name
	}

	session, err := h.wizard.Start(c.Request.Context(), req.Form)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, transport.NewSessionResponse(session))
}

// GetSession returns the current session snapshot.
func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.wizard.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.NewSessionResponse(session))
}

// SetFields applies field edits to the session.
func (h *Handler) SetFields(c *gin.Context) {
	var req transport.SetFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	session, err := h.wizard.SetFields(c.Request.Context(), c.Param("id"), req.Fields)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.NewSessionResponse(session))
}

// AttachFile stores one uploaded file on a session's file field. The
// multipart request names the target field in the "field" value.
func (h *Handler) AttachFile(c *gin.Context) {
	fieldName := c.PostForm("field")
	if fieldName == "" {
		httpkit.Error(c, http.StatusBadRequest, "falta el nombre del campo", nil)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	ref, err := h.storeUpload(c, fileHeader)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	session, err := h.wizard.AttachFile(c.Request.Context(), c.Param("id"), fieldName, ref)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.NewSessionResponse(session))
}

// NextStep validates the current step and advances on success.
func (h *Handler) NextStep(c *gin.Context) {
	session, err := h.wizard.Next(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.NewSessionResponse(session))
}

// PreviousStep goes back one step without validating.
func (h *Handler) PreviousStep(c *gin.Context) {
	session, err := h.wizard.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.NewSessionResponse(session))
}

// SubmitSession runs the pipeline off the session's record. An upstream
// failure comes back with the session rolled back to the last step so
// the client can retry.
func (h *Handler) SubmitSession(c *gin.Context) {
	session, err := h.wizard.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		if session != nil {
			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				httpkit.JSON(c, appErr.HTTPStatus(), transport.NewSessionResponse(session))
				return
			}
		}
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.NewSessionResponse(session))
}
