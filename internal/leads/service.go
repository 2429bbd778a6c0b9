package leads

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"landing_leads_backend/internal/crm"
	"landing_leads_backend/internal/events"
	"landing_leads_backend/internal/forms"
	"landing_leads_backend/internal/storage"
	"landing_leads_backend/platform/apperr"
	"landing_leads_backend/platform/logger"
)

// Upserter is the slice of the CRM client the pipeline needs.
type Upserter interface {
	UpsertContact(ctx context.Context, payload crm.Payload) (crm.UpsertResult, error)
}

// Service runs the submission pipeline: normalize the record, upsert the
// contact, publish the outcome. It also stores CV uploads so the payload
// can carry URL references instead of bytes.
type Service struct {
	normalizer *Normalizer
	upserter   Upserter
	storage    storage.Service
	bucket     string
	bus        events.Bus
	log        *logger.Logger
}

func NewService(normalizer *Normalizer, upserter Upserter, storageSvc storage.Service, bucket string, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		normalizer: normalizer,
		upserter:   upserter,
		storage:    storageSvc,
		bucket:     bucket,
		bus:        bus,
		log:        log,
	}
}

// Submit normalizes an already-validated record and upserts it. The
// record is expected to have passed validation; Submit never re-validates.
func (s *Service) Submit(ctx context.Context, schema *forms.Schema, record *forms.Record) (string, error) {
	payload := s.normalizer.Payload(schema, record)

	result, err := s.upserter.UpsertContact(ctx, payload)
	if err != nil {
		s.log.SubmissionEvent(schema.Name, payload.Email, false, err.Error())
		s.publish(ctx, events.LeadSubmissionFailed{
			BaseEvent: events.NewBaseEvent(),
			Form:      schema.Name,
			Email:     payload.Email,
			Reason:    err.Error(),
		})
		return "", err
	}

	s.log.SubmissionEvent(schema.Name, payload.Email, true, "")
	s.publish(ctx, events.LeadSubmitted{
		BaseEvent: events.NewBaseEvent(),
		Form:      schema.Name,
		ContactID: result.ContactID,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Files:     countFiles(record),
	})
	return result.ContactID, nil
}

// SubmitRecord validates the whole record against the named form and
// submits it. It backs the single-shot endpoint, where there is no
// wizard session enforcing per-step validation.
func (s *Service) SubmitRecord(ctx context.Context, formName string, record *forms.Record) (string, error) {
	schema, ok := forms.Lookup(formName)
	if !ok {
		return "", apperr.New(apperr.KindBadRequest, "formulario desconocido: "+formName)
	}
	if errs := forms.ValidateAll(schema, record); !errs.Empty() {
		return "", apperr.New(apperr.KindValidation, "el formulario tiene errores").WithDetails(errs)
	}
	return s.Submit(ctx, schema, record)
}

// StoreFile validates and uploads one attachment, returning the file
// reference to put on the record.
func (s *Service) StoreFile(ctx context.Context, fileName, contentType string, size int64, reader io.Reader) (forms.FileRef, error) {
	if err := s.storage.ValidateContentType(contentType); err != nil {
		return forms.FileRef{}, apperr.New(apperr.KindBadRequest, "tipo de archivo no permitido")
	}
	if err := s.storage.ValidateFileSize(size); err != nil {
		return forms.FileRef{}, apperr.New(apperr.KindBadRequest, "el archivo supera el tamaño máximo permitido")
	}

	key, err := s.storage.UploadFile(ctx, s.bucket, "cv", fileName, contentType, reader, size)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return forms.FileRef{}, appErr
		}
		return forms.FileRef{}, apperr.Wrap(apperr.KindInternal, "no se pudo guardar el archivo", err)
	}

	return forms.FileRef{
		Name: filepath.Base(fileName),
		Size: size,
		Key:  key,
		URL:  s.storage.ObjectURL(s.bucket, key),
	}, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}

func countFiles(record *forms.Record) int {
	total := 0
	for _, refs := range record.Files {
		total += len(refs)
	}
	return total
}
