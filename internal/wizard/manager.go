package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"landing_leads_backend/internal/forms"
	"landing_leads_backend/platform/apperr"
	"landing_leads_backend/platform/logger"
)

// Submitter hands a completed record to the lead pipeline. The returned
// contact ID comes from the CRM.
type Submitter interface {
	Submit(ctx context.Context, schema *forms.Schema, record *forms.Record) (contactID string, err error)
}

// Manager drives the session state machine. All transitions validate
// against the session's form schema; the session is never advanced past
// a step with failing rules.
type Manager struct {
	store     Store
	submitter Submitter
	log       *logger.Logger

	// locks serializes transitions per session id.
	locks sync.Map
}

func NewManager(store Store, submitter Submitter, log *logger.Logger) *Manager {
	return &Manager{store: store, submitter: submitter, log: log}
}

func (m *Manager) lock(id string) *sync.Mutex {
	mu, _ := m.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Start creates a fresh session for the named form at step 1.
func (m *Manager) Start(ctx context.Context, formName string) (*Session, error) {
	schema, ok := forms.Lookup(formName)
	if !ok {
		return nil, apperr.New(apperr.KindBadRequest, "formulario desconocido: "+formName)
	}
	now := time.Now().UTC()
	session := &Session{
		ID:         uuid.NewString(),
		Form:       schema.Name,
		Step:       1,
		TotalSteps: schema.NumSteps(),
		Status:     StatusInProgress,
		Record:     forms.NewRecord(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := m.store.Save(ctx, session); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "no se pudo crear la sesión", err)
	}
	return session, nil
}

// Get returns the current session snapshot.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.load(ctx, id)
}

// SetFields applies scalar field edits and clears their stale errors, so
// a correction is reflected immediately instead of waiting for the next
// validation pass.
func (m *Manager) SetFields(ctx context.Context, id string, values map[string]string) (*Session, error) {
	mu := m.lock(id)
	mu.Lock()
	defer mu.Unlock()

	session, schema, err := m.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}
	for name := range values {
		field, ok := schema.FieldByName(name)
		if !ok {
			return nil, apperr.New(apperr.KindBadRequest, "campo desconocido: "+name)
		}
		if field.Kind == forms.KindFiles {
			return nil, apperr.New(apperr.KindBadRequest, "el campo "+name+" solo acepta archivos")
		}
	}
	for name, value := range values {
		session.Record.Set(name, value)
		delete(session.Errors, name)
	}
	return m.save(ctx, session)
}

// AttachFile records an uploaded file against a file-kind field.
func (m *Manager) AttachFile(ctx context.Context, id, fieldName string, ref forms.FileRef) (*Session, error) {
	mu := m.lock(id)
	mu.Lock()
	defer mu.Unlock()

	session, schema, err := m.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}
	field, ok := schema.FieldByName(fieldName)
	if !ok {
		return nil, apperr.New(apperr.KindBadRequest, "campo desconocido: "+fieldName)
	}
	if field.Kind != forms.KindFiles {
		return nil, apperr.New(apperr.KindBadRequest, "el campo "+fieldName+" no acepta archivos")
	}
	session.Record.AddFile(fieldName, ref)
	delete(session.Errors, fieldName)
	return m.save(ctx, session)
}

// Next validates the current step and advances on success. On failure the
// session stays on its step with the messages in Errors.
func (m *Manager) Next(ctx context.Context, id string) (*Session, error) {
	mu := m.lock(id)
	mu.Lock()
	defer mu.Unlock()

	session, schema, err := m.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Step >= session.TotalSteps {
		return nil, apperr.New(apperr.KindBadRequest, "no hay más pasos: el último paso se envía con submit")
	}
	if errs := forms.ValidateStep(schema, session.Step, session.Record); !errs.Empty() {
		session.Errors = errs
		return m.save(ctx, session)
	}
	session.Errors = nil
	session.Step++
	return m.save(ctx, session)
}

// Back moves to the previous step unconditionally; entered values are
// kept and no validation runs. On step 1 it is a no-op.
func (m *Manager) Back(ctx context.Context, id string) (*Session, error) {
	mu := m.lock(id)
	mu.Lock()
	defer mu.Unlock()

	session, _, err := m.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Step > 1 {
		session.Step--
		session.Errors = nil
	}
	return m.save(ctx, session)
}

// Submit validates the final step and runs the submission pipeline. While
// the upstream call is in flight the session is marked submitting and
// rejects every other transition. On upstream failure the session rolls
// back to the final step with SubmitError set, so the visitor can retry.
func (m *Manager) Submit(ctx context.Context, id string) (*Session, error) {
	mu := m.lock(id)
	mu.Lock()

	session, schema, err := m.loadActive(ctx, id)
	if err != nil {
		mu.Unlock()
		return nil, err
	}
	if session.Step != session.TotalSteps {
		mu.Unlock()
		return nil, apperr.New(apperr.KindBadRequest, "la sesión no está en el último paso")
	}
	if errs := forms.ValidateStep(schema, session.Step, session.Record); !errs.Empty() {
		session.Errors = errs
		out, saveErr := m.save(ctx, session)
		mu.Unlock()
		if saveErr != nil {
			return nil, saveErr
		}
		return out, nil
	}
	session.Errors = nil
	session.SubmitError = ""
	session.Status = StatusSubmitting
	record := session.Record
	if _, err := m.save(ctx, session); err != nil {
		mu.Unlock()
		return nil, err
	}
	// The lock is released for the duration of the upstream call so that
	// concurrent transitions are rejected by the submitting status
	// instead of queueing behind it.
	mu.Unlock()

	contactID, submitErr := m.submitter.Submit(ctx, schema, record)

	mu.Lock()
	defer mu.Unlock()
	session, err = m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if submitErr != nil {
		session.Status = StatusInProgress
		session.Step = session.TotalSteps
		session.SubmitError = submitMessage(submitErr)
		if _, saveErr := m.save(ctx, session); saveErr != nil {
			return nil, saveErr
		}
		return session, submitErr
	}
	session.Status = StatusSubmitted
	session.ContactID = contactID
	session.SubmitError = ""
	session.Record = nil
	return m.save(ctx, session)
}

func (m *Manager) load(ctx context.Context, id string) (*Session, error) {
	session, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "sesión no encontrada o expirada")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "no se pudo cargar la sesión", err)
	}
	return session, nil
}

// loadActive loads a session that can still accept transitions.
func (m *Manager) loadActive(ctx context.Context, id string) (*Session, *forms.Schema, error) {
	session, err := m.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	switch session.Status {
	case StatusSubmitting:
		return nil, nil, apperr.New(apperr.KindConflict, "hay un envío en curso")
	case StatusSubmitted:
		return nil, nil, apperr.New(apperr.KindConflict, "el formulario ya fue enviado")
	}
	schema, ok := forms.Lookup(session.Form)
	if !ok {
		return nil, nil, apperr.New(apperr.KindInternal, "formulario desconocido: "+session.Form)
	}
	return session, schema, nil
}

func (m *Manager) save(ctx context.Context, session *Session) (*Session, error) {
	session.UpdatedAt = time.Now().UTC()
	if err := m.store.Save(ctx, session); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "no se pudo guardar la sesión", err)
	}
	return session, nil
}

func submitMessage(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "No pudimos enviar el formulario. Intentá nuevamente en unos minutos."
}
