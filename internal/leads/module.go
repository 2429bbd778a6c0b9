// Package leads provides the lead capture bounded context module.
// This file defines the module that encapsulates all setup and route registration.
package leads

import (
	"landing_leads_backend/internal/crm"
	"landing_leads_backend/internal/events"
	apphttp "landing_leads_backend/internal/http"
	"landing_leads_backend/internal/leads/handler"
	"landing_leads_backend/internal/storage"
	"landing_leads_backend/internal/wizard"
	"landing_leads_backend/platform/config"
	"landing_leads_backend/platform/logger"
	"landing_leads_backend/platform/validator"
)

// ModuleConfig combines the config slices the module needs.
type ModuleConfig interface {
	config.CRMConfig
	GetMinioBucketCVUploads() string
}

// Module is the lead capture bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *Service
	wizard  *wizard.Manager
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(cfg ModuleConfig, store wizard.Store, storageSvc storage.Service, bus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	fieldIDs, err := crm.LoadFieldIDs(cfg.GetCRMFieldIDsFile())
	if err != nil {
		return nil, err
	}

	client := crm.NewClient(cfg, log)
	service := NewService(NewNormalizer(fieldIDs), client, storageSvc, cfg.GetMinioBucketCVUploads(), bus, log)
	manager := wizard.NewManager(store, service, log)
	h := handler.New(service, manager, val)

	return &Module{
		handler: h,
		service: service,
		wizard:  manager,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the submission service for external use.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts the public capture routes on the router context.
// Both surfaces are unauthenticated and share the submission rate limit.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leadsGroup := ctx.V1.Group("/leads", ctx.SubmitLimiter.RateLimit())
	m.handler.RegisterRoutes(leadsGroup)

	wizardGroup := ctx.V1.Group("/wizard")
	m.handler.RegisterWizardRoutes(wizardGroup, ctx.SubmitLimiter.RateLimit())
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
