// Package indiamart provides the composition root for the IndiaMART
// Pull API integration.
package indiamart

import (
	apphttp "indiamart_bridge/internal/http"
	"indiamart_bridge/internal/indiamart/client"
	"indiamart_bridge/internal/indiamart/handler"
	"indiamart_bridge/internal/indiamart/repository"
	"indiamart_bridge/internal/indiamart/service"
	"indiamart_bridge/internal/leads"
	"indiamart_bridge/platform/config"
	"indiamart_bridge/platform/logger"
	"indiamart_bridge/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the IndiaMART bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the IndiaMART module with all its
// dependencies. notifier may be nil when alerting is disabled.
func NewModule(pool *pgxpool.Pool, leadStore *leads.Repository, notifier service.Notifier, cfg config.PullAPIConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	pullClient := client.New(cfg.GetIndiaMARTBaseURL(), log)
	svc := service.New(pullClient, leadStore, repo, repo, notifier, log)

	return &Module{
		handler: handler.New(svc, repo, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "indiamart"
}

// Service returns the fetch orchestrator for the scheduler worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts IndiaMART routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/indiamart")
	group.POST("/fetch", m.handler.HandleFetchLeads)
	group.POST("/test-connection", m.handler.HandleTestConnection)
	group.GET("/logs", m.handler.HandleListLogs)
	group.GET("/settings", m.handler.HandleGetSettings)
	group.PUT("/settings", m.handler.HandleUpdateSettings)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
