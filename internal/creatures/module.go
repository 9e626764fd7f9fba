// Package creatures provides the creature collection bounded context module.
package creatures

import (
	"creaturedex/internal/creatures/handler"
	"creaturedex/internal/creatures/repository"
	"creaturedex/internal/creatures/service"
	apphttp "creaturedex/internal/http"
	"creaturedex/platform/logger"
	"creaturedex/platform/validator"
)

// Module is the creature bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the creature module. scheduler may be
// nil when no Redis is configured.
func NewModule(repo repository.Repository, scheduler service.ReseedScheduler, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, scheduler, log)
	return &Module{
		handler: handler.New(svc, val),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "creatures"
}

// RegisterRoutes mounts creature routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.API.GET("/creatures", m.handler.List)
	ctx.API.GET("/creatures/:id", m.handler.GetByID)
	ctx.API.GET("/creatures/name/:name", m.handler.GetByName)
	ctx.API.GET("/creatures/exists/:name", m.handler.Exists)
	ctx.API.POST("/creatures", m.handler.Create)
	ctx.API.DELETE("/creatures/:id", m.handler.Delete)
	ctx.API.GET("/stats", m.handler.Stats)

	ctx.Admin.POST("/reseed", m.handler.Reseed)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
