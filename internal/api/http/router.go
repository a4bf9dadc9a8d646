package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storage-service/internal/api/http/handlers"
	"github.com/spec-kit/storage-service/internal/auth"
	"github.com/spec-kit/storage-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Token          *handlers.TokenHandler
	Searches       *handlers.SearchesHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The auth gate runs before every
// record route; read endpoints accept read tokens, mutations need write.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/token", cfg.Token.Issue)

	searches := app.Group("/searches", cfg.AuthMiddleware.Handle)
	searches.Get("", auth.RequireScope(domain.ScopeRead), cfg.Searches.List)
	searches.Post("", auth.RequireScope(domain.ScopeWrite), cfg.Searches.Add)
	searches.Delete("", auth.RequireScope(domain.ScopeWrite), cfg.Searches.DeleteByFilter)
	searches.Put("/:id", auth.RequireScope(domain.ScopeWrite), cfg.Searches.Replace)
	searches.Delete("/:id", auth.RequireScope(domain.ScopeWrite), cfg.Searches.DeleteByID)

	stats := app.Group("/stats", cfg.AuthMiddleware.Handle)
	stats.Get("", auth.RequireScope(domain.ScopeRead), cfg.Stats.List)
	stats.Post("", auth.RequireScope(domain.ScopeWrite), cfg.Stats.Add)
	stats.Delete("", auth.RequireScope(domain.ScopeWrite), cfg.Stats.DeleteByFilter)
	stats.Put("/:id", auth.RequireScope(domain.ScopeWrite), cfg.Stats.Replace)
	stats.Delete("/:id", auth.RequireScope(domain.ScopeWrite), cfg.Stats.DeleteByID)
}
