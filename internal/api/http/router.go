package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rag-chat-service/internal/api/http/handlers"
	"github.com/spec-kit/rag-chat-service/internal/auth"
	"github.com/spec-kit/rag-chat-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Tenants   *handlers.TenantsHandler
	Users     *handlers.UsersHandler
	Chats     *handlers.ChatsHandler
	Sessions  *handlers.SessionsHandler
	Documents *handlers.DocumentsHandler
	Identity  *auth.IdentityMiddleware
}

// RegisterRoutes wires HTTP routes. The identity middleware runs on every
// /api/v1 request and attaches identity best-effort; the per-group guards
// below make the access decisions.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Counters)

	api := app.Group("/api/v1", cfg.Identity.Handle)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Auth.Me)

	// Tenant lifecycle is platform administration.
	tenants := api.Group("/tenants")
	tenants.Get("/", auth.RequireRole(domain.RoleSuperadmin), cfg.Tenants.List)
	tenants.Post("/", auth.RequireRole(domain.RoleSuperadmin), cfg.Tenants.Create)
	tenants.Delete("/:tenantId", auth.RequireRole(domain.RoleSuperadmin), cfg.Tenants.Delete)

	// Tenant admins may inspect and rename their own tenant.
	tenants.Get("/:tenantId", auth.RequireRole(domain.RoleTenantAdmin), auth.RequireTenantAccess("tenantId"), cfg.Tenants.Get)
	tenants.Put("/:tenantId", auth.RequireRole(domain.RoleTenantAdmin), auth.RequireTenantAccess("tenantId"), cfg.Tenants.Update)

	users := tenants.Group("/:tenantId/users", auth.RequireRole(domain.RoleTenantAdmin), auth.RequireTenantAccess("tenantId"))
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/:userId", cfg.Users.Get)
	users.Put("/:userId", cfg.Users.Update)
	users.Delete("/:userId", cfg.Users.Delete)

	chats := api.Group("/chats", auth.RequireRole(domain.RoleUser))
	chats.Get("/", cfg.Chats.List)
	chats.Post("/", auth.RequireRole(domain.RoleTenantAdmin), cfg.Chats.Create)
	chats.Get("/:chatId", cfg.Chats.Get)
	chats.Put("/:chatId", auth.RequireRole(domain.RoleTenantAdmin), cfg.Chats.Update)
	chats.Delete("/:chatId", auth.RequireRole(domain.RoleTenantAdmin), cfg.Chats.Delete)
	chats.Get("/:chatId/sessions", cfg.Sessions.List)

	sessions := api.Group("/sessions", auth.RequireRole(domain.RoleUser))
	sessions.Post("/", cfg.Sessions.Create)
	sessions.Get("/:sessionId", cfg.Sessions.Get)
	sessions.Delete("/:sessionId", cfg.Sessions.Delete)
	sessions.Get("/:sessionId/messages", cfg.Sessions.ListMessages)
	sessions.Post("/:sessionId/messages", cfg.Sessions.SendMessage)
	sessions.Post("/:sessionId/stream", cfg.Sessions.Stream)

	documents := api.Group("/documents", auth.RequireRole(domain.RoleUser))
	documents.Get("/", cfg.Documents.List)
	documents.Post("/", auth.RequireRole(domain.RoleTenantAdmin), cfg.Documents.Register)
	documents.Get("/uploads/:uploadId", cfg.Documents.UploadStatus)
	documents.Get("/:documentId", cfg.Documents.Get)
	documents.Patch("/:documentId/status", auth.RequireRole(domain.RoleTenantAdmin), cfg.Documents.UpdateStatus)
	documents.Delete("/:documentId", auth.RequireRole(domain.RoleTenantAdmin), cfg.Documents.Delete)
}
