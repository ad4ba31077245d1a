package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/statuses", cfg.Admin.ListStatuses)
	protected.Get("/categories", cfg.Admin.ListCategories)
	protected.Get("/priorities", cfg.Admin.ListPriorities)
	protected.Get("/software", cfg.Admin.ListSoftware)

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/images/:imageId", cfg.Tickets.GetImage)
	tickets.Delete("/images/:imageId", cfg.Tickets.DeleteImage)
	tickets.Delete("/replies/:replyId", auth.RequireRoles(domain.RoleOperator, domain.RoleAdmin), cfg.Tickets.DeleteReply)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Patch("/:id/status", auth.RequireRoles(domain.RoleOperator, domain.RoleAdmin), cfg.Tickets.ChangeStatus)
	tickets.Post("/:id/replies", cfg.Tickets.AddReply)
	tickets.Post("/:id/images", cfg.Tickets.AddImages)

	admin := protected.Group("/admin", auth.RequireRoles(domain.RoleAdmin))
	admin.Post("/statuses", cfg.Admin.CreateStatus)
	admin.Put("/statuses/:id", cfg.Admin.UpdateStatus)
	admin.Delete("/statuses/:id", cfg.Admin.DeleteStatus)
	admin.Post("/categories", cfg.Admin.CreateCategory)
	admin.Put("/categories/:id", cfg.Admin.UpdateCategory)
	admin.Delete("/categories/:id", cfg.Admin.DeleteCategory)
	admin.Post("/priorities", cfg.Admin.CreatePriority)
	admin.Put("/priorities/:id", cfg.Admin.UpdatePriority)
	admin.Delete("/priorities/:id", cfg.Admin.DeletePriority)
	admin.Post("/software", cfg.Admin.CreateSoftware)
	admin.Put("/software/:id", cfg.Admin.UpdateSoftware)
	admin.Delete("/software/:id", cfg.Admin.DeleteSoftware)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Get("/users/:id", cfg.Admin.GetUser)
	admin.Put("/users/:id/roles", cfg.Admin.SetUserRoles)
	admin.Put("/users/:id/enabled", cfg.Admin.SetUserEnabled)
	admin.Delete("/users/:id", cfg.Admin.DeleteUser)
}
