package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ride-hail-service/internal/api/http/handlers"
	"github.com/spec-kit/ride-hail-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Captains       *handlers.CaptainsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	users := app.Group("/users")
	users.Post("/register", cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)

	usersProtected := users.Group("", cfg.AuthMiddleware.Handle, auth.RequireUser())
	usersProtected.Get("/profile", cfg.Users.Profile)
	usersProtected.Get("/logout", cfg.Users.Logout)

	captains := app.Group("/captains")
	captains.Post("/register", cfg.Captains.Register)
	captains.Post("/login", cfg.Captains.Login)

	captainsProtected := captains.Group("", cfg.AuthMiddleware.Handle, auth.RequireCaptain())
	captainsProtected.Get("/profile", cfg.Captains.Profile)
	captainsProtected.Get("/logout", cfg.Captains.Logout)
	captainsProtected.Patch("/status", cfg.Captains.UpdateStatus)
}
