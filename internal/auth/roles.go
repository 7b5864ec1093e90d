package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ride-hail-service/internal/domain"
	apperrors "github.com/spec-kit/ride-hail-service/pkg/util"
)

// RequireUser ensures the authenticated principal is a rider.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Role != domain.RoleUser || principal.User == nil {
			return apperrors.NewForbidden("user account required")
		}
		return c.Next()
	}
}

// RequireCaptain ensures the authenticated principal is a driver.
func RequireCaptain() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Role != domain.RoleCaptain || principal.Captain == nil {
			return apperrors.NewForbidden("captain account required")
		}
		return c.Next()
	}
}
