package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ride-hail-service/internal/api/dto"
	"github.com/spec-kit/ride-hail-service/internal/auth"
	"github.com/spec-kit/ride-hail-service/internal/config"
	"github.com/spec-kit/ride-hail-service/internal/domain"
	"github.com/spec-kit/ride-hail-service/internal/service"
	apperrors "github.com/spec-kit/ride-hail-service/pkg/util"
)

// CaptainsHandler exposes auth endpoints for drivers.
type CaptainsHandler struct {
	auth    *service.AuthService
	authCfg config.AuthConfig
}

// NewCaptainsHandler constructs handler.
func NewCaptainsHandler(authService *service.AuthService, authCfg config.AuthConfig) *CaptainsHandler {
	return &CaptainsHandler{auth: authService, authCfg: authCfg}
}

// Register handles POST /captains/register.
func (h *CaptainsHandler) Register(c *fiber.Ctx) error {
	var req dto.CaptainRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	captain, token, exp, err := h.auth.RegisterCaptain(c.UserContext(), service.RegisterCaptainInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Password:  req.Password,
		Vehicle: domain.Vehicle{
			Color:    req.Vehicle.Color,
			Plate:    req.Vehicle.Plate,
			Capacity: req.Vehicle.Capacity,
			Type:     domain.VehicleType(req.Vehicle.Type),
		},
	})
	if err != nil {
		return err
	}

	setAuthCookie(c, h.authCfg.CookieName, token, h.authCfg.TokenTTL())
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"captain": captain,
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /captains/login.
func (h *CaptainsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	captain, token, exp, err := h.auth.LoginCaptain(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	setAuthCookie(c, h.authCfg.CookieName, token, h.authCfg.TokenTTL())
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"captain": captain,
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Profile handles GET /captains/profile.
func (h *CaptainsHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Captain == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"captain": principal.Captain},
	})
}

// UpdateStatus handles PATCH /captains/status.
func (h *CaptainsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Captain == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.CaptainStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	captain, err := h.auth.UpdateCaptainStatus(c.UserContext(), principal.Captain.ID, domain.CaptainStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"captain": captain},
	})
}

// Logout handles GET /captains/logout.
func (h *CaptainsHandler) Logout(c *fiber.Ctx) error {
	token, ok := auth.TokenFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing authentication token")
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	if err := h.auth.Logout(c.UserContext(), token, principal.ActorID(), principal.Role); err != nil {
		return err
	}

	clearAuthCookie(c, h.authCfg.CookieName)
	return c.JSON(fiber.Map{"message": "Logout done"})
}
