package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ride-hail-service/internal/api/dto"
	"github.com/spec-kit/ride-hail-service/internal/auth"
	"github.com/spec-kit/ride-hail-service/internal/config"
	"github.com/spec-kit/ride-hail-service/internal/service"
	apperrors "github.com/spec-kit/ride-hail-service/pkg/util"
)

// UsersHandler exposes auth endpoints for riders.
type UsersHandler struct {
	auth    *service.AuthService
	authCfg config.AuthConfig
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, authCfg config.AuthConfig) *UsersHandler {
	return &UsersHandler{auth: authService, authCfg: authCfg}
}

// Register handles POST /users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.RegisterUser(c.UserContext(), service.RegisterUserInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	setAuthCookie(c, h.authCfg.CookieName, token, h.authCfg.TokenTTL())
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": user,
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	setAuthCookie(c, h.authCfg.CookieName, token, h.authCfg.TokenTTL())
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": user,
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Profile handles GET /users/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"user": principal.User},
	})
}

// Logout handles GET /users/logout: revokes the presented token and clears
// the cookie. A request that reached this point holds a token the gate
// accepted; its absence still resolves to a 401, never a crash.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
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
