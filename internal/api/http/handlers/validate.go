package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/ride-hail-service/pkg/util"
)

var validate = validator.New()

// validateStruct runs validator tags and reports every failing field.
func validateStruct(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperrors.NewValidationError("invalid request payload", nil)
	}

	details := make(map[string]any, len(fieldErrors))
	for _, fe := range fieldErrors {
		details[fieldName(fe)] = failureMessage(fe)
	}
	return apperrors.NewValidationError("invalid request payload", details)
}

func fieldName(fe validator.FieldError) string {
	// strip the root struct name from e.g. "CaptainRegisterRequest.Vehicle.Plate"
	parts := strings.SplitN(fe.Namespace(), ".", 2)
	if len(parts) == 2 {
		return strings.ToLower(parts[1])
	}
	return strings.ToLower(fe.Field())
}

func failureMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// setAuthCookie attaches the HTTP-only token cookie with the token's
// lifetime as max-age.
func setAuthCookie(c *fiber.Ctx, name, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		HTTPOnly: true,
		MaxAge:   int(ttl.Seconds()),
		Path:     "/",
	})
}

// clearAuthCookie instructs the client to discard its stored token.
func clearAuthCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		HTTPOnly: true,
		MaxAge:   -1,
		Path:     "/",
		Expires:  time.Unix(0, 0),
	})
}
