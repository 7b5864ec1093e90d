package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ride-hail-service/internal/domain"
	"github.com/spec-kit/ride-hail-service/internal/repository"
	apperrors "github.com/spec-kit/ride-hail-service/pkg/util"
)

const (
	principalKey = "auth_principal"
	tokenKey     = "auth_token"
)

// Principal represents the authenticated caller.
type Principal struct {
	Role    domain.Role
	User    *domain.User
	Captain *domain.Captain
}

// ActorID returns the id of whichever actor kind is present.
func (p *Principal) ActorID() string {
	switch p.Role {
	case domain.RoleUser:
		if p.User != nil {
			return p.User.ID
		}
	case domain.RoleCaptain:
		if p.Captain != nil {
			return p.Captain.ID
		}
	}
	return ""
}

// AuthMiddleware is the authentication gate: it extracts the bearer token,
// rejects revoked or invalid tokens, and attaches the decoded identity.
type AuthMiddleware struct {
	tokens     *TokenManager
	blacklist  repository.TokenBlacklistRepository
	users      repository.UserRepository
	captains   repository.CaptainRepository
	cookieName string
}

// NewAuthMiddleware constructs the gate.
func NewAuthMiddleware(
	tokens *TokenManager,
	blacklist repository.TokenBlacklistRepository,
	users repository.UserRepository,
	captains repository.CaptainRepository,
	cookieName string,
) *AuthMiddleware {
	if cookieName == "" {
		cookieName = "token"
	}
	return &AuthMiddleware{
		tokens:     tokens,
		blacklist:  blacklist,
		users:      users,
		captains:   captains,
		cookieName: cookieName,
	}
}

// ExtractToken reads the bearer token from the token cookie first and the
// Authorization header second. Absence is reported, never dereferenced.
func ExtractToken(c *fiber.Ctx, cookieName string) (string, bool) {
	if token := c.Cookies(cookieName); token != "" {
		return token, true
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Handle enforces authentication for protected routes. Every failure path
// resolves to a 401; nothing persists across requests beyond the shared
// blacklist lookup.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := ExtractToken(c, m.cookieName)
	if !ok {
		return apperrors.NewUnauthorized("missing authentication token")
	}

	revoked, err := m.blacklist.IsRevoked(c.UserContext(), token)
	if err != nil {
		return apperrors.MapError(err)
	}
	if revoked {
		return apperrors.NewUnauthorized("token revoked")
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	principal := &Principal{Role: claims.Role}

	switch claims.Role {
	case domain.RoleUser:
		user, err := m.users.GetByID(c.UserContext(), claims.ActorID())
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewUnauthorized("user not found")
			}
			return apperrors.MapError(err)
		}
		principal.User = user
	case domain.RoleCaptain:
		captain, err := m.captains.GetByID(c.UserContext(), claims.ActorID())
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewUnauthorized("captain not found")
			}
			return apperrors.MapError(err)
		}
		principal.Captain = captain
	default:
		return apperrors.NewUnauthorized("unknown role")
	}

	c.Locals(principalKey, principal)
	c.Locals(tokenKey, token)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// TokenFromContext retrieves the raw bearer token the gate accepted.
func TokenFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(tokenKey)
	if val == nil {
		return "", false
	}
	token, ok := val.(string)
	return token, ok && token != ""
}
