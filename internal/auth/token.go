package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/ride-hail-service/internal/domain"
)

var (
	// ErrTokenExpired indicates the token's expiry instant has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid indicates a bad signature or malformed structure.
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenManager issues and verifies the signed bearer tokens. The signing
// secret is process-wide configuration handed in at construction.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager. A non-positive ttl falls back to
// the 7-day default.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the token lifetime. Revocation records must live at least
// this long.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Claims describes the JWT payload: actor identity plus role tag.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// ActorID returns the subject the token was issued for.
func (c *Claims) ActorID() string {
	return c.Subject
}

// Issue builds and signs a token for the actor. Expiry is fixed at
// issuance and never extended by use.
func (tm *TokenManager) Issue(actorID string, role domain.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates the signature and expiry and returns the claims.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Join(ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if !claims.Role.Valid() || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
