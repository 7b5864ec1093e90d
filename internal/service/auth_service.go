package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ride-hail-service/internal/auth"
	"github.com/spec-kit/ride-hail-service/internal/config"
	"github.com/spec-kit/ride-hail-service/internal/domain"
	"github.com/spec-kit/ride-hail-service/internal/events"
	"github.com/spec-kit/ride-hail-service/internal/repository"
	apperrors "github.com/spec-kit/ride-hail-service/pkg/util"
)

// AuthService coordinates registration, login and logout for both actor
// kinds. The credential and token core is shared; only field mapping
// differs per kind.
type AuthService struct {
	users      repository.UserRepository
	captains   repository.CaptainRepository
	blacklist  repository.TokenBlacklistRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo      repository.UserRepository
	CaptainRepo   repository.CaptainRepository
	BlacklistRepo repository.TokenBlacklistRepository
	Dispatcher    events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		captains:   deps.CaptainRepo,
		blacklist:  deps.BlacklistRepo,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterUserInput carries validated registration fields for a rider.
type RegisterUserInput struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
}

// RegisterCaptainInput carries validated registration fields for a driver.
type RegisterCaptainInput struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
	Vehicle   domain.Vehicle
}

// RegisterUser creates a rider account and issues its first token.
// Email uniqueness is enforced by the store and surfaces as a
// duplicate-key error.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, string, time.Time, error) {
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Firstname:    input.Firstname,
		Lastname:     input.Lastname,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Issue(user.ID, domain.RoleUser)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, domain.RoleUser,
		events.RegisteredPayload{Email: user.Email, Firstname: user.Firstname})
	return user, token, exp, nil
}

// RegisterCaptain creates a driver account and issues its first token.
// Email and plate uniqueness are enforced by the store.
func (s *AuthService) RegisterCaptain(ctx context.Context, input RegisterCaptainInput) (*domain.Captain, string, time.Time, error) {
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	captain := &domain.Captain{
		Firstname:    input.Firstname,
		Lastname:     input.Lastname,
		Email:        input.Email,
		PasswordHash: hash,
		Status:       domain.CaptainStatusUnavailable,
		Vehicle:      input.Vehicle,
	}
	if err := s.captains.Create(ctx, captain); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Issue(captain.ID, domain.RoleCaptain)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventCaptainRegistered, captain.ID, domain.RoleCaptain,
		events.RegisteredPayload{Email: captain.Email, Firstname: captain.Firstname})
	return captain, token, exp, nil
}

// LoginUser authenticates a rider by email and password.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmailWithPassword(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, loginLookupError(err)
	}
	if err := s.checkCredential(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Issue(user.ID, domain.RoleUser)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventActorLoggedIn, user.ID, domain.RoleUser,
		events.LoggedInPayload{Email: user.Email})
	return user, token, exp, nil
}

// LoginCaptain authenticates a driver by email and password.
func (s *AuthService) LoginCaptain(ctx context.Context, email, password string) (*domain.Captain, string, time.Time, error) {
	captain, err := s.captains.GetByEmailWithPassword(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, loginLookupError(err)
	}
	if err := s.checkCredential(captain.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Issue(captain.ID, domain.RoleCaptain)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventActorLoggedIn, captain.ID, domain.RoleCaptain,
		events.LoggedInPayload{Email: captain.Email})
	return captain, token, exp, nil
}

// Logout revokes the presented token. Revoking an already revoked or
// already expired token is harmless.
func (s *AuthService) Logout(ctx context.Context, token string, actorID string, role domain.Role) error {
	if err := s.blacklist.Revoke(ctx, token); err != nil {
		return err
	}
	s.publish(ctx, events.EventActorLoggedOut, actorID, role, events.LoggedOutPayload{})
	return nil
}

// UpdateCaptainStatus switches a captain between available and unavailable.
func (s *AuthService) UpdateCaptainStatus(ctx context.Context, captainID string, status domain.CaptainStatus) (*domain.Captain, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("status must be available or unavailable", map[string]any{"status": status})
	}
	if err := s.captains.UpdateStatus(ctx, captainID, status); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("captain", nil)
		}
		return nil, err
	}
	return s.captains.GetByID(ctx, captainID)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// checkCredential verifies a password against the stored hash. Mismatch
// returns the same undifferentiated error as an unknown email.
func (s *AuthService) checkCredential(hash, password string) error {
	ok, err := auth.VerifyPassword(hash, password)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !ok {
		return apperrors.NewInvalidCredentials()
	}
	return nil
}

// loginLookupError hides whether the email exists.
func loginLookupError(err error) error {
	if err == pgx.ErrNoRows {
		return apperrors.NewInvalidCredentials()
	}
	return err
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, actorID string, role domain.Role, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Role:      role,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
