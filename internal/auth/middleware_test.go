package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ride-hail-service/internal/domain"
	apperrors "github.com/spec-kit/ride-hail-service/pkg/util"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (s *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmailWithPassword(_ context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type stubCaptainRepo struct {
	captains map[string]*domain.Captain
}

func (s *stubCaptainRepo) Create(_ context.Context, captain *domain.Captain) error {
	s.captains[captain.ID] = captain
	return nil
}

func (s *stubCaptainRepo) UpdateStatus(_ context.Context, id string, status domain.CaptainStatus) error {
	captain, ok := s.captains[id]
	if !ok {
		return pgx.ErrNoRows
	}
	captain.Status = status
	return nil
}

func (s *stubCaptainRepo) GetByID(_ context.Context, id string) (*domain.Captain, error) {
	captain, ok := s.captains[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return captain, nil
}

func (s *stubCaptainRepo) GetByEmailWithPassword(_ context.Context, email string) (*domain.Captain, error) {
	for _, captain := range s.captains {
		if captain.Email == email {
			return captain, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type stubBlacklist struct {
	mu      sync.Mutex
	revoked map[string]struct{}
}

func newStubBlacklist() *stubBlacklist {
	return &stubBlacklist{revoked: map[string]struct{}{}}
}

func (s *stubBlacklist) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = struct{}{}
	return nil
}

func (s *stubBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[token]
	return ok, nil
}

func newGateApp(t *testing.T, tokens *TokenManager, blacklist *stubBlacklist) (*fiber.App, *stubUserRepo, *stubCaptainRepo) {
	t.Helper()

	users := &stubUserRepo{users: map[string]*domain.User{}}
	captains := &stubCaptainRepo{captains: map[string]*domain.Captain{}}
	gate := NewAuthMiddleware(tokens, blacklist, users, captains, "token")

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Code})
		},
	})
	app.Get("/whoami", gate.Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"actor_id": principal.ActorID(), "role": principal.Role})
	})
	return app, users, captains
}

func doRequest(t *testing.T, app *fiber.App, build func(*http.Request)) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if build != nil {
		build(req)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGateRejectsMissingToken(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	app, _, _ := newGateApp(t, tokens, newStubBlacklist())

	resp := doRequest(t, app, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGateAcceptsCookieToken(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	app, users, _ := newGateApp(t, tokens, newStubBlacklist())
	users.users["u1"] = &domain.User{ID: "u1", Email: "a@x.com"}

	token, _, err := tokens.Issue("u1", domain.RoleUser)
	require.NoError(t, err)

	resp := doRequest(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGateAcceptsBearerToken(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	app, _, captains := newGateApp(t, tokens, newStubBlacklist())
	captains.captains["c1"] = &domain.Captain{ID: "c1", Email: "c@x.com"}

	token, _, err := tokens.Issue("c1", domain.RoleCaptain)
	require.NoError(t, err)

	resp := doRequest(t, app, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGateCookieTakesPrecedenceOverHeader(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	app, users, _ := newGateApp(t, tokens, newStubBlacklist())
	users.users["u1"] = &domain.User{ID: "u1", Email: "a@x.com"}

	token, _, err := tokens.Issue("u1", domain.RoleUser)
	require.NoError(t, err)

	resp := doRequest(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		req.Header.Set("Authorization", "Bearer garbage")
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGateRejectsRevokedToken(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	blacklist := newStubBlacklist()
	app, users, _ := newGateApp(t, tokens, blacklist)
	users.users["u1"] = &domain.User{ID: "u1", Email: "a@x.com"}

	token, _, err := tokens.Issue("u1", domain.RoleUser)
	require.NoError(t, err)
	require.NoError(t, blacklist.Revoke(context.Background(), token))

	resp := doRequest(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGateRejectsExpiredToken(t *testing.T) {
	expired := NewTokenManager("test-secret", -time.Minute)
	fresh := NewTokenManager("test-secret", time.Hour)
	app, users, _ := newGateApp(t, fresh, newStubBlacklist())
	users.users["u1"] = &domain.User{ID: "u1", Email: "a@x.com"}

	token, _, err := expired.Issue("u1", domain.RoleUser)
	require.NoError(t, err)

	resp := doRequest(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGateRejectsGarbageToken(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	app, _, _ := newGateApp(t, tokens, newStubBlacklist())

	resp := doRequest(t, app, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer not.a.token")
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGateRejectsUnknownActor(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	app, _, _ := newGateApp(t, tokens, newStubBlacklist())

	token, _, err := tokens.Issue("ghost", domain.RoleUser)
	require.NoError(t, err)

	resp := doRequest(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExtractTokenHeaderShapes(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		token, ok := ExtractToken(c, "token")
		return c.JSON(fiber.Map{"token": token, "ok": ok})
	})

	cases := []struct {
		header string
		ok     bool
	}{
		{"", false},
		{"Bearer", false},
		{"Bearer ", false},
		{"Basic abc", false},
		{"Bearer abc", true},
		{"bearer abc", true},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)

		var body struct {
			Token string `json:"token"`
			OK    bool   `json:"ok"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, tc.ok, body.OK, "header %q", tc.header)
		if tc.ok {
			assert.Equal(t, "abc", body.Token)
		}
	}
}
