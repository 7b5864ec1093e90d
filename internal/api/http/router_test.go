package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ride-hail-service/internal/api/http/handlers"
	"github.com/spec-kit/ride-hail-service/internal/auth"
	"github.com/spec-kit/ride-hail-service/internal/config"
	"github.com/spec-kit/ride-hail-service/internal/domain"
	"github.com/spec-kit/ride-hail-service/internal/events"
	"github.com/spec-kit/ride-hail-service/internal/observability"
	"github.com/spec-kit/ride-hail-service/internal/persistence"
	"github.com/spec-kit/ride-hail-service/internal/service"
	apperrors "github.com/spec-kit/ride-hail-service/pkg/util"
)

type memUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return apperrors.NewDuplicateKey("email")
		}
	}
	m.seq++
	user.ID = "user-" + strconv.Itoa(m.seq)
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (m *memUserRepo) GetByEmailWithPassword(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memCaptainRepo struct {
	seq      int
	captains map[string]*domain.Captain
}

func (m *memCaptainRepo) Create(_ context.Context, captain *domain.Captain) error {
	for _, existing := range m.captains {
		if existing.Email == captain.Email {
			return apperrors.NewDuplicateKey("email")
		}
		if existing.Vehicle.Plate == captain.Vehicle.Plate {
			return apperrors.NewDuplicateKey("plate")
		}
	}
	m.seq++
	captain.ID = "captain-" + strconv.Itoa(m.seq)
	m.captains[captain.ID] = captain
	return nil
}

func (m *memCaptainRepo) UpdateStatus(_ context.Context, id string, status domain.CaptainStatus) error {
	captain, ok := m.captains[id]
	if !ok {
		return pgx.ErrNoRows
	}
	captain.Status = status
	return nil
}

func (m *memCaptainRepo) GetByID(_ context.Context, id string) (*domain.Captain, error) {
	captain, ok := m.captains[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return captain, nil
}

func (m *memCaptainRepo) GetByEmailWithPassword(_ context.Context, email string) (*domain.Captain, error) {
	for _, captain := range m.captains {
		if captain.Email == email {
			return captain, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memBlacklist struct {
	mu      sync.Mutex
	revoked map[string]struct{}
}

func (m *memBlacklist) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[token] = struct{}{}
	return nil
}

func (m *memBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[token]
	return ok, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:    "test-secret",
			TokenTTLDays: 7,
			BcryptCost:   4,
			CookieName:   "token",
		},
	}

	userRepo := &memUserRepo{users: map[string]*domain.User{}}
	captainRepo := &memCaptainRepo{captains: map[string]*domain.Captain{}}
	blacklist := &memBlacklist{revoked: map[string]struct{}{}}

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:      userRepo,
		CaptainRepo:   captainRepo,
		BlacklistRepo: blacklist,
		Dispatcher:    events.NewInMemoryDispatcher(),
	})
	gate := auth.NewAuthMiddleware(authService.TokenManager(), blacklist, userRepo, captainRepo, cfg.Auth.CookieName)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Users:          handlers.NewUsersHandler(authService, cfg.Auth),
		Captains:       handlers.NewCaptainsHandler(authService, cfg.Auth),
		AuthMiddleware: gate,
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func registerUserRequest(email string) map[string]any {
	return map[string]any{
		"firstname": "Alex",
		"lastname":  "Stone",
		"email":     email,
		"password":  "secret1",
	}
}

func registerCaptainRequest(email, plate string) map[string]any {
	return map[string]any{
		"firstname": "Jamie",
		"email":     email,
		"password":  "secret1",
		"vehicle": map[string]any{
			"color":        "black",
			"plate":        plate,
			"capacity":     4,
			"vehicle_type": "car",
		},
	}
}

func extractToken(t *testing.T, body map[string]any) string {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "body: %v", body)
	authBlock, ok := data["auth"].(map[string]any)
	require.True(t, ok)
	token, ok := authBlock["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func TestUserRegisterLoginLogoutScenario(t *testing.T) {
	app := newTestApp(t)

	// register -> 201 with token and HTTP-only cookie
	resp := postJSON(t, app, "/users/register", registerUserRequest("a@x.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := extractToken(t, decodeBody(t, resp))

	var tokenCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			tokenCookie = cookie
		}
	}
	require.NotNil(t, tokenCookie)
	assert.True(t, tokenCookie.HttpOnly)
	assert.Equal(t, token, tokenCookie.Value)
	assert.Equal(t, 7*24*3600, tokenCookie.MaxAge)

	// profile resolves with the bearer token
	req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	profileResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, profileResp.StatusCode)

	// logout revokes the token and clears the cookie
	req = httptest.NewRequest(http.MethodGet, "/users/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	logoutResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, logoutResp.StatusCode)

	var cleared *http.Cookie
	for _, cookie := range logoutResp.Cookies() {
		if cookie.Name == "token" {
			cleared = cookie
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	// the same token is rejected afterwards, before its natural expiry
	req = httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rejectedResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rejectedResp.StatusCode)
}

func TestLogoutWithoutTokenIsUnauthorized(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/users/logout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/users/register", registerUserRequest("a@x.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/users/register", registerUserRequest("a@x.com"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	errBlock := body["error"].(map[string]any)
	assert.Equal(t, "DUPLICATE_KEY", errBlock["code"])
	details := errBlock["details"].(map[string]any)
	assert.Equal(t, "email", details["field"])
}

func TestRegisterCaptainDuplicatePlateOverHTTP(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/captains/register", registerCaptainRequest("c1@x.com", "ABC123"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/captains/register", registerCaptainRequest("c2@x.com", "ABC123"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	errBlock := body["error"].(map[string]any)
	assert.Equal(t, "DUPLICATE_KEY", errBlock["code"])
	details := errBlock["details"].(map[string]any)
	assert.Equal(t, "plate", details["field"])
}

func TestRegisterCaptainVehicleValidation(t *testing.T) {
	app := newTestApp(t)

	bad := registerCaptainRequest("c1@x.com", "ABC123")
	vehicle := bad["vehicle"].(map[string]any)
	vehicle["capacity"] = 0
	vehicle["vehicle_type"] = "boat"
	vehicle["plate"] = "ab"

	resp := postJSON(t, app, "/captains/register", bad)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	errBlock := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errBlock["code"])
	details := errBlock["details"].(map[string]any)
	assert.Contains(t, details, "vehicle.capacity")
	assert.Contains(t, details, "vehicle.type")
	assert.Contains(t, details, "vehicle.plate")
}

func TestLoginFailuresShareOneShape(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/users/register", registerUserRequest("a@x.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	wrongPassword := postJSON(t, app, "/users/login", map[string]any{
		"email": "a@x.com", "password": "wrong-1",
	})
	unknownEmail := postJSON(t, app, "/users/login", map[string]any{
		"email": "nobody@x.com", "password": "secret1",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)

	bodyA := decodeBody(t, wrongPassword)
	bodyB := decodeBody(t, unknownEmail)
	assert.Equal(t, bodyA, bodyB)
}

func TestUserTokenCannotAccessCaptainRoutes(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/users/register", registerUserRequest("a@x.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := extractToken(t, decodeBody(t, resp))

	req := httptest.NewRequest(http.MethodGet, "/captains/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	profileResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, profileResp.StatusCode)
}

func TestCaptainStatusUpdate(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/captains/register", registerCaptainRequest("c1@x.com", "ABC123"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := extractToken(t, decodeBody(t, resp))

	body, err := json.Marshal(map[string]any{"status": "available"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, "/captains/status", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+token)

	statusResp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, statusResp.StatusCode)

	respBody := decodeBody(t, statusResp)
	data := respBody["data"].(map[string]any)
	captain := data["captain"].(map[string]any)
	assert.Equal(t, "available", captain["status"])

	// response never carries the credential
	_, hasHash := captain["password_hash"]
	assert.False(t, hasHash)
}
