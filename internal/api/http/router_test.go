package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/mall-service/internal/api/http/handlers"
	"github.com/spec-kit/mall-service/internal/auth"
	"github.com/spec-kit/mall-service/internal/cache"
	"github.com/spec-kit/mall-service/internal/config"
	"github.com/spec-kit/mall-service/internal/domain"
	"github.com/spec-kit/mall-service/internal/observability"
	"github.com/spec-kit/mall-service/internal/service"
)

type memoryUserRepo struct {
	users map[int64]*domain.User
}

func (r *memoryUserRepo) byUsername(username string) *domain.User {
	for _, user := range r.users {
		if user.Username == username {
			return user
		}
	}
	return nil
}

func (r *memoryUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	return r.byUsername(username) != nil, nil
}

func (r *memoryUserRepo) EmailExists(context.Context, string) (bool, error) { return false, nil }

func (r *memoryUserRepo) PhoneExists(context.Context, string) (bool, error) { return false, nil }

func (r *memoryUserRepo) EmailExistsForOther(context.Context, string, int64) (bool, error) {
	return false, nil
}

func (r *memoryUserRepo) QuestionMatches(context.Context, string, string) (bool, error) {
	return false, nil
}

func (r *memoryUserRepo) AnswerMatches(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = int64(len(r.users) + 1)
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepo) UpdateProfile(context.Context, *domain.User) error { return nil }

func (r *memoryUserRepo) UpdatePasswordByUsername(context.Context, string, string) error {
	return nil
}

func (r *memoryUserRepo) UpdatePasswordByID(context.Context, int64, string) error { return nil }

func (r *memoryUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user := r.byUsername(username)
	if user == nil {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepo) QuestionByUsername(_ context.Context, username string) (string, error) {
	user := r.byUsername(username)
	if user == nil {
		return "", pgx.ErrNoRows
	}
	return user.Question, nil
}

type memoryCategoryRepo struct {
	categories map[int64]*domain.Category
}

func (r *memoryCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	category.ID = int64(len(r.categories) + 1)
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *memoryCategoryRepo) Rename(_ context.Context, id int64, name string) error {
	category, ok := r.categories[id]
	if !ok {
		return pgx.ErrNoRows
	}
	category.Name = name
	return nil
}

func (r *memoryCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *category
	return &clone, nil
}

func (r *memoryCategoryRepo) ListByParent(_ context.Context, parentID int64) ([]domain.Category, error) {
	var out []domain.Category
	for _, category := range r.categories {
		if category.ParentID == parentID {
			out = append(out, *category)
		}
	}
	return out, nil
}

type memoryProductRepo struct{}

func (memoryProductRepo) Create(_ context.Context, product *domain.Product) error {
	product.ID = 1
	return nil
}

func (memoryProductRepo) Update(context.Context, *domain.Product) error { return pgx.ErrNoRows }

func (memoryProductRepo) SetSaleStatus(context.Context, int64, domain.ProductStatus) error {
	return pgx.ErrNoRows
}

func (memoryProductRepo) GetByID(context.Context, int64) (*domain.Product, error) {
	return nil, pgx.ErrNoRows
}

type memorySessionStore struct {
	sessions map[string]int64
}

func (s *memorySessionStore) Save(_ context.Context, id string, userID int64, _ time.Duration) error {
	s.sessions[id] = userID
	return nil
}

func (s *memorySessionStore) Load(_ context.Context, id string, _ time.Duration) (int64, bool, error) {
	userID, ok := s.sessions[id]
	return userID, ok, nil
}

func (s *memorySessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

// testEnv is a fully wired app over in-memory stores.
type testEnv struct {
	app      *fiber.App
	sessions *auth.SessionManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	customerHash, err := auth.HashPassword("customer-pw", 4)
	require.NoError(t, err)
	adminHash, err := auth.HashPassword("admin-pw", 4)
	require.NoError(t, err)

	userRepo := &memoryUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, Username: "alice", PasswordHash: customerHash, Email: "alice@example.com", Role: domain.RoleCustomer},
		2: {ID: 2, Username: "root", PasswordHash: adminHash, Email: "root@example.com", Role: domain.RoleAdmin},
	}}
	categoryRepo := &memoryCategoryRepo{categories: map[int64]*domain.Category{
		1: {ID: 1, ParentID: 0, Name: "electronics", Status: true},
		2: {ID: 2, ParentID: 1, Name: "phones", Status: true},
	}}

	sessions := auth.NewSessionManager(&memorySessionStore{sessions: map[string]int64{}}, "test-secret", time.Minute)
	tokens := cache.New(config.TokenCacheConfig{MaxEntries: 100, TTLHours: 12}, nil)

	userService := service.NewUserService(config.AuthConfig{BcryptCost: 4}, userRepo, tokens, nil)
	categoryService := service.NewCategoryService(categoryRepo, nil, zap.NewNop())
	productService := service.NewProductService(memoryProductRepo{}, nil)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:            handlers.NewHealthHandler("mall-service", "test", nil, nil),
		Users:             handlers.NewUsersHandler(userService, sessions),
		Categories:        handlers.NewCategoryHandler(categoryService),
		Products:          handlers.NewProductHandler(productService),
		SessionMiddleware: auth.NewSessionMiddleware(sessions, userRepo),
	})

	return &testEnv{app: app, sessions: sessions}
}

func (e *testEnv) sessionFor(t *testing.T, userID int64) string {
	t.Helper()
	token, err := e.sessions.Create(context.Background(), userID)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func TestManageAnonymousGetsNeedLogin(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/manage/category/children", nil)
	resp, body := env.do(t, req)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "NEED_LOGIN", errorCode(body),
		"missing session must be distinguishable from missing privileges")
}

func TestManageCustomerGetsForbidden(t *testing.T) {
	env := newTestEnv(t)
	token := env.sessionFor(t, 1)

	req := httptest.NewRequest(http.MethodGet, "/manage/category/children", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, body := env.do(t, req)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(body))
}

func TestManageAdminAllowed(t *testing.T) {
	env := newTestEnv(t)
	token := env.sessionFor(t, 2)

	req := httptest.NewRequest(http.MethodGet, "/manage/category/children?parent_id=1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, body := env.do(t, req)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 1)
}

func TestLoginIssuesSessionCookie(t *testing.T) {
	env := newTestEnv(t)

	payload, _ := json.Marshal(map[string]string{"username": "root", "password": "admin-pw"})
	req := httptest.NewRequest(http.MethodPost, "/portal/user/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, body := env.do(t, req)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "mall_session" {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "login must set the session cookie")
	assert.True(t, sessionCookie.HttpOnly)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])

	// the cookie alone must authenticate follow-up requests
	infoReq := httptest.NewRequest(http.MethodGet, "/portal/user/info", nil)
	infoReq.AddCookie(sessionCookie)
	infoResp, infoBody := env.do(t, infoReq)
	require.Equal(t, http.StatusOK, infoResp.StatusCode)

	user, ok := infoBody["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "root", user["username"])
	assert.NotContains(t, user, "password", "account responses never carry credentials")
}

func TestLoginBadPassword(t *testing.T) {
	env := newTestEnv(t)

	payload, _ := json.Marshal(map[string]string{"username": "root", "password": "nope"})
	req := httptest.NewRequest(http.MethodPost, "/portal/user/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, body := env.do(t, req)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
}

func TestPortalInfoAnonymous(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/portal/user/info", nil)
	resp, body := env.do(t, req)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "NEED_LOGIN", errorCode(body))
}

func TestSessionForVanishedUserIsAnonymous(t *testing.T) {
	env := newTestEnv(t)
	token := env.sessionFor(t, 99)

	req := httptest.NewRequest(http.MethodGet, "/portal/user/info", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, body := env.do(t, req)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "NEED_LOGIN", errorCode(body))
}

func TestLogoutDestroysSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.sessionFor(t, 1)

	req := httptest.NewRequest(http.MethodPost, "/portal/user/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	infoReq := httptest.NewRequest(http.MethodGet, "/portal/user/info", nil)
	infoReq.Header.Set("Authorization", "Bearer "+token)
	infoResp, _ := env.do(t, infoReq)
	assert.Equal(t, http.StatusUnauthorized, infoResp.StatusCode)
}
