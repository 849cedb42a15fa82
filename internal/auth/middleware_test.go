package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMiddleware() (*Middleware, *JWTService) {
	svc := newTestJWTService(time.Hour)
	return NewMiddleware(svc, zap.NewNop()), svc
}

func TestRequireAuth_NoToken(t *testing.T) {
	mw, _ := newTestMiddleware()

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	mw, _ := newTestMiddleware()

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_PopulatesContext(t *testing.T) {
	mw, svc := newTestMiddleware()

	token, err := svc.GenerateToken("u1", "user@example.com", "user", "Alice")
	require.NoError(t, err)

	called := false
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
		userID, ok := GetUserIDFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "u1", userID)
		role, _ := GetUserRoleFromContext(r.Context())
		assert.Equal(t, "user", role)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_ForbiddenForRegularUser(t *testing.T) {
	mw, svc := newTestMiddleware()

	token, err := svc.GenerateToken("u1", "user@example.com", "user", "")
	require.NoError(t, err)

	handler := mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	// Аутентифицированный не-админ получает 403, а не 401
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	mw, svc := newTestMiddleware()

	token, err := svc.GenerateToken("a1", "admin@example.com", "admin", "")
	require.NoError(t, err)

	called := false
	handler := mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.True(t, called)
}
