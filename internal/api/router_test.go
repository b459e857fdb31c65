package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/data-fusion-hub/data-fusion-service/internal/config"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("DFH_JWT_SECRET", "test-secret-key-that-is-at-least-32-chars")
	os.Setenv("ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Security.CORS.AllowedOrigins = []string{"*"}

	return NewRouter(cfg, db), mock
}

func TestHealthHealthy(t *testing.T) {
	router, mock := newTestRouter(t)
	mock.ExpectPing()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"healthy"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestHealthUnhealthyWhenDBDown(t *testing.T) {
	router, mock := newTestRouter(t)
	mock.ExpectPing().WillReturnError(os.ErrDeadlineExceeded)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"unhealthy"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRouterAcceptsPassphraseEncryptionKey(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "correct horse battery staple")

	router, mock := newTestRouter(t)
	mock.ExpectPing()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/datadomains"},
		{http.MethodGet, "/api/v1/dataconnectors"},
		{http.MethodGet, "/api/v1/data-objects"},
		{http.MethodGet, "/api/v1/data-fields"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, "/api/v1/roles"},
		{http.MethodGet, "/api/v1/user-role-requests"},
		{http.MethodPost, "/api/v1/data-objects/bulk"},
	}
	for _, route := range protected {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401 without token", route.method, route.path, w.Code)
		}
	}
}

func TestLoginRoutesArePublic(t *testing.T) {
	router, mock := newTestRouter(t)

	for _, path := range []string{"/api/v1/auth/login", "/api/v1/users/login"} {
		mock.ExpectQuery("SELECT .* FROM users WHERE email").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path,
			strings.NewReader(`{"email":"ghost@x.com","password":"pw"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		// 401 for bad credentials proves the handler ran rather than the
		// auth middleware rejecting the request outright.
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401 for unknown account", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Incorrect email or password") {
			t.Errorf("%s: body = %s", path, w.Body.String())
		}
	}
}
