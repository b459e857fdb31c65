package accounts

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/data-fusion-hub/data-fusion-service/internal/auth"
	"github.com/data-fusion-hub/data-fusion-service/internal/config"
)

func newLoginRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Auth.TokenExpiry = 30 * time.Minute

	h := NewAuthHandlers(cfg, db)
	router := gin.New()
	router.POST("/auth/login", h.Login)
	return router, mock
}

func credentialRow(t *testing.T, email, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "email", "first_name", "middle_name", "last_name", "password_hash",
		"created_by", "updated_by", "created_at", "updated_at"}).
		AddRow("u1", email, "Jane", nil, "Doe", *hash, "a@x.com", "a@x.com", now, now)
}

func TestLoginIssuesBearerToken(t *testing.T) {
	router, mock := newLoginRouter(t)

	mock.ExpectQuery("SELECT .* FROM users WHERE email").
		WithArgs("jane@x.com").
		WillReturnRows(credentialRow(t, "jane@x.com", "hunter2hunter2"))

	w := doJSON(t, router, http.MethodPost, "/auth/login",
		gin.H{"email": "jane@x.com", "password": "hunter2hunter2"})
	assert.Equal(t, http.StatusOK, w.Code)

	var got tokenResponse
	decodeJSON(t, w, &got)
	assert.Equal(t, "bearer", got.TokenType)
	assert.NotEmpty(t, got.AccessToken)

	claims, err := auth.ValidateJWT(got.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "jane@x.com", claims.Email)
	assert.Equal(t, "u1", claims.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	router, mock := newLoginRouter(t)

	mock.ExpectQuery("SELECT .* FROM users WHERE email").
		WithArgs("jane@x.com").
		WillReturnRows(credentialRow(t, "jane@x.com", "hunter2hunter2"))

	w := doJSON(t, router, http.MethodPost, "/auth/login",
		gin.H{"email": "jane@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect email or password")
}

// An unknown email and a wrong password must be indistinguishable to the
// caller, otherwise the endpoint leaks which addresses have accounts.
func TestLoginUnknownEmailMatchesWrongPasswordResponse(t *testing.T) {
	router, mock := newLoginRouter(t)

	mock.ExpectQuery("SELECT .* FROM users WHERE email").
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := doJSON(t, router, http.MethodPost, "/auth/login",
		gin.H{"email": "nobody@x.com", "password": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail": "Incorrect email or password"}`, w.Body.String())
}

func TestLoginPasswordlessAccountCannotLogIn(t *testing.T) {
	router, mock := newLoginRouter(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .* FROM users WHERE email").
		WithArgs("sso@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "middle_name", "last_name", "password_hash",
			"created_by", "updated_by", "created_at", "updated_at"}).
			AddRow("u2", "sso@x.com", "Sam", nil, "Lee", nil, "a@x.com", "a@x.com", now, now))

	w := doJSON(t, router, http.MethodPost, "/auth/login",
		gin.H{"email": "sso@x.com", "password": "anything"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginMissingFields(t *testing.T) {
	router, _ := newLoginRouter(t)

	w := doJSON(t, router, http.MethodPost, "/auth/login", gin.H{"email": "jane@x.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
