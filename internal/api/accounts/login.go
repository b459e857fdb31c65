package accounts

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/data-fusion-hub/data-fusion-service/internal/auth"
	"github.com/data-fusion-hub/data-fusion-service/internal/config"
	"github.com/data-fusion-hub/data-fusion-service/internal/db/repositories"
	"github.com/data-fusion-hub/data-fusion-service/internal/telemetry"
)

// AuthHandlers serves login. One handler is mounted at both /auth/login and
// /users/login; the two routes are aliases of the same credential check.
type AuthHandlers struct {
	cfg      *config.Config
	userRepo *repositories.UserRepository
}

// NewAuthHandlers creates login handlers backed by the given database.
func NewAuthHandlers(cfg *config.Config, db *sql.DB) *AuthHandlers {
	return &AuthHandlers{cfg: cfg, userRepo: repositories.NewUserRepository(db)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login handles POST /auth/login and POST /users/login. The 401 detail is
// identical for an unknown email and a wrong password so the endpoint cannot
// be used to enumerate accounts. The email lookup rides the unique index.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	user, err := h.userRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		slog.Error("login: look up user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Login failed"})
		return
	}

	if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		telemetry.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect email or password"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email, h.cfg.Auth.TokenExpiry)
	if err != nil {
		slog.Error("login: issue token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Login failed"})
		return
	}

	telemetry.LoginAttemptsTotal.WithLabelValues("success").Inc()
	slog.Info("user logged in", "user_id", user.ID, "name", user.FullName())
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
