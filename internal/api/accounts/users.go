// Package accounts implements the HTTP handlers for identity and access
// entities: users, roles, role approver relationships, user role requests,
// and login.
package accounts

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/data-fusion-hub/data-fusion-service/internal/auth"
	"github.com/data-fusion-hub/data-fusion-service/internal/db/models"
	"github.com/data-fusion-hub/data-fusion-service/internal/db/repositories"
	"github.com/data-fusion-hub/data-fusion-service/internal/middleware"
)

// UserHandlers serves the /users routes.
type UserHandlers struct {
	repo *repositories.UserRepository
}

// NewUserHandlers creates user handlers backed by the given database.
func NewUserHandlers(db *sql.DB) *UserHandlers {
	return &UserHandlers{repo: repositories.NewUserRepository(db)}
}

type userCreateRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	FirstName  string  `json:"first_name" binding:"required"`
	MiddleName *string `json:"middle_name"`
	LastName   string  `json:"last_name" binding:"required"`
	// Password is optional; accounts created through social login have none
	// and cannot log in with a password.
	Password string `json:"password"`
}

// Create handles POST /users. The password is bcrypt-hashed before storage
// and the hash never appears in any response.
func (h *UserHandlers) Create(c *gin.Context) {
	var req userCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create user"})
		return
	}

	user := &models.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := h.repo.Create(c.Request.Context(), user, middleware.Actor(c)); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
			return
		}
		slog.Error("create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// List handles GET /users
func (h *UserHandlers) List(c *gin.Context) {
	users, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		slog.Error("list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get handles GET /users/:id
func (h *UserHandlers) Get(c *gin.Context) {
	user, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("get user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type userUpdateRequest struct {
	Email      *string `json:"email" binding:"omitempty,email"`
	FirstName  *string `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   *string `json:"last_name"`
	Password   *string `json:"password"`
}

// Update handles PUT /users/:id. A present password is re-hashed; an absent
// one leaves the stored hash untouched.
func (h *UserHandlers) Update(c *gin.Context) {
	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	upd := &repositories.UserUpdate{
		Email:      req.Email,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			slog.Error("hash password", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update user"})
			return
		}
		upd.PasswordHash = hash
	}

	user, err := h.repo.Update(c.Request.Context(), c.Param("id"), upd, middleware.Actor(c))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
			return
		}
		slog.Error("update user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id
func (h *UserHandlers) Delete(c *gin.Context) {
	deleted, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("delete user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete user"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "User deleted"})
}
