package accounts

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/data-fusion-hub/data-fusion-service/internal/db/models"
	"github.com/data-fusion-hub/data-fusion-service/internal/db/repositories"
	"github.com/data-fusion-hub/data-fusion-service/internal/middleware"
)

// RequestHandlers serves the /user-role-requests routes: filing a request
// and the approve/deny workflow.
type RequestHandlers struct {
	repo     *repositories.UserRoleRequestRepository
	userRepo *repositories.UserRepository
	roleRepo *repositories.RoleRepository
}

// NewRequestHandlers creates role request handlers backed by the given database.
func NewRequestHandlers(db *sql.DB) *RequestHandlers {
	return &RequestHandlers{
		repo:     repositories.NewUserRoleRequestRepository(db),
		userRepo: repositories.NewUserRepository(db),
		roleRepo: repositories.NewRoleRepository(db),
	}
}

type requestCreateRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	RoleID        string `json:"role_id" binding:"required"`
	Justification string `json:"justification" binding:"required"`
}

// Create handles POST /user-role-requests. The user and role must exist, and
// the reserved "public" role can never be requested: every user holds it
// implicitly.
func (h *RequestHandlers) Create(c *gin.Context) {
	var req requestCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), req.UserID)
	if err != nil {
		slog.Error("create role request: look up user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create role request"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	role, err := h.roleRepo.GetByID(c.Request.Context(), req.RoleID)
	if err != nil {
		slog.Error("create role request: look up role", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create role request"})
		return
	}
	if role == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Role not found"})
		return
	}
	if role.Name == models.PublicRoleName {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cannot request membership in the public role"})
		return
	}

	request := &models.UserRoleRequest{
		UserID:        req.UserID,
		RoleID:        req.RoleID,
		Justification: req.Justification,
	}
	if err := h.repo.Create(c.Request.Context(), request, middleware.Actor(c)); err != nil {
		if errors.Is(err, repositories.ErrInvalidReference) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid user or role reference"})
			return
		}
		slog.Error("create role request", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create role request"})
		return
	}

	c.JSON(http.StatusCreated, request)
}

// List handles GET /user-role-requests, optionally filtered by user_id.
func (h *RequestHandlers) List(c *gin.Context) {
	var (
		requests []*models.UserRoleRequest
		err      error
	)
	if userID := c.Query("user_id"); userID != "" {
		requests, err = h.repo.ListByUser(c.Request.Context(), userID)
	} else {
		requests, err = h.repo.GetAll(c.Request.Context())
	}
	if err != nil {
		slog.Error("list role requests", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list role requests"})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// Get handles GET /user-role-requests/:id
func (h *RequestHandlers) Get(c *gin.Context) {
	request, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("get role request", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get role request"})
		return
	}
	if request == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Role request not found"})
		return
	}
	c.JSON(http.StatusOK, request)
}

type requestReviewRequest struct {
	Status string  `json:"status" binding:"required"`
	Reason *string `json:"reason"`
}

// Approve handles PUT /user-role-requests/:id/approve. The body must carry
// status "approved" exactly; the route never flips a request to any other
// state.
func (h *RequestHandlers) Approve(c *gin.Context) {
	h.review(c, models.RequestStatusApproved, "Invalid status. Must be 'approved'")
}

// Deny handles PUT /user-role-requests/:id/deny, requiring status "denied".
func (h *RequestHandlers) Deny(c *gin.Context) {
	h.review(c, models.RequestStatusDenied, "Invalid status. Must be 'denied'")
}

func (h *RequestHandlers) review(c *gin.Context, wantStatus, badStatusDetail string) {
	var req requestReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	if req.Status != wantStatus {
		c.JSON(http.StatusBadRequest, gin.H{"detail": badStatusDetail})
		return
	}

	request, err := h.repo.UpdateStatus(c.Request.Context(), c.Param("id"), wantStatus, req.Reason, middleware.Actor(c))
	if err != nil {
		slog.Error("review role request", "error", err, "status", wantStatus)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update role request"})
		return
	}
	if request == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Role request not found"})
		return
	}
	c.JSON(http.StatusOK, request)
}

// Delete handles DELETE /user-role-requests/:id
func (h *RequestHandlers) Delete(c *gin.Context) {
	deleted, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("delete role request", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete role request"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Role request not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Role request deleted"})
}
