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

// RoleHandlers serves the /roles routes, including the approver-roles
// subroutes that designate which roles may approve requests for a role.
type RoleHandlers struct {
	repo *repositories.RoleRepository
}

// NewRoleHandlers creates role handlers backed by the given database.
func NewRoleHandlers(db *sql.DB) *RoleHandlers {
	return &RoleHandlers{repo: repositories.NewRoleRepository(db)}
}

type roleCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// Create handles POST /roles
func (h *RoleHandlers) Create(c *gin.Context) {
	var req roleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	role := &models.Role{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.repo.Create(c.Request.Context(), role, middleware.Actor(c)); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Role name already exists"})
			return
		}
		slog.Error("create role", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create role"})
		return
	}

	c.JSON(http.StatusCreated, role)
}

// List handles GET /roles
func (h *RoleHandlers) List(c *gin.Context) {
	roles, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		slog.Error("list roles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list roles"})
		return
	}
	c.JSON(http.StatusOK, roles)
}

// Get handles GET /roles/:role_id
func (h *RoleHandlers) Get(c *gin.Context) {
	role, err := h.repo.GetByID(c.Request.Context(), c.Param("role_id"))
	if err != nil {
		slog.Error("get role", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get role"})
		return
	}
	if role == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Role not found"})
		return
	}
	c.JSON(http.StatusOK, role)
}

// Update handles PUT /roles/:role_id
func (h *RoleHandlers) Update(c *gin.Context) {
	var upd repositories.RoleUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	role, err := h.repo.Update(c.Request.Context(), c.Param("role_id"), &upd, middleware.Actor(c))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Role name already exists"})
			return
		}
		slog.Error("update role", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update role"})
		return
	}
	if role == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Role not found"})
		return
	}
	c.JSON(http.StatusOK, role)
}

// Delete handles DELETE /roles/:role_id
func (h *RoleHandlers) Delete(c *gin.Context) {
	deleted, err := h.repo.Delete(c.Request.Context(), c.Param("role_id"))
	if err != nil {
		slog.Error("delete role", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete role"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Role not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Role deleted"})
}

type approverAssignRequest struct {
	ApproverRoleIDs []string `json:"approver_role_ids" binding:"required"`
}

// AssignApprovers handles PUT /roles/:role_id/approver-roles. The submitted
// set replaces any existing approver relationships: the target role must
// exist (404), every approver role must exist (404) and differ from the
// target (400). The swap itself is transactional.
func (h *RoleHandlers) AssignApprovers(c *gin.Context) {
	roleID := c.Param("role_id")

	var req approverAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	role, err := h.repo.GetByID(c.Request.Context(), roleID)
	if err != nil {
		slog.Error("assign approvers: look up role", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to assign approver roles"})
		return
	}
	if role == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Role not found"})
		return
	}

	for _, approverID := range req.ApproverRoleIDs {
		if approverID == roleID {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "A role cannot be its own approver"})
			return
		}
		approver, err := h.repo.GetByID(c.Request.Context(), approverID)
		if err != nil {
			slog.Error("assign approvers: look up approver role", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to assign approver roles"})
			return
		}
		if approver == nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Approver role not found"})
			return
		}
	}

	rels, err := h.repo.ReplaceApprovers(c.Request.Context(), roleID, req.ApproverRoleIDs, middleware.Actor(c))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Duplicate approver role"})
			return
		}
		slog.Error("replace approver roles", "error", err, "role_id", roleID)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to assign approver roles"})
		return
	}

	c.JSON(http.StatusOK, rels)
}

// ListApprovers handles GET /roles/:role_id/approver-roles
func (h *RoleHandlers) ListApprovers(c *gin.Context) {
	roleID := c.Param("role_id")

	role, err := h.repo.GetByID(c.Request.Context(), roleID)
	if err != nil {
		slog.Error("list approvers: look up role", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list approver roles"})
		return
	}
	if role == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Role not found"})
		return
	}

	rels, err := h.repo.ListApprovers(c.Request.Context(), roleID)
	if err != nil {
		slog.Error("list approver roles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list approver roles"})
		return
	}
	c.JSON(http.StatusOK, rels)
}

// DeleteApprover handles DELETE /roles/:role_id/approver-roles/:approver_role_id
func (h *RoleHandlers) DeleteApprover(c *gin.Context) {
	deleted, err := h.repo.DeleteApprover(c.Request.Context(), c.Param("role_id"), c.Param("approver_role_id"))
	if err != nil {
		slog.Error("delete approver role", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete approver role"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Approver role relationship not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Approver role removed"})
}
