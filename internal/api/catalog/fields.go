package catalog

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

// FieldHandlers serves the /data-fields routes.
type FieldHandlers struct {
	repo *repositories.DataFieldRepository
}

// NewFieldHandlers creates field handlers backed by the given database.
func NewFieldHandlers(db *sql.DB) *FieldHandlers {
	return &FieldHandlers{repo: repositories.NewDataFieldRepository(db)}
}

type fieldCreateRequest struct {
	ObjectID           string  `json:"object_id" binding:"required"`
	Name               string  `json:"name" binding:"required"`
	Description        *string `json:"description"`
	Type               string  `json:"type" binding:"required"`
	IsRequired         bool    `json:"is_required"`
	AnsiDataType       *string `json:"ansi_data_type"`
	DisplayName        *string `json:"display_name"`
	MaxCharLength      *int    `json:"max_char_length"`
	MinCharLength      *int    `json:"min_char_length"`
	NumericalPrecision *int    `json:"numerical_precision"`
	NumericalScale     *int    `json:"numerical_scale"`
}

// Create handles POST /data-fields
func (h *FieldHandlers) Create(c *gin.Context) {
	var req fieldCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	field := &models.DataField{
		ObjectID:           req.ObjectID,
		Name:               req.Name,
		Description:        req.Description,
		Type:               req.Type,
		IsRequired:         req.IsRequired,
		AnsiDataType:       req.AnsiDataType,
		DisplayName:        req.DisplayName,
		MaxCharLength:      req.MaxCharLength,
		MinCharLength:      req.MinCharLength,
		NumericalPrecision: req.NumericalPrecision,
		NumericalScale:     req.NumericalScale,
	}
	if err := h.repo.Create(c.Request.Context(), field, middleware.Actor(c)); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Data field name already exists on this object"})
		case errors.Is(err, repositories.ErrInvalidReference):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Data object not found"})
		default:
			slog.Error("create data field", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create data field"})
		}
		return
	}

	c.JSON(http.StatusCreated, field)
}

// List handles GET /data-fields
func (h *FieldHandlers) List(c *gin.Context) {
	fields, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		slog.Error("list data fields", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list data fields"})
		return
	}
	c.JSON(http.StatusOK, fields)
}

// ListByObject handles GET /data-fields/object/:object_id
func (h *FieldHandlers) ListByObject(c *gin.Context) {
	fields, err := h.repo.ListByObject(c.Request.Context(), c.Param("object_id"))
	if err != nil {
		slog.Error("list data fields by object", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list data fields"})
		return
	}
	c.JSON(http.StatusOK, fields)
}

// Get handles GET /data-fields/:id
func (h *FieldHandlers) Get(c *gin.Context) {
	field, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("get data field", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get data field"})
		return
	}
	if field == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Data field not found"})
		return
	}
	c.JSON(http.StatusOK, field)
}

// Update handles PUT /data-fields/:id
func (h *FieldHandlers) Update(c *gin.Context) {
	var upd repositories.DataFieldUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	field, err := h.repo.Update(c.Request.Context(), c.Param("id"), &upd, middleware.Actor(c))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Data field name already exists on this object"})
			return
		}
		slog.Error("update data field", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update data field"})
		return
	}
	if field == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Data field not found"})
		return
	}
	c.JSON(http.StatusOK, field)
}

// Delete handles DELETE /data-fields/:id
func (h *FieldHandlers) Delete(c *gin.Context) {
	deleted, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("delete data field", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete data field"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Data field not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Data field deleted"})
}
