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
	"github.com/data-fusion-hub/data-fusion-service/internal/telemetry"
)

// ObjectHandlers serves the /data-objects routes, including bulk create.
type ObjectHandlers struct {
	repo       *repositories.DataObjectRepository
	domainRepo *repositories.DataDomainRepository
}

// NewObjectHandlers creates object handlers backed by the given database.
func NewObjectHandlers(db *sql.DB) *ObjectHandlers {
	return &ObjectHandlers{
		repo:       repositories.NewDataObjectRepository(db),
		domainRepo: repositories.NewDataDomainRepository(db),
	}
}

type objectCreateRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description"`
	Type         string  `json:"type" binding:"required"`
	DataDomainID string  `json:"data_domain_id" binding:"required"`
}

// Create handles POST /data-objects
func (h *ObjectHandlers) Create(c *gin.Context) {
	var req objectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	object := &models.DataObject{
		Name:         req.Name,
		Description:  req.Description,
		Type:         req.Type,
		DataDomainID: req.DataDomainID,
	}
	if err := h.repo.Create(c.Request.Context(), object, middleware.Actor(c)); err != nil {
		if errors.Is(err, repositories.ErrInvalidReference) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Data domain not found"})
			return
		}
		slog.Error("create data object", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create data object"})
		return
	}

	c.JSON(http.StatusCreated, object)
}

// List handles GET /data-objects
func (h *ObjectHandlers) List(c *gin.Context) {
	objects, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		slog.Error("list data objects", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list data objects"})
		return
	}
	c.JSON(http.StatusOK, objects)
}

// Get handles GET /data-objects/:id
func (h *ObjectHandlers) Get(c *gin.Context) {
	object, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("get data object", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get data object"})
		return
	}
	if object == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Data object not found"})
		return
	}
	c.JSON(http.StatusOK, object)
}

// Update handles PUT /data-objects/:id
func (h *ObjectHandlers) Update(c *gin.Context) {
	var upd repositories.DataObjectUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	object, err := h.repo.Update(c.Request.Context(), c.Param("id"), &upd, middleware.Actor(c))
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidReference) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Data domain not found"})
			return
		}
		slog.Error("update data object", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update data object"})
		return
	}
	if object == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Data object not found"})
		return
	}
	c.JSON(http.StatusOK, object)
}

// Delete handles DELETE /data-objects/:id
func (h *ObjectHandlers) Delete(c *gin.Context) {
	deleted, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("delete data object", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete data object"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Data object not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Data object deleted"})
}

type bulkCreateRequest struct {
	DataDomainID string                        `json:"data_domain_id" binding:"required"`
	DataObjects  []repositories.BulkObjectSpec `json:"data_objects" binding:"required"`
}

// CreateBulk handles POST /data-objects/bulk. All validation happens before
// any write: the domain must exist, every object must be named, and every
// object must carry at least one field. The inserts then run in a single
// transaction, so a failing batch leaves no partial state behind.
func (h *ObjectHandlers) CreateBulk(c *gin.Context) {
	var req bulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	if len(req.DataObjects) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "At least one data object is required"})
		return
	}

	domain, err := h.domainRepo.GetByID(c.Request.Context(), req.DataDomainID)
	if err != nil {
		slog.Error("bulk create: look up domain", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create data objects"})
		return
	}
	if domain == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Data domain not found"})
		return
	}

	for _, spec := range req.DataObjects {
		if spec.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Every data object must have a name"})
			return
		}
		if len(spec.DataFields) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Data object '" + spec.Name + "' must have at least one data field"})
			return
		}
	}

	created, err := h.repo.CreateBulk(c.Request.Context(), req.DataDomainID, req.DataObjects, middleware.Actor(c))
	if err != nil {
		slog.Error("bulk create data objects", "error", err, "domain_id", req.DataDomainID)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create data objects"})
		return
	}

	telemetry.BulkObjectsCreatedTotal.Add(float64(len(created)))
	c.JSON(http.StatusCreated, created)
}
