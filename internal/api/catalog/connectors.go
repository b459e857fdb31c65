package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/data-fusion-hub/data-fusion-service/internal/crypto"
	"github.com/data-fusion-hub/data-fusion-service/internal/db/models"
	"github.com/data-fusion-hub/data-fusion-service/internal/db/repositories"
	"github.com/data-fusion-hub/data-fusion-service/internal/middleware"
)

// ConnectorHandlers serves the /dataconnectors routes.
type ConnectorHandlers struct {
	repo *repositories.DataConnectorRepository
}

// NewConnectorHandlers creates connector handlers. The cipher seals every
// connector's authentication block before it reaches the database.
func NewConnectorHandlers(db *sqlx.DB, cipher *crypto.SecretCipher) *ConnectorHandlers {
	return &ConnectorHandlers{repo: repositories.NewDataConnectorRepository(db, cipher)}
}

type connectorCreateRequest struct {
	Name           string                 `json:"name" binding:"required"`
	Description    *string                `json:"description"`
	Type           string                 `json:"type" binding:"required"`
	Configuration  map[string]interface{} `json:"configuration" binding:"required"`
	Authentication map[string]interface{} `json:"authentication"`
}

// Create handles POST /dataconnectors
func (h *ConnectorHandlers) Create(c *gin.Context) {
	var req connectorCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	connector := &models.DataConnector{
		Name:           req.Name,
		Description:    req.Description,
		Type:           req.Type,
		Configuration:  req.Configuration,
		Authentication: req.Authentication,
	}
	if err := h.repo.Create(c.Request.Context(), connector, middleware.Actor(c)); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Data connector name already exists"})
			return
		}
		slog.Error("create data connector", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create data connector"})
		return
	}

	c.JSON(http.StatusCreated, connector)
}

// List handles GET /dataconnectors with page/size query parameters.
func (h *ConnectorHandlers) List(c *gin.Context) {
	page, size := parsePagination(c)

	connectors, total, err := h.repo.List(c.Request.Context(), size, (page-1)*size)
	if err != nil {
		slog.Error("list data connectors", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list data connectors"})
		return
	}

	c.JSON(http.StatusOK, newPage(connectors, page, size, total))
}

// Get handles GET /dataconnectors/:id
func (h *ConnectorHandlers) Get(c *gin.Context) {
	connector, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("get data connector", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get data connector"})
		return
	}
	if connector == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Data connector not found"})
		return
	}
	c.JSON(http.StatusOK, connector)
}

// Update handles PUT /dataconnectors/:id. Configuration and authentication
// replace the stored objects wholesale when present.
func (h *ConnectorHandlers) Update(c *gin.Context) {
	var upd repositories.DataConnectorUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	connector, err := h.repo.Update(c.Request.Context(), c.Param("id"), &upd, middleware.Actor(c))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Data connector name already exists"})
			return
		}
		slog.Error("update data connector", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update data connector"})
		return
	}
	if connector == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Data connector not found"})
		return
	}
	c.JSON(http.StatusOK, connector)
}

// Delete handles DELETE /dataconnectors/:id
func (h *ConnectorHandlers) Delete(c *gin.Context) {
	deleted, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("delete data connector", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete data connector"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Data connector not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Data connector deleted"})
}
