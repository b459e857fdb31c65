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

// DomainHandlers serves the /datadomains routes.
type DomainHandlers struct {
	repo *repositories.DataDomainRepository
}

// NewDomainHandlers creates domain handlers backed by the given database.
func NewDomainHandlers(db *sql.DB) *DomainHandlers {
	return &DomainHandlers{repo: repositories.NewDataDomainRepository(db)}
}

type domainCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// Create handles POST /datadomains
func (h *DomainHandlers) Create(c *gin.Context) {
	var req domainCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	domain := &models.DataDomain{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.repo.Create(c.Request.Context(), domain, middleware.Actor(c)); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Data domain name already exists"})
			return
		}
		slog.Error("create data domain", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create data domain"})
		return
	}

	c.JSON(http.StatusCreated, domain)
}

// List handles GET /datadomains with page/size query parameters.
func (h *DomainHandlers) List(c *gin.Context) {
	page, size := parsePagination(c)

	domains, total, err := h.repo.List(c.Request.Context(), size, (page-1)*size)
	if err != nil {
		slog.Error("list data domains", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list data domains"})
		return
	}

	c.JSON(http.StatusOK, newPage(domains, page, size, total))
}

// Get handles GET /datadomains/:id
func (h *DomainHandlers) Get(c *gin.Context) {
	domain, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("get data domain", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get data domain"})
		return
	}
	if domain == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Data domain not found"})
		return
	}
	c.JSON(http.StatusOK, domain)
}

// Update handles PUT /datadomains/:id with a partial payload. An empty body
// still refreshes updated_by/updated_at.
func (h *DomainHandlers) Update(c *gin.Context) {
	var upd repositories.DataDomainUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	domain, err := h.repo.Update(c.Request.Context(), c.Param("id"), &upd, middleware.Actor(c))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Data domain name already exists"})
			return
		}
		slog.Error("update data domain", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update data domain"})
		return
	}
	if domain == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Data domain not found"})
		return
	}
	c.JSON(http.StatusOK, domain)
}

// Delete handles DELETE /datadomains/:id
func (h *DomainHandlers) Delete(c *gin.Context) {
	deleted, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("delete data domain", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete data domain"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Data domain not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Data domain deleted"})
}
