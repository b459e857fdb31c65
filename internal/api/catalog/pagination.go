// Package catalog implements the HTTP handlers for the metadata catalog
// entities: data domains, data objects, data fields, and data connectors.
package catalog

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination describes one page of a paginated listing.
type Pagination struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Page is the envelope of every paginated listing response.
type Page struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// parsePagination reads the page/size query parameters, clamping them to
// page >= 1 and 1 <= size <= 100. Unparseable values fall back to defaults.
func parsePagination(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if err != nil || size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// newPage assembles the response envelope. Pages is the ceiling of
// total/size; an empty listing reports zero pages.
func newPage(data interface{}, page, size, total int) Page {
	return Page{
		Data: data,
		Pagination: Pagination{
			Page:  page,
			Size:  size,
			Total: total,
			Pages: (total + size - 1) / size,
		},
	}
}
