// Package models defines the persistence-facing record types of the catalog.
// Every entity carries an opaque string ID assigned at creation, created_by /
// updated_by provenance strings, and created_at / updated_at timestamps that
// are refreshed on every mutation.
package models

import "time"

// DataDomain represents a named grouping of related data objects, such as a
// business subject area. Domain names are unique across the catalog.
type DataDomain struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	UpdatedBy   string    `db:"updated_by" json:"updated_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
