package models

import "time"

// DataObject represents a described data asset (table, view, ...) within a
// data domain.
type DataObject struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description,omitempty"`
	Type         string    `db:"type" json:"type"`
	DataDomainID string    `db:"data_domain_id" json:"data_domain_id"`
	CreatedBy    string    `db:"created_by" json:"created_by"`
	UpdatedBy    string    `db:"updated_by" json:"updated_by"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DataObjectWithFields is the bulk-create response shape: an object together
// with the fields persisted alongside it.
type DataObjectWithFields struct {
	DataObject
	DataFields []*DataField `json:"data_fields"`
}
