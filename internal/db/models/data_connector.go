package models

import "time"

// DataConnector is a configured external data source or sink definition.
// Type is a free-form tag (rest, sftp, postgresql, ...). Configuration is an
// opaque JSON object stored as-is; Authentication is an opaque JSON object
// sealed with AES-GCM before it reaches the database.
type DataConnector struct {
	ID             string                 `db:"id" json:"id"`
	Name           string                 `db:"name" json:"name"`
	Description    *string                `db:"description" json:"description,omitempty"`
	Type           string                 `db:"type" json:"type"`
	Configuration  map[string]interface{} `db:"-" json:"configuration"`
	Authentication map[string]interface{} `db:"-" json:"authentication,omitempty"`
	CreatedBy      string                 `db:"created_by" json:"created_by"`
	UpdatedBy      string                 `db:"updated_by" json:"updated_by"`
	CreatedAt      time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time              `db:"updated_at" json:"updated_at"`
}
