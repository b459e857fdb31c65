package models

import "time"

// DataField is a column-level descriptor of a data object. Field names are
// unique within their parent object.
type DataField struct {
	ID                 string    `db:"id" json:"id"`
	ObjectID           string    `db:"object_id" json:"object_id"`
	Name               string    `db:"name" json:"name"`
	Description        *string   `db:"description" json:"description,omitempty"`
	Type               string    `db:"type" json:"type"`
	IsRequired         bool      `db:"is_required" json:"is_required"`
	AnsiDataType       *string   `db:"ansi_data_type" json:"ansi_data_type,omitempty"`
	DisplayName        *string   `db:"display_name" json:"display_name,omitempty"`
	MaxCharLength      *int      `db:"max_char_length" json:"max_char_length,omitempty"`
	MinCharLength      *int      `db:"min_char_length" json:"min_char_length,omitempty"`
	NumericalPrecision *int      `db:"numerical_precision" json:"numerical_precision,omitempty"`
	NumericalScale     *int      `db:"numerical_scale" json:"numerical_scale,omitempty"`
	CreatedBy          string    `db:"created_by" json:"created_by"`
	UpdatedBy          string    `db:"updated_by" json:"updated_by"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
