package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/data-fusion-hub/data-fusion-service/internal/db/models"
)

// execContext is satisfied by both *sql.DB and *sql.Tx so single-row insert
// helpers can run inside the bulk-create transaction.
type execContext interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// DataFieldRepository handles data field database operations
type DataFieldRepository struct {
	db *sql.DB
}

// NewDataFieldRepository creates a new DataFieldRepository
func NewDataFieldRepository(db *sql.DB) *DataFieldRepository {
	return &DataFieldRepository{db: db}
}

// DataFieldUpdate carries the fields of a partial field update. Nil fields
// are left untouched.
type DataFieldUpdate struct {
	Name               *string `json:"name"`
	Description        *string `json:"description"`
	Type               *string `json:"type"`
	IsRequired         *bool   `json:"is_required"`
	AnsiDataType       *string `json:"ansi_data_type"`
	DisplayName        *string `json:"display_name"`
	MaxCharLength      *int    `json:"max_char_length"`
	MinCharLength      *int    `json:"min_char_length"`
	NumericalPrecision *int    `json:"numerical_precision"`
	NumericalScale     *int    `json:"numerical_scale"`
}

const dataFieldColumns = `id, object_id, name, description, type, is_required, ansi_data_type, display_name,
	max_char_length, min_char_length, numerical_precision, numerical_scale,
	created_by, updated_by, created_at, updated_at`

func scanDataField(row interface{ Scan(...interface{}) error }) (*models.DataField, error) {
	f := &models.DataField{}
	err := row.Scan(&f.ID, &f.ObjectID, &f.Name, &f.Description, &f.Type, &f.IsRequired,
		&f.AnsiDataType, &f.DisplayName, &f.MaxCharLength, &f.MinCharLength,
		&f.NumericalPrecision, &f.NumericalScale,
		&f.CreatedBy, &f.UpdatedBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func insertDataField(ctx context.Context, ex execContext, f *models.DataField) error {
	query := `
		INSERT INTO data_fields (id, object_id, name, description, type, is_required, ansi_data_type, display_name,
			max_char_length, min_char_length, numerical_precision, numerical_scale,
			created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := ex.ExecContext(ctx, query,
		f.ID, f.ObjectID, f.Name, f.Description, f.Type, f.IsRequired,
		f.AnsiDataType, f.DisplayName, f.MaxCharLength, f.MinCharLength,
		f.NumericalPrecision, f.NumericalScale,
		f.CreatedBy, f.UpdatedBy, f.CreatedAt, f.UpdatedAt)
	return translateError(err)
}

// Create inserts a new data field, assigning its ID and provenance. Returns
// ErrDuplicate when (name, object_id) collides and ErrInvalidReference when
// object_id names no existing object.
func (r *DataFieldRepository) Create(ctx context.Context, field *models.DataField, actor string) error {
	field.ID = uuid.New().String()
	field.CreatedBy = actor
	field.UpdatedBy = actor
	field.CreatedAt = time.Now().UTC()
	field.UpdatedAt = field.CreatedAt

	return insertDataField(ctx, r.db, field)
}

// GetByID retrieves a data field by ID; (nil, nil) when absent.
func (r *DataFieldRepository) GetByID(ctx context.Context, id string) (*models.DataField, error) {
	query := `SELECT ` + dataFieldColumns + ` FROM data_fields WHERE id = $1`

	field, err := scanDataField(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return field, nil
}

// GetAll retrieves every data field
func (r *DataFieldRepository) GetAll(ctx context.Context) ([]*models.DataField, error) {
	return r.queryFields(ctx, `SELECT `+dataFieldColumns+` FROM data_fields ORDER BY created_at DESC`)
}

// ListByObject retrieves all fields of one data object
func (r *DataFieldRepository) ListByObject(ctx context.Context, objectID string) ([]*models.DataField, error) {
	return r.queryFields(ctx,
		`SELECT `+dataFieldColumns+` FROM data_fields WHERE object_id = $1 ORDER BY created_at DESC`,
		objectID)
}

func (r *DataFieldRepository) queryFields(ctx context.Context, query string, args ...interface{}) ([]*models.DataField, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := make([]*models.DataField, 0)
	for rows.Next() {
		f, err := scanDataField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	return fields, rows.Err()
}

// Update applies the non-nil fields of upd, always refreshing provenance.
// Returns (nil, nil) when the id is unknown.
func (r *DataFieldRepository) Update(ctx context.Context, id string, upd *DataFieldUpdate, actor string) (*models.DataField, error) {
	field, err := r.GetByID(ctx, id)
	if err != nil || field == nil {
		return nil, err
	}

	if upd.Name != nil {
		field.Name = *upd.Name
	}
	if upd.Description != nil {
		field.Description = upd.Description
	}
	if upd.Type != nil {
		field.Type = *upd.Type
	}
	if upd.IsRequired != nil {
		field.IsRequired = *upd.IsRequired
	}
	if upd.AnsiDataType != nil {
		field.AnsiDataType = upd.AnsiDataType
	}
	if upd.DisplayName != nil {
		field.DisplayName = upd.DisplayName
	}
	if upd.MaxCharLength != nil {
		field.MaxCharLength = upd.MaxCharLength
	}
	if upd.MinCharLength != nil {
		field.MinCharLength = upd.MinCharLength
	}
	if upd.NumericalPrecision != nil {
		field.NumericalPrecision = upd.NumericalPrecision
	}
	if upd.NumericalScale != nil {
		field.NumericalScale = upd.NumericalScale
	}
	field.UpdatedBy = actor
	field.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE data_fields
		SET name = $2, description = $3, type = $4, is_required = $5, ansi_data_type = $6, display_name = $7,
			max_char_length = $8, min_char_length = $9, numerical_precision = $10, numerical_scale = $11,
			updated_by = $12, updated_at = $13
		WHERE id = $1
	`

	_, err = r.db.ExecContext(ctx, query,
		field.ID, field.Name, field.Description, field.Type, field.IsRequired,
		field.AnsiDataType, field.DisplayName, field.MaxCharLength, field.MinCharLength,
		field.NumericalPrecision, field.NumericalScale,
		field.UpdatedBy, field.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}

	return field, nil
}

// Delete removes a data field. Returns false when the id is unknown.
func (r *DataFieldRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM data_fields WHERE id = $1`, id)
	if err != nil {
		return false, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
