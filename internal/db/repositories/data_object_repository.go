package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/data-fusion-hub/data-fusion-service/internal/db/models"
)

// DataObjectRepository handles data object database operations, including the
// bulk object+field create path which is the only multi-statement operation in
// the service and runs under a single transaction.
type DataObjectRepository struct {
	db *sql.DB
}

// NewDataObjectRepository creates a new DataObjectRepository
func NewDataObjectRepository(db *sql.DB) *DataObjectRepository {
	return &DataObjectRepository{db: db}
}

// DataObjectUpdate carries the fields of a partial object update. Nil fields
// are left untouched.
type DataObjectUpdate struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Type         *string `json:"type"`
	DataDomainID *string `json:"data_domain_id"`
}

// BulkFieldSpec describes one field of a bulk-created object.
type BulkFieldSpec struct {
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

// BulkObjectSpec describes one object of a bulk create, together with the
// fields to persist alongside it.
type BulkObjectSpec struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Type        string          `json:"type"`
	DataFields  []BulkFieldSpec `json:"data_fields"`
}

const dataObjectColumns = `id, name, description, type, data_domain_id, created_by, updated_by, created_at, updated_at`

func scanDataObject(row interface{ Scan(...interface{}) error }) (*models.DataObject, error) {
	o := &models.DataObject{}
	err := row.Scan(&o.ID, &o.Name, &o.Description, &o.Type, &o.DataDomainID,
		&o.CreatedBy, &o.UpdatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func insertDataObject(ctx context.Context, ex execContext, o *models.DataObject) error {
	query := `
		INSERT INTO data_objects (id, name, description, type, data_domain_id, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := ex.ExecContext(ctx, query,
		o.ID, o.Name, o.Description, o.Type, o.DataDomainID,
		o.CreatedBy, o.UpdatedBy, o.CreatedAt, o.UpdatedAt)
	return translateError(err)
}

// Create inserts a new data object, assigning its ID and provenance. Returns
// ErrInvalidReference when data_domain_id names no existing domain.
func (r *DataObjectRepository) Create(ctx context.Context, object *models.DataObject, actor string) error {
	object.ID = uuid.New().String()
	object.CreatedBy = actor
	object.UpdatedBy = actor
	object.CreatedAt = time.Now().UTC()
	object.UpdatedAt = object.CreatedAt

	return insertDataObject(ctx, r.db, object)
}

// GetByID retrieves a data object by ID; (nil, nil) when absent.
func (r *DataObjectRepository) GetByID(ctx context.Context, id string) (*models.DataObject, error) {
	query := `SELECT ` + dataObjectColumns + ` FROM data_objects WHERE id = $1`

	object, err := scanDataObject(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return object, nil
}

// GetAll retrieves every data object
func (r *DataObjectRepository) GetAll(ctx context.Context) ([]*models.DataObject, error) {
	query := `SELECT ` + dataObjectColumns + ` FROM data_objects ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	objects := make([]*models.DataObject, 0)
	for rows.Next() {
		o, err := scanDataObject(rows)
		if err != nil {
			return nil, err
		}
		objects = append(objects, o)
	}

	return objects, rows.Err()
}

// Update applies the non-nil fields of upd, always refreshing provenance.
// Returns (nil, nil) when the id is unknown.
func (r *DataObjectRepository) Update(ctx context.Context, id string, upd *DataObjectUpdate, actor string) (*models.DataObject, error) {
	object, err := r.GetByID(ctx, id)
	if err != nil || object == nil {
		return nil, err
	}

	if upd.Name != nil {
		object.Name = *upd.Name
	}
	if upd.Description != nil {
		object.Description = upd.Description
	}
	if upd.Type != nil {
		object.Type = *upd.Type
	}
	if upd.DataDomainID != nil {
		object.DataDomainID = *upd.DataDomainID
	}
	object.UpdatedBy = actor
	object.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE data_objects
		SET name = $2, description = $3, type = $4, data_domain_id = $5, updated_by = $6, updated_at = $7
		WHERE id = $1
	`

	_, err = r.db.ExecContext(ctx, query,
		object.ID, object.Name, object.Description, object.Type,
		object.DataDomainID, object.UpdatedBy, object.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}

	return object, nil
}

// Delete removes a data object. Returns false when the id is unknown.
func (r *DataObjectRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM data_objects WHERE id = $1`, id)
	if err != nil {
		return false, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateBulk persists every object spec and its fields as one logical unit.
// All inserts run in a single transaction; any failure rolls the whole batch
// back, so a half-created batch is never observable.
//
// Callers validate the specs (domain exists, objects named, each object has at
// least one field) before calling; a failure here is a server error, not a
// validation outcome.
func (r *DataObjectRepository) CreateBulk(ctx context.Context, domainID string, specs []BulkObjectSpec, actor string) ([]*models.DataObjectWithFields, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin bulk create: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	now := time.Now().UTC()
	created := make([]*models.DataObjectWithFields, 0, len(specs))

	for _, spec := range specs {
		object := &models.DataObject{
			ID:           uuid.New().String(),
			Name:         spec.Name,
			Description:  spec.Description,
			Type:         spec.Type,
			DataDomainID: domainID,
			CreatedBy:    actor,
			UpdatedBy:    actor,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := insertDataObject(ctx, tx, object); err != nil {
			return nil, fmt.Errorf("bulk create object %q: %w", spec.Name, err)
		}

		fields := make([]*models.DataField, 0, len(spec.DataFields))
		for _, fs := range spec.DataFields {
			field := &models.DataField{
				ID:                 uuid.New().String(),
				ObjectID:           object.ID,
				Name:               fs.Name,
				Description:        fs.Description,
				Type:               fs.Type,
				IsRequired:         fs.IsRequired,
				AnsiDataType:       fs.AnsiDataType,
				DisplayName:        fs.DisplayName,
				MaxCharLength:      fs.MaxCharLength,
				MinCharLength:      fs.MinCharLength,
				NumericalPrecision: fs.NumericalPrecision,
				NumericalScale:     fs.NumericalScale,
				CreatedBy:          actor,
				UpdatedBy:          actor,
				CreatedAt:          now,
				UpdatedAt:          now,
			}
			if err := insertDataField(ctx, tx, field); err != nil {
				return nil, fmt.Errorf("bulk create field %q of object %q: %w", fs.Name, spec.Name, err)
			}
			fields = append(fields, field)
		}

		created = append(created, &models.DataObjectWithFields{DataObject: *object, DataFields: fields})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bulk create: %w", err)
	}

	return created, nil
}
