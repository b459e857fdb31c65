package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/data-fusion-hub/data-fusion-service/internal/db/models"
)

// DataDomainRepository handles data domain database operations
type DataDomainRepository struct {
	db *sql.DB
}

// NewDataDomainRepository creates a new DataDomainRepository
func NewDataDomainRepository(db *sql.DB) *DataDomainRepository {
	return &DataDomainRepository{db: db}
}

// DataDomainUpdate carries the fields of a partial domain update. Nil fields
// are left untouched.
type DataDomainUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

const dataDomainColumns = `id, name, description, created_by, updated_by, created_at, updated_at`

func scanDataDomain(row interface{ Scan(...interface{}) error }) (*models.DataDomain, error) {
	d := &models.DataDomain{}
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedBy, &d.UpdatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts a new data domain, assigning its ID and provenance. Returns
// ErrDuplicate when the name is already taken.
func (r *DataDomainRepository) Create(ctx context.Context, domain *models.DataDomain, actor string) error {
	domain.ID = uuid.New().String()
	domain.CreatedBy = actor
	domain.UpdatedBy = actor
	domain.CreatedAt = time.Now().UTC()
	domain.UpdatedAt = domain.CreatedAt

	query := `
		INSERT INTO data_domains (id, name, description, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		domain.ID,
		domain.Name,
		domain.Description,
		domain.CreatedBy,
		domain.UpdatedBy,
		domain.CreatedAt,
		domain.UpdatedAt,
	)

	return translateError(err)
}

// GetByID retrieves a data domain by ID; (nil, nil) when absent.
func (r *DataDomainRepository) GetByID(ctx context.Context, id string) (*models.DataDomain, error) {
	query := `SELECT ` + dataDomainColumns + ` FROM data_domains WHERE id = $1`

	domain, err := scanDataDomain(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return domain, nil
}

// GetAll retrieves every data domain
func (r *DataDomainRepository) GetAll(ctx context.Context) ([]*models.DataDomain, error) {
	query := `SELECT ` + dataDomainColumns + ` FROM data_domains ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	domains := make([]*models.DataDomain, 0)
	for rows.Next() {
		d, err := scanDataDomain(rows)
		if err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}

	return domains, rows.Err()
}

// List retrieves one page of data domains plus the total count. Pagination is
// pushed into the store with LIMIT/OFFSET rather than slicing in memory.
func (r *DataDomainRepository) List(ctx context.Context, limit, offset int) ([]*models.DataDomain, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM data_domains`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + dataDomainColumns + `
		FROM data_domains
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	domains := make([]*models.DataDomain, 0)
	for rows.Next() {
		d, err := scanDataDomain(rows)
		if err != nil {
			return nil, 0, err
		}
		domains = append(domains, d)
	}

	return domains, total, rows.Err()
}

// Update applies the non-nil fields of upd to the domain, always refreshing
// updated_by/updated_at. Returns (nil, nil) when the id is unknown and
// ErrDuplicate when the new name collides.
func (r *DataDomainRepository) Update(ctx context.Context, id string, upd *DataDomainUpdate, actor string) (*models.DataDomain, error) {
	domain, err := r.GetByID(ctx, id)
	if err != nil || domain == nil {
		return nil, err
	}

	if upd.Name != nil {
		domain.Name = *upd.Name
	}
	if upd.Description != nil {
		domain.Description = upd.Description
	}
	domain.UpdatedBy = actor
	domain.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE data_domains
		SET name = $2, description = $3, updated_by = $4, updated_at = $5
		WHERE id = $1
	`

	_, err = r.db.ExecContext(ctx, query,
		domain.ID,
		domain.Name,
		domain.Description,
		domain.UpdatedBy,
		domain.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}

	return domain, nil
}

// Delete removes a data domain. Returns false when the id is unknown.
func (r *DataDomainRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM data_domains WHERE id = $1`, id)
	if err != nil {
		return false, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
