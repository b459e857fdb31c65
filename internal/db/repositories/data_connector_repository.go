package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/data-fusion-hub/data-fusion-service/internal/crypto"
	"github.com/data-fusion-hub/data-fusion-service/internal/db/models"
)

// DataConnectorRepository handles data connector database operations. The
// authentication block of every connector is sealed with AES-GCM before it is
// written and opened again on read, so credentials never touch the database in
// plaintext.
type DataConnectorRepository struct {
	db     *sqlx.DB
	cipher *crypto.SecretCipher
}

// NewDataConnectorRepository creates a new DataConnectorRepository
func NewDataConnectorRepository(db *sqlx.DB, cipher *crypto.SecretCipher) *DataConnectorRepository {
	return &DataConnectorRepository{db: db, cipher: cipher}
}

// DataConnectorUpdate carries the fields of a partial connector update. Nil
// fields are left untouched.
type DataConnectorUpdate struct {
	Name           *string                `json:"name"`
	Description    *string                `json:"description"`
	Type           *string                `json:"type"`
	Configuration  map[string]interface{} `json:"configuration"`
	Authentication map[string]interface{} `json:"authentication"`
}

// connectorRow is the flat database shape of a connector. Configuration is the
// raw JSONB bytes; Authentication is the sealed base64 blob, NULL when the
// connector has no credentials.
type connectorRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description *string        `db:"description"`
	Type        string         `db:"type"`
	ConfigJSON  []byte         `db:"configuration"`
	AuthSealed  sql.NullString `db:"authentication"`
	CreatedBy   string         `db:"created_by"`
	UpdatedBy   string         `db:"updated_by"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r *DataConnectorRepository) toRow(c *models.DataConnector) (*connectorRow, error) {
	configJSON, err := json.Marshal(c.Configuration)
	if err != nil {
		return nil, fmt.Errorf("marshal connector configuration: %w", err)
	}

	row := &connectorRow{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Type,
		ConfigJSON:  configJSON,
		CreatedBy:   c.CreatedBy,
		UpdatedBy:   c.UpdatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	if len(c.Authentication) > 0 {
		authJSON, err := json.Marshal(c.Authentication)
		if err != nil {
			return nil, fmt.Errorf("marshal connector authentication: %w", err)
		}
		sealed, err := r.cipher.Seal(string(authJSON))
		if err != nil {
			return nil, fmt.Errorf("seal connector authentication: %w", err)
		}
		row.AuthSealed = sql.NullString{String: sealed, Valid: true}
	}

	return row, nil
}

func (r *DataConnectorRepository) toModel(row *connectorRow) (*models.DataConnector, error) {
	c := &models.DataConnector{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Type:        row.Type,
		CreatedBy:   row.CreatedBy,
		UpdatedBy:   row.UpdatedBy,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}

	if len(row.ConfigJSON) > 0 {
		if err := json.Unmarshal(row.ConfigJSON, &c.Configuration); err != nil {
			return nil, fmt.Errorf("unmarshal connector configuration: %w", err)
		}
	}

	if row.AuthSealed.Valid && row.AuthSealed.String != "" {
		authJSON, err := r.cipher.Open(row.AuthSealed.String)
		if err != nil {
			return nil, fmt.Errorf("open connector authentication: %w", err)
		}
		if err := json.Unmarshal([]byte(authJSON), &c.Authentication); err != nil {
			return nil, fmt.Errorf("unmarshal connector authentication: %w", err)
		}
	}

	return c, nil
}

const connectorColumns = `id, name, description, type, configuration, authentication, created_by, updated_by, created_at, updated_at`

// Create inserts a new data connector, assigning its ID and provenance and
// sealing its authentication block.
func (r *DataConnectorRepository) Create(ctx context.Context, connector *models.DataConnector, actor string) error {
	connector.ID = uuid.New().String()
	connector.CreatedBy = actor
	connector.UpdatedBy = actor
	connector.CreatedAt = time.Now().UTC()
	connector.UpdatedAt = connector.CreatedAt

	row, err := r.toRow(connector)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO data_connectors (id, name, description, type, configuration, authentication, created_by, updated_by, created_at, updated_at)
		VALUES (:id, :name, :description, :type, :configuration, :authentication, :created_by, :updated_by, :created_at, :updated_at)
	`

	_, err = r.db.NamedExecContext(ctx, query, row)
	return translateError(err)
}

// GetByID retrieves a data connector by ID; (nil, nil) when absent.
func (r *DataConnectorRepository) GetByID(ctx context.Context, id string) (*models.DataConnector, error) {
	var row connectorRow
	err := r.db.GetContext(ctx, &row, `SELECT `+connectorColumns+` FROM data_connectors WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.toModel(&row)
}

// GetAll retrieves every data connector
func (r *DataConnectorRepository) GetAll(ctx context.Context) ([]*models.DataConnector, error) {
	var rows []connectorRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+connectorColumns+` FROM data_connectors ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}

	connectors := make([]*models.DataConnector, 0, len(rows))
	for i := range rows {
		c, err := r.toModel(&rows[i])
		if err != nil {
			return nil, err
		}
		connectors = append(connectors, c)
	}
	return connectors, nil
}

// List retrieves one page of data connectors plus the total count.
func (r *DataConnectorRepository) List(ctx context.Context, limit, offset int) ([]*models.DataConnector, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM data_connectors`); err != nil {
		return nil, 0, err
	}

	var rows []connectorRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+connectorColumns+` FROM data_connectors ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}

	connectors := make([]*models.DataConnector, 0, len(rows))
	for i := range rows {
		c, err := r.toModel(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		connectors = append(connectors, c)
	}
	return connectors, total, nil
}

// Update applies the non-nil fields of upd, always refreshing provenance.
// Configuration and Authentication replace the stored objects wholesale when
// present. Returns (nil, nil) when the id is unknown.
func (r *DataConnectorRepository) Update(ctx context.Context, id string, upd *DataConnectorUpdate, actor string) (*models.DataConnector, error) {
	connector, err := r.GetByID(ctx, id)
	if err != nil || connector == nil {
		return nil, err
	}

	if upd.Name != nil {
		connector.Name = *upd.Name
	}
	if upd.Description != nil {
		connector.Description = upd.Description
	}
	if upd.Type != nil {
		connector.Type = *upd.Type
	}
	if upd.Configuration != nil {
		connector.Configuration = upd.Configuration
	}
	if upd.Authentication != nil {
		connector.Authentication = upd.Authentication
	}
	connector.UpdatedBy = actor
	connector.UpdatedAt = time.Now().UTC()

	row, err := r.toRow(connector)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE data_connectors
		SET name = :name, description = :description, type = :type,
			configuration = :configuration, authentication = :authentication,
			updated_by = :updated_by, updated_at = :updated_at
		WHERE id = :id
	`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return nil, translateError(err)
	}

	return connector, nil
}

// Delete removes a data connector. Returns false when the id is unknown.
func (r *DataConnectorRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM data_connectors WHERE id = $1`, id)
	if err != nil {
		return false, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
