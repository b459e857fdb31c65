package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/data-fusion-hub/data-fusion-service/internal/db/models"
)

// RoleRepository handles role and role approver relationship database
// operations.
type RoleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// RoleUpdate carries the fields of a partial role update. Nil fields are left
// untouched.
type RoleUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

const roleColumns = `id, name, description, created_by, updated_by, created_at, updated_at`

func scanRole(row interface{ Scan(...interface{}) error }) (*models.Role, error) {
	role := &models.Role{}
	err := row.Scan(&role.ID, &role.Name, &role.Description,
		&role.CreatedBy, &role.UpdatedBy, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return role, nil
}

// Create inserts a new role, assigning its ID and provenance. Returns
// ErrDuplicate when the name is already taken.
func (r *RoleRepository) Create(ctx context.Context, role *models.Role, actor string) error {
	role.ID = uuid.New().String()
	role.CreatedBy = actor
	role.UpdatedBy = actor
	role.CreatedAt = time.Now().UTC()
	role.UpdatedAt = role.CreatedAt

	query := `
		INSERT INTO roles (id, name, description, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		role.ID, role.Name, role.Description,
		role.CreatedBy, role.UpdatedBy, role.CreatedAt, role.UpdatedAt)

	return translateError(err)
}

// GetByID retrieves a role by ID; (nil, nil) when absent.
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*models.Role, error) {
	role, err := scanRole(r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

// GetAll retrieves every role
func (r *RoleRepository) GetAll(ctx context.Context) ([]*models.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM roles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]*models.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	return roles, rows.Err()
}

// Update applies the non-nil fields of upd, always refreshing provenance.
// Returns (nil, nil) when the id is unknown and ErrDuplicate when the new name
// collides.
func (r *RoleRepository) Update(ctx context.Context, id string, upd *RoleUpdate, actor string) (*models.Role, error) {
	role, err := r.GetByID(ctx, id)
	if err != nil || role == nil {
		return nil, err
	}

	if upd.Name != nil {
		role.Name = *upd.Name
	}
	if upd.Description != nil {
		role.Description = upd.Description
	}
	role.UpdatedBy = actor
	role.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE roles
		SET name = $2, description = $3, updated_by = $4, updated_at = $5
		WHERE id = $1
	`

	_, err = r.db.ExecContext(ctx, query,
		role.ID, role.Name, role.Description, role.UpdatedBy, role.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}

	return role, nil
}

// Delete removes a role. Returns false when the id is unknown.
func (r *RoleRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return false, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const approverColumns = `id, role_id, approver_role_id, created_by, updated_by, created_at, updated_at`

func scanApprover(row interface{ Scan(...interface{}) error }) (*models.RoleApproverRelationship, error) {
	rel := &models.RoleApproverRelationship{}
	err := row.Scan(&rel.ID, &rel.RoleID, &rel.ApproverRoleID,
		&rel.CreatedBy, &rel.UpdatedBy, &rel.CreatedAt, &rel.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rel, nil
}

// ListApprovers retrieves every approver relationship of one role.
func (r *RoleRepository) ListApprovers(ctx context.Context, roleID string) ([]*models.RoleApproverRelationship, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+approverColumns+` FROM role_approver_relationships WHERE role_id = $1 ORDER BY created_at`,
		roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rels := make([]*models.RoleApproverRelationship, 0)
	for rows.Next() {
		rel, err := scanApprover(rows)
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}

	return rels, rows.Err()
}

// ReplaceApprovers swaps the full approver set of a role in one transaction:
// the existing relationships are deleted and one row per approver role is
// inserted. Callers validate the role and every approver role first.
func (r *RoleRepository) ReplaceApprovers(ctx context.Context, roleID string, approverRoleIDs []string, actor string) ([]*models.RoleApproverRelationship, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin approver replace: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM role_approver_relationships WHERE role_id = $1`, roleID); err != nil {
		return nil, translateError(err)
	}

	now := time.Now().UTC()
	rels := make([]*models.RoleApproverRelationship, 0, len(approverRoleIDs))
	for _, approverID := range approverRoleIDs {
		rel := &models.RoleApproverRelationship{
			ID:             uuid.New().String(),
			RoleID:         roleID,
			ApproverRoleID: approverID,
			CreatedBy:      actor,
			UpdatedBy:      actor,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO role_approver_relationships (id, role_id, approver_role_id, created_by, updated_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, rel.ID, rel.RoleID, rel.ApproverRoleID,
			rel.CreatedBy, rel.UpdatedBy, rel.CreatedAt, rel.UpdatedAt)
		if err != nil {
			return nil, translateError(err)
		}

		rels = append(rels, rel)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit approver replace: %w", err)
	}

	return rels, nil
}

// DeleteApprover removes one approver relationship of a role. Returns false
// when no such relationship exists.
func (r *RoleRepository) DeleteApprover(ctx context.Context, roleID, approverRoleID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM role_approver_relationships WHERE role_id = $1 AND approver_role_id = $2`,
		roleID, approverRoleID)
	if err != nil {
		return false, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
