package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/data-fusion-hub/data-fusion-service/internal/db/models"
)

// UserRoleRequestRepository handles user role request database operations
type UserRoleRequestRepository struct {
	db *sql.DB
}

// NewUserRoleRequestRepository creates a new UserRoleRequestRepository
func NewUserRoleRequestRepository(db *sql.DB) *UserRoleRequestRepository {
	return &UserRoleRequestRepository{db: db}
}

const requestColumns = `id, user_id, role_id, justification, reason, status, created_by, updated_by, created_at, updated_at`

func scanRequest(row interface{ Scan(...interface{}) error }) (*models.UserRoleRequest, error) {
	req := &models.UserRoleRequest{}
	err := row.Scan(&req.ID, &req.UserID, &req.RoleID, &req.Justification, &req.Reason, &req.Status,
		&req.CreatedBy, &req.UpdatedBy, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Create inserts a new role request in pending status, assigning its ID and
// provenance. Returns ErrInvalidReference when user_id or role_id names no
// existing row.
func (r *UserRoleRequestRepository) Create(ctx context.Context, req *models.UserRoleRequest, actor string) error {
	req.ID = uuid.New().String()
	req.Status = models.RequestStatusPending
	req.CreatedBy = actor
	req.UpdatedBy = actor
	req.CreatedAt = time.Now().UTC()
	req.UpdatedAt = req.CreatedAt

	query := `
		INSERT INTO user_role_requests (id, user_id, role_id, justification, reason, status, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.UserID, req.RoleID, req.Justification, req.Reason, req.Status,
		req.CreatedBy, req.UpdatedBy, req.CreatedAt, req.UpdatedAt)

	return translateError(err)
}

// GetByID retrieves a role request by ID; (nil, nil) when absent.
func (r *UserRoleRequestRepository) GetByID(ctx context.Context, id string) (*models.UserRoleRequest, error) {
	req, err := scanRequest(r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM user_role_requests WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// GetAll retrieves every role request
func (r *UserRoleRequestRepository) GetAll(ctx context.Context) ([]*models.UserRoleRequest, error) {
	return r.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM user_role_requests ORDER BY created_at DESC`)
}

// ListByUser retrieves all role requests filed by one user.
func (r *UserRoleRequestRepository) ListByUser(ctx context.Context, userID string) ([]*models.UserRoleRequest, error) {
	return r.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM user_role_requests WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
}

func (r *UserRoleRequestRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*models.UserRoleRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*models.UserRoleRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// UpdateStatus moves a request to the given status, recording the approver's
// optional reason and refreshing provenance. Returns (nil, nil) when the id is
// unknown.
func (r *UserRoleRequestRepository) UpdateStatus(ctx context.Context, id, status string, reason *string, actor string) (*models.UserRoleRequest, error) {
	req, err := r.GetByID(ctx, id)
	if err != nil || req == nil {
		return nil, err
	}

	req.Status = status
	if reason != nil {
		req.Reason = reason
	}
	req.UpdatedBy = actor
	req.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE user_role_requests
		SET status = $2, reason = $3, updated_by = $4, updated_at = $5
		WHERE id = $1
	`

	_, err = r.db.ExecContext(ctx, query,
		req.ID, req.Status, req.Reason, req.UpdatedBy, req.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}

	return req, nil
}

// Delete removes a role request. Returns false when the id is unknown.
func (r *UserRoleRequestRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_role_requests WHERE id = $1`, id)
	if err != nil {
		return false, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
