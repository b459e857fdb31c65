package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/data-fusion-hub/data-fusion-service/internal/db/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UserUpdate carries the fields of a partial user update. Nil fields are left
// untouched. Password, when present, arrives already hashed.
type UserUpdate struct {
	Email        *string
	FirstName    *string
	MiddleName   *string
	LastName     *string
	PasswordHash *string
}

const userColumns = `id, email, first_name, middle_name, last_name, password_hash, created_by, updated_by, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.MiddleName, &u.LastName, &u.PasswordHash,
		&u.CreatedBy, &u.UpdatedBy, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user, assigning its ID and provenance. Returns
// ErrDuplicate when the email is already registered.
func (r *UserRepository) Create(ctx context.Context, user *models.User, actor string) error {
	user.ID = uuid.New().String()
	user.CreatedBy = actor
	user.UpdatedBy = actor
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	query := `
		INSERT INTO users (id, email, first_name, middle_name, last_name, password_hash, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.FirstName, user.MiddleName, user.LastName,
		user.PasswordHash, user.CreatedBy, user.UpdatedBy, user.CreatedAt, user.UpdatedAt)

	return translateError(err)
}

// GetByID retrieves a user by ID; (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email via the unique index; (nil, nil) when
// absent. This is the login lookup path.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetAll retrieves every user
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// Update applies the non-nil fields of upd, always refreshing provenance.
// Returns (nil, nil) when the id is unknown and ErrDuplicate when the new
// email collides.
func (r *UserRepository) Update(ctx context.Context, id string, upd *UserUpdate, actor string) (*models.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}

	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.MiddleName != nil {
		user.MiddleName = upd.MiddleName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}
	if upd.PasswordHash != nil {
		user.PasswordHash = upd.PasswordHash
	}
	user.UpdatedBy = actor
	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = $2, first_name = $3, middle_name = $4, last_name = $5, password_hash = $6,
			updated_by = $7, updated_at = $8
		WHERE id = $1
	`

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.FirstName, user.MiddleName, user.LastName,
		user.PasswordHash, user.UpdatedBy, user.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}

	return user, nil
}

// Delete removes a user. Returns false when the id is unknown.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
