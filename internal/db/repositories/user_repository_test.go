package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/data-fusion-hub/data-fusion-service/internal/db/models"
)

func newUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

func userRows(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "first_name", "middle_name", "last_name",
		"password_hash", "created_by", "updated_by", "created_at", "updated_at"}).
		AddRow(u.ID, u.Email, u.FirstName, u.MiddleName, u.LastName, u.PasswordHash,
			u.CreatedBy, u.UpdatedBy, u.CreatedAt, u.UpdatedAt)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.User{Email: "dup@x.com", FirstName: "A", LastName: "B"}, "a@x.com")
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	repo, mock := newUserRepo(t)

	now := time.Now().UTC()
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	stored := &models.User{
		ID: "u1", Email: "jane@x.com", FirstName: "Jane", LastName: "Doe", PasswordHash: &hash,
		CreatedBy: "a@x.com", UpdatedBy: "a@x.com", CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery("SELECT .* FROM users WHERE email").
		WithArgs("jane@x.com").
		WillReturnRows(userRows(stored))

	user, err := repo.GetByEmail(context.Background(), "jane@x.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user == nil || user.ID != "u1" {
		t.Fatalf("user = %+v, want u1", user)
	}
	if user.PasswordHash == nil || *user.PasswordHash != hash {
		t.Error("password hash not loaded for credential check")
	}
}

func TestUserGetByEmailMissing(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT .* FROM users WHERE email").
		WithArgs("ghost@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.GetByEmail(context.Background(), "ghost@x.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil for missing row", user)
	}
}

func TestUserUpdatePreservesUntouchedFields(t *testing.T) {
	repo, mock := newUserRepo(t)

	now := time.Now().UTC().Add(-time.Hour)
	stored := &models.User{
		ID: "u1", Email: "jane@x.com", FirstName: "Jane", LastName: "Doe",
		CreatedBy: "a@x.com", UpdatedBy: "a@x.com", CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery("SELECT .* FROM users WHERE id").
		WithArgs("u1").
		WillReturnRows(userRows(stored))
	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	last := "Smith"
	updated, err := repo.Update(context.Background(), "u1", &UserUpdate{LastName: &last}, "b@x.com")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.LastName != "Smith" {
		t.Errorf("LastName = %q, want Smith", updated.LastName)
	}
	if updated.Email != "jane@x.com" || updated.FirstName != "Jane" {
		t.Error("untouched fields were changed")
	}
	if updated.UpdatedBy != "b@x.com" {
		t.Errorf("UpdatedBy = %q, want new actor", updated.UpdatedBy)
	}
}
