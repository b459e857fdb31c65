package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/data-fusion-hub/data-fusion-service/internal/db/models"
)

func newRoleRepo(t *testing.T) (*RoleRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRoleRepository(db), mock
}

func TestRoleCreateDuplicateName(t *testing.T) {
	repo, mock := newRoleRepo(t)

	mock.ExpectExec("INSERT INTO roles").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Role{Name: "analyst"}, "a@x.com")
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
}

func TestReplaceApproversSwapsSetInOneTransaction(t *testing.T) {
	repo, mock := newRoleRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM role_approver_relationships").
		WithArgs("role-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO role_approver_relationships").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO role_approver_relationships").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rels, err := repo.ReplaceApprovers(context.Background(), "role-1", []string{"approver-a", "approver-b"}, "a@x.com")
	if err != nil {
		t.Fatalf("ReplaceApprovers: %v", err)
	}
	if len(rels) != 2 {
		t.Fatalf("created %d relationships, want 2", len(rels))
	}
	for i, approver := range []string{"approver-a", "approver-b"} {
		if rels[i].RoleID != "role-1" || rels[i].ApproverRoleID != approver {
			t.Errorf("rel %d = %+v", i, rels[i])
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReplaceApproversEmptySetClearsRole(t *testing.T) {
	repo, mock := newRoleRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM role_approver_relationships").
		WithArgs("role-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	rels, err := repo.ReplaceApprovers(context.Background(), "role-1", nil, "a@x.com")
	if err != nil {
		t.Fatalf("ReplaceApprovers: %v", err)
	}
	if len(rels) != 0 {
		t.Errorf("rels = %+v, want empty", rels)
	}
}

func TestReplaceApproversRollsBackOnInsertFailure(t *testing.T) {
	repo, mock := newRoleRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM role_approver_relationships").
		WithArgs("role-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO role_approver_relationships").
		WillReturnError(&pq.Error{Code: "23514"})
	mock.ExpectRollback()

	rels, err := repo.ReplaceApprovers(context.Background(), "role-1", []string{"role-1"}, "a@x.com")
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("err = %v, want ErrInvalidReference", err)
	}
	if rels != nil {
		t.Errorf("rels = %+v, want nil after rollback", rels)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteApprover(t *testing.T) {
	repo, mock := newRoleRepo(t)

	mock.ExpectExec("DELETE FROM role_approver_relationships").
		WithArgs("role-1", "approver-a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM role_approver_relationships").
		WithArgs("role-1", "approver-a").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteApprover(context.Background(), "role-1", "approver-a")
	if err != nil || !deleted {
		t.Fatalf("first DeleteApprover = (%v, %v), want (true, nil)", deleted, err)
	}

	deleted, err = repo.DeleteApprover(context.Background(), "role-1", "approver-a")
	if err != nil || deleted {
		t.Fatalf("second DeleteApprover = (%v, %v), want (false, nil)", deleted, err)
	}
}
