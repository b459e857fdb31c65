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

func newRequestRepo(t *testing.T) (*UserRoleRequestRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserRoleRequestRepository(db), mock
}

func requestRows(req *models.UserRoleRequest) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "role_id", "justification", "reason", "status",
		"created_by", "updated_by", "created_at", "updated_at"}).
		AddRow(req.ID, req.UserID, req.RoleID, req.Justification, req.Reason, req.Status,
			req.CreatedBy, req.UpdatedBy, req.CreatedAt, req.UpdatedAt)
}

func TestRequestCreateStartsPending(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectExec("INSERT INTO user_role_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := &models.UserRoleRequest{
		UserID:        "u1",
		RoleID:        "r1",
		Justification: "need access for quarterly reporting",
		Status:        "approved", // must be ignored
	}
	if err := repo.Create(context.Background(), req, "jane@x.com"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if req.Status != models.RequestStatusPending {
		t.Errorf("Status = %q, want pending regardless of input", req.Status)
	}
	if req.ID == "" {
		t.Error("Create did not assign an ID")
	}
}

func TestRequestCreateUnknownRole(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectExec("INSERT INTO user_role_requests").
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Create(context.Background(), &models.UserRoleRequest{UserID: "u1", RoleID: "ghost"}, "jane@x.com")
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("err = %v, want ErrInvalidReference", err)
	}
}

func TestRequestUpdateStatus(t *testing.T) {
	repo, mock := newRequestRepo(t)

	now := time.Now().UTC().Add(-time.Hour)
	stored := &models.UserRoleRequest{
		ID: "req-1", UserID: "u1", RoleID: "r1",
		Justification: "need access", Status: models.RequestStatusPending,
		CreatedBy: "jane@x.com", UpdatedBy: "jane@x.com", CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery("SELECT .* FROM user_role_requests WHERE id").
		WithArgs("req-1").
		WillReturnRows(requestRows(stored))
	mock.ExpectExec("UPDATE user_role_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))

	reason := "verified with team lead"
	updated, err := repo.UpdateStatus(context.Background(), "req-1", models.RequestStatusApproved, &reason, "boss@x.com")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != models.RequestStatusApproved {
		t.Errorf("Status = %q, want approved", updated.Status)
	}
	if updated.Reason == nil || *updated.Reason != reason {
		t.Error("approver reason not recorded")
	}
	if updated.UpdatedBy != "boss@x.com" {
		t.Errorf("UpdatedBy = %q, want approver", updated.UpdatedBy)
	}
}

func TestRequestUpdateStatusMissing(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectQuery("SELECT .* FROM user_role_requests WHERE id").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	updated, err := repo.UpdateStatus(context.Background(), "ghost", models.RequestStatusDenied, nil, "boss@x.com")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated != nil {
		t.Errorf("updated = %+v, want nil for missing row", updated)
	}
}

func TestRequestListByUser(t *testing.T) {
	repo, mock := newRequestRepo(t)

	now := time.Now().UTC()
	stored := &models.UserRoleRequest{
		ID: "req-1", UserID: "u1", RoleID: "r1",
		Justification: "need access", Status: models.RequestStatusPending,
		CreatedBy: "jane@x.com", UpdatedBy: "jane@x.com", CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery("SELECT .* FROM user_role_requests WHERE user_id").
		WithArgs("u1").
		WillReturnRows(requestRows(stored))

	requests, err := repo.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(requests) != 1 || requests[0].ID != "req-1" {
		t.Errorf("requests = %+v", requests)
	}
}
