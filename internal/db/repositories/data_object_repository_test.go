package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/data-fusion-hub/data-fusion-service/internal/db/models"
)

func newObjectRepo(t *testing.T) (*DataObjectRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewDataObjectRepository(db), mock
}

func TestDataObjectCreateUnknownDomain(t *testing.T) {
	repo, mock := newObjectRepo(t)

	mock.ExpectExec("INSERT INTO data_objects").
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Create(context.Background(), &models.DataObject{Name: "invoices", Type: "table", DataDomainID: "ghost"}, "a@x.com")
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("err = %v, want ErrInvalidReference", err)
	}
}

func TestCreateBulkCommitsAllInserts(t *testing.T) {
	repo, mock := newObjectRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO data_objects").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO data_fields").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO data_fields").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO data_objects").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO data_fields").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	specs := []BulkObjectSpec{
		{Name: "invoices", Type: "table", DataFields: []BulkFieldSpec{
			{Name: "id", Type: "uuid"},
			{Name: "amount", Type: "numeric"},
		}},
		{Name: "payments", Type: "table", DataFields: []BulkFieldSpec{
			{Name: "id", Type: "uuid"},
		}},
	}

	created, err := repo.CreateBulk(context.Background(), "domain-1", specs, "a@x.com")
	if err != nil {
		t.Fatalf("CreateBulk: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created %d objects, want 2", len(created))
	}
	if len(created[0].DataFields) != 2 || len(created[1].DataFields) != 1 {
		t.Errorf("field counts = %d/%d, want 2/1", len(created[0].DataFields), len(created[1].DataFields))
	}
	for _, obj := range created {
		if obj.DataDomainID != "domain-1" {
			t.Errorf("object %q domain = %q, want domain-1", obj.Name, obj.DataDomainID)
		}
		for _, f := range obj.DataFields {
			if f.ObjectID != obj.ID {
				t.Errorf("field %q not linked to its object", f.Name)
			}
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateBulkRollsBackOnFieldFailure(t *testing.T) {
	repo, mock := newObjectRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO data_objects").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO data_fields").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	specs := []BulkObjectSpec{
		{Name: "invoices", Type: "table", DataFields: []BulkFieldSpec{{Name: "id", Type: "uuid"}}},
	}

	created, err := repo.CreateBulk(context.Background(), "domain-1", specs, "a@x.com")
	if err == nil {
		t.Fatal("expected error from failed field insert")
	}
	if created != nil {
		t.Errorf("created = %+v, want nil after rollback", created)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
