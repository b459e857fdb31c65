package catalog

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func newObjectRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewObjectHandlers(db)
	router := gin.New()
	router.Use(testActor("admin@x.com"))
	router.POST("/data-objects", h.Create)
	router.POST("/data-objects/bulk", h.CreateBulk)
	router.GET("/data-objects/:id", h.Get)
	return router, mock
}

func domainRow(id string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "name", "description", "created_by", "updated_by", "created_at", "updated_at"}).
		AddRow(id, "Finance", nil, "a@x.com", "a@x.com", now, now)
}

func TestObjectCreateUnknownDomain(t *testing.T) {
	router, mock := newObjectRouter(t)

	mock.ExpectExec("INSERT INTO data_objects").
		WillReturnError(&pq.Error{Code: "23503"})

	w := doJSON(t, router, http.MethodPost, "/data-objects",
		gin.H{"name": "invoices", "type": "table", "data_domain_id": "ghost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Data domain not found")
}

func TestBulkCreateUnknownDomain(t *testing.T) {
	router, mock := newObjectRouter(t)

	mock.ExpectQuery("SELECT .* FROM data_domains WHERE id").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := doJSON(t, router, http.MethodPost, "/data-objects/bulk", gin.H{
		"data_domain_id": "ghost",
		"data_objects": []gin.H{
			{"name": "invoices", "type": "table", "data_fields": []gin.H{{"name": "id", "type": "uuid"}}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Data domain not found")
}

func TestBulkCreateRejectsObjectWithoutFields(t *testing.T) {
	router, mock := newObjectRouter(t)

	mock.ExpectQuery("SELECT .* FROM data_domains WHERE id").
		WithArgs("d1").
		WillReturnRows(domainRow("d1"))

	w := doJSON(t, router, http.MethodPost, "/data-objects/bulk", gin.H{
		"data_domain_id": "d1",
		"data_objects": []gin.H{
			{"name": "invoices", "type": "table", "data_fields": []gin.H{}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least one data field")
}

func TestBulkCreateRejectsEmptyBatch(t *testing.T) {
	router, _ := newObjectRouter(t)

	w := doJSON(t, router, http.MethodPost, "/data-objects/bulk", gin.H{
		"data_domain_id": "d1",
		"data_objects":   []gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkCreateSuccess(t *testing.T) {
	router, mock := newObjectRouter(t)

	mock.ExpectQuery("SELECT .* FROM data_domains WHERE id").
		WithArgs("d1").
		WillReturnRows(domainRow("d1"))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO data_objects").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO data_fields").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO data_fields").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doJSON(t, router, http.MethodPost, "/data-objects/bulk", gin.H{
		"data_domain_id": "d1",
		"data_objects": []gin.H{
			{"name": "invoices", "type": "table", "data_fields": []gin.H{
				{"name": "id", "type": "uuid"},
				{"name": "amount", "type": "numeric"},
			}},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var created []map[string]interface{}
	decodeJSON(t, w, &created)
	assert.Len(t, created, 1)
	assert.Equal(t, "invoices", created[0]["name"])
	fields, ok := created[0]["data_fields"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, fields, 2)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestBulkCreateFailureRollsBack(t *testing.T) {
	router, mock := newObjectRouter(t)

	mock.ExpectQuery("SELECT .* FROM data_domains WHERE id").
		WithArgs("d1").
		WillReturnRows(domainRow("d1"))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO data_objects").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	w := doJSON(t, router, http.MethodPost, "/data-objects/bulk", gin.H{
		"data_domain_id": "d1",
		"data_objects": []gin.H{
			{"name": "invoices", "type": "table", "data_fields": []gin.H{{"name": "id", "type": "uuid"}}},
		},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
