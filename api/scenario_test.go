package api

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"taskbook-api/domain"
	"taskbook-api/storage"
)

func TestTaskLifecycleOverHTTP(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	st := storage.New(db)
	e := newTestServer(Services{
		Tasks: domain.NewTaskService(st),
		Notes: domain.NewNoteService(st, nil),
	})

	selectByID := regexp.QuoteMeta("SELECT id, task FROM tasks WHERE id = $1")
	columns := []string{"id", "task"}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks (task) VALUES ($1) RETURNING id")).
		WithArgs("Buy milk").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	rec, env := doRequest(t, e, jsonRequest(http.MethodPost, "/tasks", `{"task":"Buy milk"}`))
	assertTaskEnvelope(t, rec, env, 3, "Buy milk")

	mock.ExpectQuery(selectByID).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(3, "Buy milk"))
	rec, env = doRequest(t, e, httptest.NewRequest(http.MethodGet, "/tasks/3", nil))
	assertTaskEnvelope(t, rec, env, 3, "Buy milk")

	mock.ExpectQuery(selectByID).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(3, "Buy milk"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks SET task = $1 WHERE id = $2")).
		WithArgs("Buy bread", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	rec, env = doRequest(t, e, jsonRequest(http.MethodPut, "/tasks/3", `{"task":"Buy bread"}`))
	assertTaskEnvelope(t, rec, env, 3, "Buy bread")

	mock.ExpectQuery(selectByID).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(3, "Buy bread"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	rec, env = doRequest(t, e, httptest.NewRequest(http.MethodDelete, "/tasks/3", nil))
	if rec.Code != http.StatusOK || env.Status != domain.StatusSuccess {
		t.Fatalf("unexpected delete response %d %#v", rec.Code, env)
	}
	if env.Message != "La tarea fue eliminada correctamente." {
		t.Fatalf("unexpected delete message %#v", env.Message)
	}

	mock.ExpectQuery(selectByID).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(columns))
	rec, env = doRequest(t, e, httptest.NewRequest(http.MethodGet, "/tasks/3", nil))
	if rec.Code != http.StatusNotFound || env.Status != domain.StatusError || env.Code != http.StatusNotFound {
		t.Fatalf("expected 404 envelope after delete, got %d %#v", rec.Code, env)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTaskCreateValidationSkipsStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	st := storage.New(db)
	e := newTestServer(Services{Tasks: domain.NewTaskService(st), Notes: domain.NewNoteService(st, nil)})

	rec, env := doRequest(t, e, jsonRequest(http.MethodPost, "/tasks", `{"task":""}`))
	if rec.Code != http.StatusBadRequest || env.Message != "Ingrese el nombre de la tarea." {
		t.Fatalf("unexpected response %d %#v", rec.Code, env)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected store calls: %v", err)
	}
}

func assertTaskEnvelope(t *testing.T, rec *httptest.ResponseRecorder, env domain.Envelope, id int, name string) {
	t.Helper()
	if rec.Code != http.StatusOK || env.Status != domain.StatusSuccess || env.Code != http.StatusOK {
		t.Fatalf("unexpected response %d %#v", rec.Code, env)
	}
	msg, ok := env.Message.(map[string]any)
	if !ok {
		t.Fatalf("unexpected message %#v", env.Message)
	}
	if msg["id"] != float64(id) || msg["task"] != name {
		t.Fatalf("expected {id:%d task:%q}, got %#v", id, name, msg)
	}
}
