package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfuentes/biblioteca-api/internal/deletion"
	"github.com/mfuentes/biblioteca-api/internal/repository"
)

func newUserHandler(t *testing.T) (*UserHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserHandler(repository.NewUserRepo(db), deletion.NewExecutor(db)), mock
}

func deleteUserRequest(h *UserHandler, id string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/users/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/users/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	_ = h.Delete(c)
	return rec
}

func TestDeleteUserSuccess(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(quote(deletion.UserDescriptor.ExistsStmt)).WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	for _, s := range deletion.UserDescriptor.Steps {
		mock.ExpectExec(quote(s.Stmt)).WithArgs(uint64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(quote(deletion.UserDescriptor.SelfStmt)).WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := deleteUserRequest(h, "3")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserNotFound(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(quote(deletion.UserDescriptor.ExistsStmt)).WithArgs(uint64(44)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	rec := deleteUserRequest(h, "44")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Usuario no encontrado", body["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Deleting an already deleted user reports 404, making the endpoint
// safe to retry.
func TestDeleteUserIdempotent(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(quote(deletion.UserDescriptor.ExistsStmt)).WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	for _, s := range deletion.UserDescriptor.Steps {
		mock.ExpectExec(quote(s.Stmt)).WithArgs(uint64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(quote(deletion.UserDescriptor.SelfStmt)).WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(quote(deletion.UserDescriptor.ExistsStmt)).WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	first := deleteUserRequest(h, "3")
	second := deleteUserRequest(h, "3")

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusNotFound, second.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserNotFound(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectQuery("SELECT u.id, u.nombre").WithArgs(uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "nombre", "direccion", "telefono", "email", "rid", "rnombre",
		}))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users/8", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/users/:id")
	c.SetParamNames("id")
	c.SetParamValues("8")
	_ = h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Usuario no encontrado", body["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
