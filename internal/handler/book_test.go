package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfuentes/biblioteca-api/internal/deletion"
	"github.com/mfuentes/biblioteca-api/internal/repository"
)

// quote builds the exact-match pattern sqlmock compares against.
func quote(q string) string {
	return "^" + regexp.QuoteMeta(strings.Join(strings.Fields(q), " ")) + "$"
}

func newBookHandler(t *testing.T) (*BookHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookHandler(repository.NewBookRepo(db), deletion.NewExecutor(db)), mock
}

func deleteBookRequest(h *BookHandler, id string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/books/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/books/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	_ = h.Delete(c)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestDeleteBookInvalidID(t *testing.T) {
	h, _ := newBookHandler(t)

	rec := deleteBookRequest(h, "abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ID inválido", body["error"])
	assert.Equal(t, "El ID debe ser un número", body["details"])
}

func TestDeleteBookNotFound(t *testing.T) {
	h, mock := newBookHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(quote(deletion.BookDescriptor.ExistsStmt)).WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	rec := deleteBookRequest(h, "99")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Libro no encontrado", body["error"])
	assert.Equal(t, "No se encontró un libro con el ID 99", body["details"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBookBlockedByActiveLoans(t *testing.T) {
	h, mock := newBookHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(quote(deletion.BookDescriptor.ExistsStmt)).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(quote(deletion.BookDescriptor.Guards[0].Query)).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	rec := deleteBookRequest(h, "7")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "No se puede eliminar el libro", body["error"])
	assert.Equal(t, "El libro tiene préstamos o reservas activas", body["details"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBookSuccess(t *testing.T) {
	h, mock := newBookHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(quote(deletion.BookDescriptor.ExistsStmt)).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	for _, g := range deletion.BookDescriptor.Guards {
		mock.ExpectQuery(quote(g.Query)).WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	}
	for _, s := range deletion.BookDescriptor.Steps {
		mock.ExpectExec(quote(s.Stmt)).WithArgs(uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(quote(deletion.BookDescriptor.SelfStmt)).WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := deleteBookRequest(h, "7")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Libro eliminado exitosamente", body["message"])
	assert.Equal(t, float64(7), body["id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBookConstraintViolation(t *testing.T) {
	h, mock := newBookHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(quote(deletion.BookDescriptor.ExistsStmt)).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	for _, g := range deletion.BookDescriptor.Guards {
		mock.ExpectQuery(quote(g.Query)).WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	}
	for _, s := range deletion.BookDescriptor.Steps {
		mock.ExpectExec(quote(s.Stmt)).WithArgs(uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(quote(deletion.BookDescriptor.SelfStmt)).WithArgs(uint64(7)).
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"})
	mock.ExpectRollback()

	rec := deleteBookRequest(h, "7")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Error de restricción", body["error"])
	assert.Equal(t, "No se puede eliminar el libro porque tiene registros relacionados que deben eliminarse primero", body["details"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookNotFound(t *testing.T) {
	h, mock := newBookHandler(t)

	mock.ExpectQuery("SELECT b.id, b.titulo").WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "titulo", "autor", "editorial", "isbn", "anio_publicacion", "cid", "cnombre",
		}))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/books/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/books/:id")
	c.SetParamNames("id")
	c.SetParamValues("42")
	_ = h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Libro no encontrado", body["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookRequiresTitleAndAuthor(t *testing.T) {
	h, _ := newBookHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/books",
		strings.NewReader(`{"titulo":"","autor":"García Márquez"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h.Create(e.NewContext(req, rec))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
