package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfuentes/biblioteca-api/internal/model"
)

func newLoanRepo(t *testing.T) (*LoanRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLoanRepo(db), mock
}

func TestLoanCreateLocksAndFlipsCopy(t *testing.T) {
	repo, mock := newLoanRepo(t)

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	loanedAt := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT estado FROM ejemplares WHERE id = \\? FOR UPDATE").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"estado"}).AddRow("disponible"))
	mock.ExpectExec("INSERT INTO prestamos").
		WithArgs(uint64(3), uint64(42), uint64(1), due).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("UPDATE ejemplares SET estado = 'prestado' WHERE id = \\?").
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT fecha_prestamo FROM prestamos WHERE id = \\?").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"fecha_prestamo"}).AddRow(loanedAt))
	mock.ExpectCommit()

	l := model.Loan{UserID: 3, CopyID: 42, LibrarianID: 1, DueDate: due}
	err := repo.Create(context.Background(), &l)

	require.NoError(t, err)
	assert.Equal(t, uint64(5), l.ID)
	assert.Equal(t, model.LoanStatusActive, l.Status)
	assert.Equal(t, loanedAt, l.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanCreateCopyAlreadyOut(t *testing.T) {
	repo, mock := newLoanRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT estado FROM ejemplares WHERE id = \\? FOR UPDATE").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"estado"}).AddRow("prestado"))
	mock.ExpectRollback()

	l := model.Loan{UserID: 3, CopyID: 42, LibrarianID: 1, DueDate: time.Now()}
	err := repo.Create(context.Background(), &l)

	assert.ErrorIs(t, err, ErrCopyUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanCreateCopyMissing(t *testing.T) {
	repo, mock := newLoanRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT estado FROM ejemplares WHERE id = \\? FOR UPDATE").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"estado"}))
	mock.ExpectRollback()

	l := model.Loan{UserID: 3, CopyID: 404, LibrarianID: 1, DueDate: time.Now()}
	err := repo.Create(context.Background(), &l)

	assert.ErrorIs(t, err, ErrCopyUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanReturnReleasesCopyAndArchives(t *testing.T) {
	repo, mock := newLoanRepo(t)

	loanedAt := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT ejemplar_id, usuario_id, fecha_prestamo FROM prestamos WHERE id = \\?").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"ejemplar_id", "usuario_id", "fecha_prestamo"}).
			AddRow(uint64(42), uint64(3), loanedAt))
	mock.ExpectExec("UPDATE prestamos SET estado = \\? WHERE id = \\?").
		WithArgs(model.LoanStatusReturned, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE ejemplares SET estado = 'disponible' WHERE id = \\?").
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO historial_prestamos").
		WithArgs(uint64(3), uint64(42), loanedAt).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), 5, model.LoanStatusReturned, nil)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanUpdateStatusNotFound(t *testing.T) {
	repo, mock := newLoanRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT ejemplar_id, usuario_id, fecha_prestamo FROM prestamos WHERE id = \\?").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"ejemplar_id", "usuario_id", "fecha_prestamo"}))
	mock.ExpectRollback()

	err := repo.UpdateStatus(context.Background(), 77, model.LoanStatusReturned, nil)

	assert.ErrorIs(t, err, ErrLoanNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanDeleteReleasesCopy(t *testing.T) {
	repo, mock := newLoanRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT ejemplar_id FROM prestamos WHERE id = \\?").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"ejemplar_id"}).AddRow(uint64(42)))
	mock.ExpectExec("DELETE FROM prestamos WHERE id = \\?").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE ejemplares SET estado = 'disponible' WHERE id = \\?").
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 5)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
