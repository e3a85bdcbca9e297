package deletion

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quote turns a descriptor statement into the exact-match pattern
// sqlmock compares against (it collapses whitespace runs before
// matching).
func quote(q string) string {
	return "^" + regexp.QuoteMeta(strings.Join(strings.Fields(q), " ")) + "$"
}

func countRow(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func existsRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"1"}).AddRow(1)
}

// expectGuardsPass queues zero-count results for every guard.
func expectGuardsPass(mock sqlmock.Sqlmock, d Descriptor, id uint64) {
	for _, g := range d.Guards {
		mock.ExpectQuery(quote(g.Query)).WithArgs(id).WillReturnRows(countRow(0))
	}
}

func TestExecuteBookCascadeCommitsInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Book 7: one copy out on a returned loan and one cancelled
	// reservation.  Neither blocks; both must be swept.
	const id = uint64(7)
	mock.ExpectBegin()
	mock.ExpectQuery(quote(BookDescriptor.ExistsStmt)).WithArgs(id).WillReturnRows(existsRow())
	expectGuardsPass(mock, BookDescriptor, id)
	affected := map[string]int64{"prestamos": 1, "reservas": 1, "inventarios": 1, "ejemplares": 1}
	for _, s := range BookDescriptor.Steps {
		mock.ExpectExec(quote(s.Stmt)).WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, affected[s.Table]))
	}
	mock.ExpectExec(quote(BookDescriptor.SelfStmt)).WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewExecutor(db).Execute(context.Background(), BookDescriptor, id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteBlockedByActiveLoan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	const id = uint64(7)
	mock.ExpectBegin()
	mock.ExpectQuery(quote(BookDescriptor.ExistsStmt)).WithArgs(id).WillReturnRows(existsRow())
	mock.ExpectQuery(quote(BookDescriptor.Guards[0].Query)).WithArgs(id).WillReturnRows(countRow(2))
	mock.ExpectRollback()

	err = NewExecutor(db).Execute(context.Background(), BookDescriptor, id)

	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, "libro", blocked.Entity)
	assert.Equal(t, "El libro tiene préstamos o reservas activas", blocked.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteBlockedByActiveReservation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	const id = uint64(7)
	mock.ExpectBegin()
	mock.ExpectQuery(quote(BookDescriptor.ExistsStmt)).WithArgs(id).WillReturnRows(existsRow())
	mock.ExpectQuery(quote(BookDescriptor.Guards[0].Query)).WithArgs(id).WillReturnRows(countRow(0))
	mock.ExpectQuery(quote(BookDescriptor.Guards[1].Query)).WithArgs(id).WillReturnRows(countRow(1))
	mock.ExpectRollback()

	err = NewExecutor(db).Execute(context.Background(), BookDescriptor, id)

	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, "El libro tiene préstamos o reservas activas", blocked.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	const id = uint64(99)
	mock.ExpectBegin()
	mock.ExpectQuery(quote(BookDescriptor.ExistsStmt)).WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	err = NewExecutor(db).Execute(context.Background(), BookDescriptor, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteStepFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("storage failure")
	const id = uint64(7)
	mock.ExpectBegin()
	mock.ExpectQuery(quote(BookDescriptor.ExistsStmt)).WithArgs(id).WillReturnRows(existsRow())
	expectGuardsPass(mock, BookDescriptor, id)
	mock.ExpectExec(quote(BookDescriptor.Steps[0].Stmt)).WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(quote(BookDescriptor.Steps[1].Stmt)).WithArgs(id).WillReturnError(boom)
	mock.ExpectRollback()

	err = NewExecutor(db).Execute(context.Background(), BookDescriptor, id)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteForeignKeyBecomesConstraintError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	const id = uint64(7)
	mock.ExpectBegin()
	mock.ExpectQuery(quote(BookDescriptor.ExistsStmt)).WithArgs(id).WillReturnRows(existsRow())
	expectGuardsPass(mock, BookDescriptor, id)
	for _, s := range BookDescriptor.Steps {
		mock.ExpectExec(quote(s.Stmt)).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(quote(BookDescriptor.SelfStmt)).WithArgs(id).
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"})
	mock.ExpectRollback()

	err = NewExecutor(db).Execute(context.Background(), BookDescriptor, id)

	var constraint *ConstraintError
	require.ErrorAs(t, err, &constraint)
	assert.Equal(t, uint16(1451), constraint.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteUserCascade(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// No guards: a patron with open loans can always be removed, and
	// the release pass puts their copies back in circulation.
	const id = uint64(3)
	mock.ExpectBegin()
	mock.ExpectQuery(quote(UserDescriptor.ExistsStmt)).WithArgs(id).WillReturnRows(existsRow())
	for _, s := range UserDescriptor.Steps {
		mock.ExpectExec(quote(s.Stmt)).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(quote(UserDescriptor.SelfStmt)).WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewExecutor(db).Execute(context.Background(), UserDescriptor, id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassifyPassesThroughUnknownErrors(t *testing.T) {
	boom := errors.New("not a driver error")
	assert.Equal(t, boom, classify(boom))

	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.Equal(t, error(dup), classify(dup))
}
