package deletion

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL error numbers for foreign key violations on delete/insert.
const (
	mysqlErrRowIsReferenced = 1451
	mysqlErrNoReferencedRow = 1452
)

// Executor interprets Descriptors against a SQL store.  The whole
// sequence — existence probe, guards, dependent steps, self delete —
// runs inside a single transaction so concurrent mutations of the
// entity's dependents can never observe a partial cascade.
type Executor struct {
	db *sql.DB
}

// NewExecutor constructs an Executor with the provided DB handle,
// allowing injection of the store in tests and at startup.
func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db}
}

// Execute deletes the entity identified by id following the
// descriptor.  It returns:
//
//	ErrNotFound       – no such entity; nothing mutated
//	*BlockedError     – a guard vetoed the deletion; nothing mutated
//	*ConstraintError  – the store rejected part of the cascade
//	                    (descriptor incomplete); rolled back
//	other error       – storage failure; rolled back
//
// On success the transaction is committed and nil is returned.
func (e *Executor) Execute(ctx context.Context, d Descriptor, id uint64) (err error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Existence probe inside the transaction so the guard check and
	// the cascade observe the same snapshot.
	var one int
	if err = tx.QueryRowContext(ctx, d.ExistsStmt, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}

	// Guards run before anything is mutated and short-circuit on the
	// first violation for clear failure messaging.
	for _, g := range d.Guards {
		var n int
		if err = tx.QueryRowContext(ctx, g.Query, id).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			err = &BlockedError{Entity: d.Entity, Reason: g.Reason}
			return err
		}
	}

	// Dependent cleanup in descriptor order, leaf-most first, then
	// the entity row itself.
	for _, s := range d.Steps {
		if _, err = tx.ExecContext(ctx, s.Stmt, id); err != nil {
			err = classify(err)
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, d.SelfStmt, id); err != nil {
		err = classify(err)
		return err
	}

	err = tx.Commit()
	return err
}

// classify maps driver-level foreign key failures into the closed
// ConstraintError kind; every other error passes through untouched.
func classify(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrRowIsReferenced, mysqlErrNoReferencedRow:
			return &ConstraintError{Code: myErr.Number, Detail: myErr.Message}
		}
	}
	return err
}
