// This file defines repository methods for loans (prestamos).  Loan
// lifecycle drives copy availability: creating a loan marks the copy
// 'prestado', returning or deleting it releases the copy back to
// 'disponible'.  All multi-row sequences run inside transactions.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mfuentes/biblioteca-api/internal/model"
)

// ErrLoanNotFound is returned when a loan cannot be found.
var ErrLoanNotFound = errors.New("loan not found")

// ErrCopyUnavailable is returned when the requested copy is not in
// state 'disponible'.  Handlers should translate this into an HTTP
// 400 response.
var ErrCopyUnavailable = errors.New("copy not available")

// LoanDetail is a loan joined with its patron, copy and book, the
// shape clients render loan lists from.
type LoanDetail struct {
	model.Loan
	UserName  string `json:"usuario_nombre"`
	BookID    uint64 `json:"libro_id"`
	BookTitle string `json:"libro_titulo"`
}

// LoanRepo encapsulates all database queries related to loans.
type LoanRepo struct {
	db *sql.DB
}

// NewLoanRepo constructs a LoanRepo with the provided DB handle.
func NewLoanRepo(db *sql.DB) *LoanRepo {
	return &LoanRepo{db: db}
}

// Create registers a loan for a copy that must currently be
// 'disponible'.  The copy row is locked for the duration of the
// transaction so two concurrent loans cannot both take it; the loan
// starts 'activo' and the copy flips to 'prestado'.  Returns
// ErrCopyUnavailable when the copy is missing or already out.
func (r *LoanRepo) Create(ctx context.Context, l *model.Loan) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT estado FROM ejemplares WHERE id = ? FOR UPDATE`, l.CopyID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrCopyUnavailable
		}
		return err
	}
	if status != model.CopyStatusAvailable {
		err = ErrCopyUnavailable
		return err
	}

	const qLoan = `INSERT INTO prestamos (usuario_id, ejemplar_id, bibliotecario_id, fecha_devolucion, estado)
	               VALUES (?, ?, ?, ?, 'activo')`
	res, err := tx.ExecContext(ctx, qLoan, l.UserID, l.CopyID, l.LibrarianID, l.DueDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	l.Status = model.LoanStatusActive

	if _, err = tx.ExecContext(ctx,
		`UPDATE ejemplares SET estado = 'prestado' WHERE id = ?`, l.CopyID); err != nil {
		return err
	}

	// Read back DB-default fields so the caller gets a full record.
	err = tx.QueryRowContext(ctx,
		`SELECT fecha_prestamo FROM prestamos WHERE id = ?`, l.ID).Scan(&l.CreatedAt)
	if err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

// List returns all loans joined with patron and book info, newest
// first.
func (r *LoanRepo) List(ctx context.Context) ([]*LoanDetail, error) {
	const q = `SELECT p.id, p.usuario_id, p.ejemplar_id, p.bibliotecario_id, p.fecha_devolucion,
	                  p.estado, p.fecha_prestamo, u.nombre, b.id, b.titulo
	           FROM prestamos p
	           JOIN usuarios u ON u.id = p.usuario_id
	           JOIN ejemplares e ON e.id = p.ejemplar_id
	           JOIN libros b ON b.id = e.libro_id
	           ORDER BY p.fecha_prestamo DESC, p.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*LoanDetail, 0)
	for rows.Next() {
		var d LoanDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.CopyID, &d.LibrarianID, &d.DueDate,
			&d.Status, &d.CreatedAt, &d.UserName, &d.BookID, &d.BookTitle); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single loan with patron and book info.  It
// returns ErrLoanNotFound when no row matches.
func (r *LoanRepo) GetByID(ctx context.Context, id uint64) (*LoanDetail, error) {
	const q = `SELECT p.id, p.usuario_id, p.ejemplar_id, p.bibliotecario_id, p.fecha_devolucion,
	                  p.estado, p.fecha_prestamo, u.nombre, b.id, b.titulo
	           FROM prestamos p
	           JOIN usuarios u ON u.id = p.usuario_id
	           JOIN ejemplares e ON e.id = p.ejemplar_id
	           JOIN libros b ON b.id = e.libro_id
	           WHERE p.id = ?`
	var d LoanDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.UserID, &d.CopyID, &d.LibrarianID,
		&d.DueDate, &d.Status, &d.CreatedAt, &d.UserName, &d.BookID, &d.BookTitle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return &d, nil
}

// UpdateStatus changes a loan's state and optionally its due date.
// Marking a loan 'devuelto' releases the copy back to 'disponible'
// and archives the loan into historial_prestamos, all in one
// transaction.  Returns ErrLoanNotFound when the loan is missing.
func (r *LoanRepo) UpdateStatus(ctx context.Context, id uint64, status string, dueDate *time.Time) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var copyID, userID uint64
	var loanedAt time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT ejemplar_id, usuario_id, fecha_prestamo FROM prestamos WHERE id = ?`, id).
		Scan(&copyID, &userID, &loanedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrLoanNotFound
		}
		return err
	}

	if dueDate != nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE prestamos SET estado = ?, fecha_devolucion = ? WHERE id = ?`, status, *dueDate, id)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE prestamos SET estado = ? WHERE id = ?`, status, id)
	}
	if err != nil {
		return err
	}

	if status == model.LoanStatusReturned {
		if _, err = tx.ExecContext(ctx,
			`UPDATE ejemplares SET estado = 'disponible' WHERE id = ?`, copyID); err != nil {
			return err
		}
		const qHist = `INSERT INTO historial_prestamos (usuario_id, ejemplar_id, fecha_prestamo, fecha_retorno)
		               VALUES (?, ?, ?, NOW())`
		if _, err = tx.ExecContext(ctx, qHist, userID, copyID, loanedAt); err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}

// Delete removes a loan and releases its copy in one transaction.
// Deleting a loan is an implicit return.  Returns ErrLoanNotFound
// when the loan does not exist.
func (r *LoanRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var copyID uint64
	err = tx.QueryRowContext(ctx, `SELECT ejemplar_id FROM prestamos WHERE id = ?`, id).Scan(&copyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrLoanNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM prestamos WHERE id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE ejemplares SET estado = 'disponible' WHERE id = ?`, copyID); err != nil {
		return err
	}
	err = tx.Commit()
	return err
}
