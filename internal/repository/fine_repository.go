// This file defines repository methods for fines (multas).
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mfuentes/biblioteca-api/internal/model"
)

// ErrFineNotFound is returned when a fine cannot be found.
var ErrFineNotFound = errors.New("fine not found")

// FineRepo encapsulates all database queries related to fines.
type FineRepo struct {
	db *sql.DB
}

// NewFineRepo constructs a FineRepo with the provided DB handle.
func NewFineRepo(db *sql.DB) *FineRepo {
	return &FineRepo{db: db}
}

// Create inserts a fine in state 'pendiente' and populates the
// generated ID and timestamp.
func (r *FineRepo) Create(ctx context.Context, f *model.Fine) error {
	const q = `INSERT INTO multas (usuario_id, monto, motivo, estado) VALUES (?, ?, ?, 'pendiente')`
	res, err := r.db.ExecContext(ctx, q, f.UserID, f.Amount, f.Reason)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	f.Status = model.FineStatusPending
	return r.db.QueryRowContext(ctx, `SELECT fecha FROM multas WHERE id = ?`, f.ID).Scan(&f.CreatedAt)
}

// List returns fines, optionally filtered by patron.  A nil userID
// returns every fine.
func (r *FineRepo) List(ctx context.Context, userID *uint64) ([]*model.Fine, error) {
	q := `SELECT id, usuario_id, monto, motivo, estado, fecha FROM multas`
	args := []interface{}{}
	if userID != nil {
		q += ` WHERE usuario_id = ?`
		args = append(args, *userID)
	}
	q += ` ORDER BY fecha DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Fine, 0)
	for rows.Next() {
		var f model.Fine
		if err := rows.Scan(&f.ID, &f.UserID, &f.Amount, &f.Reason, &f.Status, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Pay marks a fine as 'pagada'.  Returns ErrFineNotFound when the
// fine does not exist.
func (r *FineRepo) Pay(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE multas SET estado = 'pagada' WHERE id = ? AND estado = 'pendiente'`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM multas WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrFineNotFound
			}
			return err
		}
	}
	return nil
}
