// This file defines repository methods for reservations (reservas).
// A reservation claims a specific copy for a patron; resolving one
// (cancelled or fulfilled) archives it into historial_reservas.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mfuentes/biblioteca-api/internal/model"
)

// ErrReservationNotFound is returned when a reservation cannot be
// found.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo encapsulates all database queries related to
// reservations.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo constructs a ReservationRepo with the provided
// DB handle.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

// Create inserts a reservation in state 'pendiente' and populates
// the generated ID and creation timestamp.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservas (usuario_id, ejemplar_id, estado) VALUES (?, ?, 'pendiente')`
	result, err := r.db.ExecContext(ctx, q, res.UserID, res.CopyID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	res.Status = model.ReservationStatusPending
	return r.db.QueryRowContext(ctx,
		`SELECT fecha_reserva FROM reservas WHERE id = ?`, res.ID).Scan(&res.CreatedAt)
}

// List returns all reservations ordered newest first.
func (r *ReservationRepo) List(ctx context.Context) ([]*model.Reservation, error) {
	const q = `SELECT id, usuario_id, ejemplar_id, estado, fecha_reserva
	           FROM reservas ORDER BY fecha_reserva DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.CopyID, &res.Status, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single reservation.  It returns
// ErrReservationNotFound when no row matches.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, usuario_id, ejemplar_id, estado, fecha_reserva FROM reservas WHERE id = ?`
	var res model.Reservation
	err := r.db.QueryRowContext(ctx, q, id).Scan(&res.ID, &res.UserID, &res.CopyID, &res.Status, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// UpdateStatus moves a reservation to a new state.  Cancelled and
// fulfilled reservations are archived into historial_reservas within
// the same transaction.  Returns ErrReservationNotFound when the
// reservation is missing.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res model.Reservation
	err = tx.QueryRowContext(ctx,
		`SELECT id, usuario_id, ejemplar_id, fecha_reserva FROM reservas WHERE id = ?`, id).
		Scan(&res.ID, &res.UserID, &res.CopyID, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrReservationNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE reservas SET estado = ? WHERE id = ?`, status, id); err != nil {
		return err
	}
	if status == model.ReservationStatusCancelled || status == model.ReservationStatusFulfilled {
		const qHist = `INSERT INTO historial_reservas (usuario_id, ejemplar_id, fecha_reserva, fecha_cierre)
		               VALUES (?, ?, ?, NOW())`
		if _, err = tx.ExecContext(ctx, qHist, res.UserID, res.CopyID, res.CreatedAt); err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}

// Delete removes a reservation row.  Returns ErrReservationNotFound
// when nothing was deleted.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservas WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	return nil
}
