// This file defines repository methods for patrons (usuarios) and
// their role assignments.  Roles are a many-to-many relation kept in
// usuarios_roles; updates replace the full role set.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mfuentes/biblioteca-api/internal/model"
)

// ErrUserNotFound is returned when a patron cannot be found.
var ErrUserNotFound = errors.New("user not found")

// UserRepo encapsulates all database queries related to patrons.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the provided DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a patron and assigns the given roles in one
// transaction.  On success the user's ID is populated and Roles is
// filled with the resolved role rows.
func (r *UserRepo) Create(ctx context.Context, u *model.User, roleIDs []uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qUser = `INSERT INTO usuarios (nombre, direccion, telefono, email) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qUser, u.Name, u.Address, u.Phone, u.Email)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	if err = r.assignRolesTx(ctx, tx, u, roleIDs); err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

// assignRolesTx links the user to each role id and loads the role
// names back onto the model.  Unknown role ids surface as a foreign
// key error from the store.
func (r *UserRepo) assignRolesTx(ctx context.Context, tx *sql.Tx, u *model.User, roleIDs []uint64) error {
	u.Roles = u.Roles[:0]
	for _, roleID := range roleIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO usuarios_roles (usuario_id, rol_id) VALUES (?, ?)`, u.ID, roleID); err != nil {
			return err
		}
		var role model.Role
		if err := tx.QueryRowContext(ctx,
			`SELECT id, nombre FROM roles WHERE id = ?`, roleID).Scan(&role.ID, &role.Name); err != nil {
			return err
		}
		u.Roles = append(u.Roles, role)
	}
	return nil
}

// List returns all patrons with their roles, ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	const q = `SELECT u.id, u.nombre, u.direccion, u.telefono, u.email, ro.id, ro.nombre
	           FROM usuarios u
	           LEFT JOIN usuarios_roles ur ON ur.usuario_id = u.id
	           LEFT JOIN roles ro ON ro.id = ur.rol_id
	           ORDER BY u.id, ro.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.User, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var u model.User
		var roleID sql.NullInt64
		var roleName sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &u.Address, &u.Phone, &u.Email, &roleID, &roleName); err != nil {
			return nil, err
		}
		i, seen := index[u.ID]
		if !seen {
			i = len(out)
			index[u.ID] = i
			out = append(out, &u)
		}
		if roleID.Valid {
			out[i].Roles = append(out[i].Roles, model.Role{ID: uint64(roleID.Int64), Name: roleName.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single patron with roles.  It returns
// ErrUserNotFound when no row matches.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT u.id, u.nombre, u.direccion, u.telefono, u.email, ro.id, ro.nombre
	           FROM usuarios u
	           LEFT JOIN usuarios_roles ur ON ur.usuario_id = u.id
	           LEFT JOIN roles ro ON ro.id = ur.rol_id
	           WHERE u.id = ?
	           ORDER BY ro.id`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var u *model.User
	for rows.Next() {
		if u == nil {
			u = new(model.User)
		}
		var roleID sql.NullInt64
		var roleName sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &u.Address, &u.Phone, &u.Email, &roleID, &roleName); err != nil {
			return nil, err
		}
		if roleID.Valid {
			u.Roles = append(u.Roles, model.Role{ID: uint64(roleID.Int64), Name: roleName.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Update rewrites a patron's contact data and replaces the full role
// set in one transaction.  ErrUserNotFound is returned when the
// patron does not exist.
func (r *UserRepo) Update(ctx context.Context, u *model.User, roleIDs []uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var one int
	if err = tx.QueryRowContext(ctx, `SELECT 1 FROM usuarios WHERE id = ?`, u.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrUserNotFound
		}
		return err
	}
	const qUpdate = `UPDATE usuarios SET nombre = ?, direccion = ?, telefono = ?, email = ? WHERE id = ?`
	if _, err = tx.ExecContext(ctx, qUpdate, u.Name, u.Address, u.Phone, u.Email, u.ID); err != nil {
		return err
	}
	// Replace the role set wholesale; an omitted role is an
	// unassignment.
	if _, err = tx.ExecContext(ctx, `DELETE FROM usuarios_roles WHERE usuario_id = ?`, u.ID); err != nil {
		return err
	}
	if err = r.assignRolesTx(ctx, tx, u, roleIDs); err != nil {
		return err
	}
	err = tx.Commit()
	return err
}
