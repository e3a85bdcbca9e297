package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mfuentes/biblioteca-api/internal/model"
	"github.com/mfuentes/biblioteca-api/internal/utils"
)

// ErrEmailExists is returned when a librarian registration collides
// with an existing account email.
var ErrEmailExists = errors.New("email already exists")

// LibrarianRepo persists staff accounts (table 'bibliotecarios').
type LibrarianRepo struct{ DB *sql.DB }

func NewLibrarianRepo(db *sql.DB) *LibrarianRepo { return &LibrarianRepo{DB: db} }

// Create inserts a librarian with a bcrypt-hashed password and
// returns the generated ID.
func (r *LibrarianRepo) Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO bibliotecarios (nombre, email, password_hash, rol) VALUES (?,?,?,?)",
		name, email, hash, role)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a librarian by normalized email.
func (r *LibrarianRepo) GetByEmail(ctx context.Context, email string) (model.Librarian, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var l model.Librarian
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,nombre,email,password_hash,rol,created_at FROM bibliotecarios WHERE email=? LIMIT 1",
		email).Scan(&l.ID, &l.Name, &l.Email, &l.PasswordHash, &l.Role, &l.CreatedAt)
	return l, err
}

// GetByID fetches a librarian by id.
func (r *LibrarianRepo) GetByID(ctx context.Context, id uint64) (model.Librarian, error) {
	var l model.Librarian
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,nombre,email,password_hash,rol,created_at FROM bibliotecarios WHERE id=? LIMIT 1",
		id).Scan(&l.ID, &l.Name, &l.Email, &l.PasswordHash, &l.Role, &l.CreatedAt)
	return l, err
}
