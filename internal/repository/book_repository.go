// This file defines repository methods for books (libros).  Creating
// a book also provisions its first physical copy and the copy's
// inventory row inside one transaction, so a freshly catalogued
// title is immediately loanable.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mfuentes/biblioteca-api/internal/model"
)

// ErrBookNotFound is returned when a book cannot be found in the DB.
var ErrBookNotFound = errors.New("book not found")

// ErrDuplicateISBN is returned when an insert or update collides
// with the unique index on libros.isbn.
var ErrDuplicateISBN = errors.New("isbn already exists")

// BookRepo encapsulates all database queries related to books.
type BookRepo struct {
	db *sql.DB
}

// NewBookRepo constructs a BookRepo with the provided DB handle.
func NewBookRepo(db *sql.DB) *BookRepo {
	return &BookRepo{db: db}
}

// Create inserts a new book together with its first copy.  The copy
// is shelved in the first room on record and starts 'disponible'
// with a single-unit inventory row.  Everything happens in one
// transaction; on success the book's ID is populated.  ErrNoRooms is
// returned when there is no room to shelve the copy in and
// ErrDuplicateISBN when the ISBN is already catalogued.
func (r *BookRepo) Create(ctx context.Context, b *model.Book) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qBook = `INSERT INTO libros (titulo, autor, editorial, isbn, anio_publicacion) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qBook, b.Title, b.Author, b.Publisher, b.ISBN, b.PublicationYear)
	if err != nil {
		if isDuplicate(err) {
			err = ErrDuplicateISBN
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	// Shelve the first copy in the first available room.
	var roomID uint64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM salas ORDER BY id LIMIT 1`).Scan(&roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNoRooms
		}
		return err
	}
	const qCopy = `INSERT INTO ejemplares (libro_id, sala_id, estado) VALUES (?, ?, 'disponible')`
	copyRes, err := tx.ExecContext(ctx, qCopy, b.ID, roomID)
	if err != nil {
		return err
	}
	copyID, err := copyRes.LastInsertId()
	if err != nil {
		return err
	}
	const qInv = `INSERT INTO inventarios (ejemplar_id, cantidad, fecha_actualizacion) VALUES (?, 1, NOW())`
	if _, err = tx.ExecContext(ctx, qInv, copyID); err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

// List returns all books with their categories, ordered by id.
func (r *BookRepo) List(ctx context.Context) ([]*model.Book, error) {
	const q = `SELECT b.id, b.titulo, b.autor, b.editorial, b.isbn, b.anio_publicacion, c.id, c.nombre
	           FROM libros b
	           LEFT JOIN libros_categorias lc ON lc.libro_id = b.id
	           LEFT JOIN categorias c ON c.id = lc.categoria_id
	           ORDER BY b.id, c.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Book, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var b model.Book
		var catID sql.NullInt64
		var catName sql.NullString
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Publisher, &b.ISBN, &b.PublicationYear, &catID, &catName); err != nil {
			return nil, err
		}
		i, seen := index[b.ID]
		if !seen {
			i = len(out)
			index[b.ID] = i
			out = append(out, &b)
		}
		if catID.Valid {
			out[i].Categories = append(out[i].Categories, model.Category{
				ID:   uint64(catID.Int64),
				Name: catName.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single book with its categories.  It returns
// ErrBookNotFound when no row matches.
func (r *BookRepo) GetByID(ctx context.Context, id uint64) (*model.Book, error) {
	const q = `SELECT b.id, b.titulo, b.autor, b.editorial, b.isbn, b.anio_publicacion, c.id, c.nombre
	           FROM libros b
	           LEFT JOIN libros_categorias lc ON lc.libro_id = b.id
	           LEFT JOIN categorias c ON c.id = lc.categoria_id
	           WHERE b.id = ?
	           ORDER BY c.id`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var b *model.Book
	for rows.Next() {
		if b == nil {
			b = new(model.Book)
		}
		var catID sql.NullInt64
		var catName sql.NullString
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Publisher, &b.ISBN, &b.PublicationYear, &catID, &catName); err != nil {
			return nil, err
		}
		if catID.Valid {
			b.Categories = append(b.Categories, model.Category{ID: uint64(catID.Int64), Name: catName.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookNotFound
	}
	return b, nil
}

// Update rewrites the editable fields of a book.  When no row is
// affected it probes for existence to distinguish a missing book
// from an update that changed nothing.
func (r *BookRepo) Update(ctx context.Context, b *model.Book) error {
	const q = `UPDATE libros SET titulo = ?, autor = ?, editorial = ?, isbn = ?, anio_publicacion = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, b.Title, b.Author, b.Publisher, b.ISBN, b.PublicationYear, b.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateISBN
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM libros WHERE id = ?`, b.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookNotFound
			}
			return err
		}
	}
	return nil
}
