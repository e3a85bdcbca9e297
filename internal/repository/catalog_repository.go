// This file defines read-only lookups for the small reference
// tables: rooms, categories and suppliers.  These are seed data
// maintained outside the API, so only listing is exposed.
package repository

import (
	"context"
	"database/sql"

	"github.com/mfuentes/biblioteca-api/internal/model"
)

// CatalogRepo bundles the reference-table lookups.
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo constructs a CatalogRepo with the provided DB handle.
func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// Rooms returns all rooms ordered by id.
func (r *CatalogRepo) Rooms(ctx context.Context) ([]*model.Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, nombre FROM salas ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Room, 0)
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.Name); err != nil {
			return nil, err
		}
		out = append(out, &room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories returns all categories ordered by id.
func (r *CatalogRepo) Categories(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, nombre FROM categorias ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Suppliers returns all suppliers ordered by id.
func (r *CatalogRepo) Suppliers(ctx context.Context) ([]*model.Supplier, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, nombre, telefono, email FROM proveedores ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Supplier, 0)
	for rows.Next() {
		var s model.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.Email); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
