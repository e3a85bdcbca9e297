package model

import "time"

// Book represents a catalogued title.  A book owns zero or more
// physical copies (ejemplares) which are the units actually loaned
// out.  This struct corresponds to a row in the `libros` table.
// JSON tags keep the Spanish field names the API has always spoken.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – book title.
//  Author          – book author.
//  Publisher       – publishing house (optional).
//  ISBN            – unique ISBN (optional but unique when present).
//  PublicationYear – year of publication (nil when unknown).
//  Categories      – categories linked via libros_categorias.
type Book struct {
	ID              uint64     `json:"id"`               // libros.id
	Title           string     `json:"titulo"`           // libros.titulo
	Author          string     `json:"autor"`            // libros.autor
	Publisher       *string    `json:"editorial"`        // libros.editorial (nullable)
	ISBN            *string    `json:"isbn"`             // libros.isbn (nullable, unique)
	PublicationYear *int       `json:"anio_publicacion"` // libros.anio_publicacion (nullable)
	Categories      []Category `json:"categorias,omitempty"`
}

// Category is a thematic grouping of books.  Books and categories
// form a many-to-many relation through `libros_categorias`.
type Category struct {
	ID   uint64 `json:"id"`     // categorias.id
	Name string `json:"nombre"` // categorias.nombre
}

// Purchase records an acquisition of a book from a supplier.  It
// corresponds to a row in the `compras` table and is removed as part
// of the book deletion cascade.
type Purchase struct {
	ID         uint64    `json:"id"`           // compras.id
	BookID     uint64    `json:"libro_id"`     // compras.libro_id
	SupplierID uint64    `json:"proveedor_id"` // compras.proveedor_id
	Quantity   uint32    `json:"cantidad"`     // compras.cantidad
	Date       time.Time `json:"fecha"`        // compras.fecha
}
