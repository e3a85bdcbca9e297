package model

// Supplier is a vendor books are purchased from.  Suppliers link to
// books through `proveedores_libros` and appear in purchase records.
type Supplier struct {
	ID    uint64  `json:"id"`       // proveedores.id
	Name  string  `json:"nombre"`   // proveedores.nombre
	Phone *string `json:"telefono"` // proveedores.telefono (nullable)
	Email *string `json:"email"`    // proveedores.email (nullable)
}
