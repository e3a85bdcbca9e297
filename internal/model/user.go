package model

import "time"

// User represents a library patron as stored in the `usuarios`
// table.  Patrons borrow copies, place reservations and accumulate
// fines.  Authentication is handled separately for librarians; a
// patron record carries contact data only.
//
// Fields:
//  ID      – primary key identifier.
//  Name    – full name.
//  Address – postal address (optional).
//  Phone   – contact phone (optional).
//  Email   – contact email (optional).
//  Roles   – roles assigned through usuarios_roles.
type User struct {
	ID      uint64  `json:"id"`        // usuarios.id
	Name    string  `json:"nombre"`    // usuarios.nombre
	Address *string `json:"direccion"` // usuarios.direccion (nullable)
	Phone   *string `json:"telefono"`  // usuarios.telefono (nullable)
	Email   *string `json:"email"`     // usuarios.email (nullable)
	Roles   []Role  `json:"roles,omitempty"`
}

// Role represents a row in the `roles` table.  Users reference roles
// through the usuarios_roles join table (many-to-many).
type Role struct {
	ID   uint64 `json:"id"`     // roles.id
	Name string `json:"nombre"` // roles.nombre
}

// Fine statuses as stored in multas.estado.
const (
	FineStatusPending = "pendiente"
	FineStatusPaid    = "pagada"
)

// Fine is a monetary penalty charged to a user, usually for an
// overdue loan.  Corresponds to a row in the `multas` table.
type Fine struct {
	ID        uint64    `json:"id"`         // multas.id
	UserID    uint64    `json:"usuario_id"` // multas.usuario_id
	Amount    float64   `json:"monto"`      // multas.monto
	Reason    *string   `json:"motivo"`     // multas.motivo (nullable)
	Status    string    `json:"estado"`     // multas.estado
	CreatedAt time.Time `json:"fecha"`      // multas.fecha
}
