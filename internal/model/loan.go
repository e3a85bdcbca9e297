package model

import "time"

// Loan statuses as stored in prestamos.estado.  Pending and active
// loans count as "active" for deletion guards; returned and overdue
// loans do not block anything.
const (
	LoanStatusPending  = "pendiente"
	LoanStatusActive   = "activo"
	LoanStatusReturned = "devuelto"
	LoanStatusOverdue  = "vencido"
)

// Loan records a copy lent to a user by a librarian.  Corresponds to
// a row in the `prestamos` table.  Creating a loan flips the copy to
// 'prestado'; returning or deleting the loan flips it back to
// 'disponible'.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – patron borrowing the copy.
//  CopyID      – the copy lent out.
//  LibrarianID – librarian who registered the loan.
//  DueDate     – agreed return date.
//  Status      – one of the LoanStatus constants.
//  CreatedAt   – when the loan was registered.
type Loan struct {
	ID          uint64    `json:"id"`               // prestamos.id
	UserID      uint64    `json:"usuario_id"`       // prestamos.usuario_id
	CopyID      uint64    `json:"ejemplar_id"`      // prestamos.ejemplar_id
	LibrarianID uint64    `json:"bibliotecario_id"` // prestamos.bibliotecario_id
	DueDate     time.Time `json:"fecha_devolucion"` // prestamos.fecha_devolucion
	Status      string    `json:"estado"`           // prestamos.estado
	CreatedAt   time.Time `json:"fecha_prestamo"`   // prestamos.fecha_prestamo
}

// LoanHistory is an archived loan, written to `historial_prestamos`
// when a loan completes.  History rows survive loan deletion but are
// swept by the book and user deletion cascades.
type LoanHistory struct {
	ID         uint64     `json:"id"`             // historial_prestamos.id
	UserID     uint64     `json:"usuario_id"`     // historial_prestamos.usuario_id
	CopyID     uint64     `json:"ejemplar_id"`    // historial_prestamos.ejemplar_id
	LoanedAt   time.Time  `json:"fecha_prestamo"` // historial_prestamos.fecha_prestamo
	ReturnedAt *time.Time `json:"fecha_retorno"`  // historial_prestamos.fecha_retorno (nullable)
}
