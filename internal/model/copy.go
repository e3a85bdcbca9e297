package model

import "time"

// Copy statuses as stored in ejemplares.estado.  A copy is loanable
// only while it is available; loan creation flips it to loaned and
// loan completion or deletion flips it back.
const (
	CopyStatusAvailable = "disponible"
	CopyStatusLoaned    = "prestado"
)

// Copy represents a single physical instance of a book (an
// "ejemplar").  Each copy lives in one room and carries its own
// availability status, independent of its siblings.
//
// Fields:
//  ID     – primary key identifier.
//  BookID – the title this copy belongs to.
//  RoomID – the room where the copy is shelved.
//  Status – 'disponible' or 'prestado'.
type Copy struct {
	ID     uint64 `json:"id"`       // ejemplares.id
	BookID uint64 `json:"libro_id"` // ejemplares.libro_id
	RoomID uint64 `json:"sala_id"`  // ejemplares.sala_id
	Status string `json:"estado"`   // ejemplares.estado
}

// Inventory tracks the stock record attached to a copy.  There is
// exactly one inventory row per copy.
type Inventory struct {
	CopyID    uint64    `json:"ejemplar_id"`         // inventarios.ejemplar_id
	Quantity  uint32    `json:"cantidad"`            // inventarios.cantidad
	UpdatedAt time.Time `json:"fecha_actualizacion"` // inventarios.fecha_actualizacion
}

// Room is a physical location where copies are shelved.  New copies
// are auto-assigned to the first room on record.
type Room struct {
	ID   uint64 `json:"id"`     // salas.id
	Name string `json:"nombre"` // salas.nombre
}
