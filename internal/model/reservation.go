package model

import "time"

// Reservation statuses as stored in reservas.estado.  Pending and
// confirmed reservations count as "active" for deletion guards.
const (
	ReservationStatusPending   = "pendiente"
	ReservationStatusConfirmed = "confirmada"
	ReservationStatusCancelled = "cancelada"
	ReservationStatusFulfilled = "completada"
)

// Reservation records a patron's claim on a specific copy.
// Corresponds to a row in the `reservas` table.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – patron placing the reservation.
//  CopyID    – the reserved copy.
//  Status    – one of the ReservationStatus constants.
//  CreatedAt – when the reservation was placed.
type Reservation struct {
	ID        uint64    `json:"id"`            // reservas.id
	UserID    uint64    `json:"usuario_id"`    // reservas.usuario_id
	CopyID    uint64    `json:"ejemplar_id"`   // reservas.ejemplar_id
	Status    string    `json:"estado"`        // reservas.estado
	CreatedAt time.Time `json:"fecha_reserva"` // reservas.fecha_reserva
}

// ReservationHistory is an archived reservation, written to
// `historial_reservas` when a reservation is cancelled or fulfilled.
type ReservationHistory struct {
	ID         uint64     `json:"id"`            // historial_reservas.id
	UserID     uint64     `json:"usuario_id"`    // historial_reservas.usuario_id
	CopyID     uint64     `json:"ejemplar_id"`   // historial_reservas.ejemplar_id
	ReservedAt time.Time  `json:"fecha_reserva"` // historial_reservas.fecha_reserva
	ResolvedAt *time.Time `json:"fecha_cierre"`  // historial_reservas.fecha_cierre (nullable)
}
