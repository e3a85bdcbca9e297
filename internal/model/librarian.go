package model

import "time"

// Librarian roles accepted by the API.  ADMIN may manage other
// librarian accounts; both roles may operate the full catalogue.
const (
	LibrarianRoleAdmin = "ADMIN"
	LibrarianRoleStaff = "BIBLIOTECARIO"
)

// Librarian is a staff account as stored in the `bibliotecarios`
// table.  Librarians authenticate with email and password and are
// the only principals allowed to mutate library data.  Only the
// bcrypt hash of the password is persisted.
type Librarian struct {
	ID           uint64    // bibliotecarios.id
	Name         string    // bibliotecarios.nombre
	Email        string    // bibliotecarios.email (unique)
	PasswordHash string    // bibliotecarios.password_hash
	Role         string    // bibliotecarios.rol (ADMIN | BIBLIOTECARIO)
	CreatedAt    time.Time // bibliotecarios.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// token belongs to a librarian; only the SHA-256 hash of the raw
// token is stored.
type RefreshToken struct {
	ID          uint64     // refresh_tokens.id
	LibrarianID uint64     // refresh_tokens.bibliotecario_id
	TokenHash   string     // refresh_tokens.token_hash
	ExpiresAt   time.Time  // refresh_tokens.expires_at
	RevokedAt   *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt   time.Time  // refresh_tokens.created_at
}
