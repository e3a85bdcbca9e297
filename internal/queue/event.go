// Package queue defines message payloads exchanged over the message broker.
package queue

// LoanCreatedEvent is published when a loan is successfully registered.
// It carries enough denormalized detail for downstream consumers to log
// or notify without querying the primary database.
type LoanCreatedEvent struct {
	LoanID      uint64 `json:"loan_id"`
	UserID      uint64 `json:"user_id"`
	UserName    string `json:"user_name"`
	CopyID      uint64 `json:"copy_id"`
	BookTitle   string `json:"book_title"`
	LibrarianID uint64 `json:"librarian_id"`
	DueDate     string `json:"due_date"`
	CreatedAt   string `json:"created_at"`
}
