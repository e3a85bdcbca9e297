// Package repository contains data access logic separated from HTTP
// handlers.  Each aggregate gets its own repository backed by an
// injected *sql.DB handle.  This file defines error values and
// helpers reused across multiple repositories; per-entity sentinels
// live next to the repository that produces them.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNoRooms is returned when a copy cannot be created because the
// library has no rooms to shelve it in.  Handlers should translate
// this into an HTTP 500 response since rooms are seed data.
var ErrNoRooms = errors.New("no rooms available")

// isDuplicate reports whether err is a MySQL duplicate-key error
// (error 1062), used to detect unique constraint violations such as
// a repeated ISBN or email.
func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}
