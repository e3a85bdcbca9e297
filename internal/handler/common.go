// Package handler defines the HTTP layer: request binding, parameter
// validation and the mapping of repository and deletion errors onto
// status codes and the API's Spanish response messages.
package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeoutSeconds = 5

// parseID converts the :id path parameter into a positive integer.
func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// librarianID extracts the authenticated librarian's id placed in the
// context by the JWT middleware.  The claim travels through JSON so
// it may arrive as a float64.
func librarianID(c echo.Context) (uint64, bool) {
	switch v := c.Get("librarian_id").(type) {
	case float64:
		return uint64(v), true
	case uint64:
		return v, true
	case int64:
		return uint64(v), true
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}
