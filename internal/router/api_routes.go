package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mfuentes/biblioteca-api/internal/handler"
	"github.com/mfuentes/biblioteca-api/internal/middleware"
	"github.com/mfuentes/biblioteca-api/internal/model"
)

// APIHandlers groups the resource handlers registered under /api.
type APIHandlers struct {
	Books        *handler.BookHandler
	Users        *handler.UserHandler
	Loans        *handler.LoanHandler
	Reservations *handler.ReservationHandler
	Fines        *handler.FineHandler
	Catalog      *handler.CatalogHandler
}

// RegisterAPI mounts the resource routes.  Catalogue reads (books and
// reference tables) are public and go through the cache and rate
// limiter; everything that mutates state or exposes patron data
// requires an authenticated librarian.
func RegisterAPI(e *echo.Echo, h APIHandlers, jwtSecret string, cache, limit echo.MiddlewareFunc) {
	// Public, read-only catalogue.
	pub := e.Group("/api", limit, cache)
	pub.GET("/books", h.Books.List)
	pub.GET("/books/:id", h.Books.GetByID)
	pub.GET("/rooms", h.Catalog.Rooms)
	pub.GET("/categories", h.Catalog.Categories)
	pub.GET("/suppliers", h.Catalog.Suppliers)

	// Staff-only surface.
	staff := e.Group("/api")
	staff.Use(middleware.JWTAuth(jwtSecret))
	staff.Use(middleware.RequireRole(model.LibrarianRoleAdmin, model.LibrarianRoleStaff))

	staff.POST("/books", h.Books.Create)
	staff.PUT("/books/:id", h.Books.Update)
	staff.DELETE("/books/:id", h.Books.Delete)

	staff.POST("/users", h.Users.Create)
	staff.GET("/users", h.Users.List)
	staff.GET("/users/:id", h.Users.GetByID)
	staff.PUT("/users/:id", h.Users.Update)
	staff.DELETE("/users/:id", h.Users.Delete)

	staff.POST("/loans", h.Loans.Create)
	staff.GET("/loans", h.Loans.List)
	staff.GET("/loans/:id", h.Loans.GetByID)
	staff.PUT("/loans/:id", h.Loans.Update)
	staff.DELETE("/loans/:id", h.Loans.Delete)

	staff.POST("/reservations", h.Reservations.Create)
	staff.GET("/reservations", h.Reservations.List)
	staff.GET("/reservations/:id", h.Reservations.GetByID)
	staff.PUT("/reservations/:id", h.Reservations.Update)
	staff.DELETE("/reservations/:id", h.Reservations.Delete)

	staff.POST("/fines", h.Fines.Create)
	staff.GET("/fines", h.Fines.List)
	staff.PUT("/fines/:id/pagar", h.Fines.Pay)
}
