package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mfuentes/biblioteca-api/internal/deletion"
	"github.com/mfuentes/biblioteca-api/internal/model"
	"github.com/mfuentes/biblioteca-api/internal/repository"
)

// BookHandler bundles dependencies for the /api/books endpoints.  The
// delete endpoint goes through the deletion executor instead of the
// repository so the guard and cascade rules live in one place.
type BookHandler struct {
	Books   *repository.BookRepo
	Deleter *deletion.Executor
}

func NewBookHandler(b *repository.BookRepo, d *deletion.Executor) *BookHandler {
	return &BookHandler{Books: b, Deleter: d}
}

type bookReq struct {
	Title           string  `json:"titulo"`
	Author          string  `json:"autor"`
	Publisher       *string `json:"editorial"`
	ISBN            *string `json:"isbn"`
	PublicationYear *int    `json:"anio_publicacion"`
}

// Create handles POST /api/books.  A new book always gets one copy
// shelved in the first room and a single-unit inventory row.
func (h *BookHandler) Create(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	if req.Title == "" || req.Author == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "titulo y autor son obligatorios"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	b := model.Book{
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
	}
	if err := h.Books.Create(ctx, &b); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateISBN):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ISBN duplicado"})
		case errors.Is(err, repository.ErrNoRooms):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no hay salas registradas para ubicar el ejemplar"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al crear el libro"})
		}
	}
	return c.JSON(http.StatusCreated, b)
}

// List handles GET /api/books.
func (h *BookHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	books, err := h.Books.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener los libros"})
	}
	return c.JSON(http.StatusOK, books)
}

// GetByID handles GET /api/books/:id.
func (h *BookHandler) GetByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ID inválido", "details": "El ID debe ser un número"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	b, err := h.Books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error":   "Libro no encontrado",
				"details": fmt.Sprintf("No se encontró un libro con el ID %d", id),
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener el libro"})
	}
	return c.JSON(http.StatusOK, b)
}

// Update handles PUT /api/books/:id.
func (h *BookHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ID inválido", "details": "El ID debe ser un número"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	if req.Title == "" || req.Author == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "titulo y autor son obligatorios"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	b := model.Book{
		ID:              id,
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
	}
	if err := h.Books.Update(ctx, &b); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{
				"error":   "Libro no encontrado",
				"details": fmt.Sprintf("No se encontró un libro con el ID %d", id),
			})
		case errors.Is(err, repository.ErrDuplicateISBN):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ISBN duplicado"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al actualizar el libro"})
		}
	}
	return c.JSON(http.StatusOK, b)
}

// Delete handles DELETE /api/books/:id.  The cascade refuses to run
// while the book has active loans or reservations; otherwise it
// removes every dependent record before the book itself, atomically.
func (h *BookHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "ID inválido",
			"details": "El ID debe ser un número",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	err = h.Deleter.Execute(ctx, deletion.BookDescriptor, id)
	if err == nil {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Libro eliminado exitosamente",
			"id":      id,
		})
	}

	var blocked *deletion.BlockedError
	var constraint *deletion.ConstraintError
	switch {
	case errors.Is(err, deletion.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error":   "Libro no encontrado",
			"details": fmt.Sprintf("No se encontró un libro con el ID %d", id),
		})
	case errors.As(err, &blocked):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "No se puede eliminar el libro",
			"details": blocked.Reason,
		})
	case errors.As(err, &constraint):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Error de restricción",
			"details": "No se puede eliminar el libro porque tiene registros relacionados que deben eliminarse primero",
		})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "Error al eliminar el libro",
			"details": err.Error(),
		})
	}
}
