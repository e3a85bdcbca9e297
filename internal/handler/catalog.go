package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mfuentes/biblioteca-api/internal/repository"
)

// CatalogHandler serves the read-only reference tables.
type CatalogHandler struct {
	Catalog *repository.CatalogRepo
}

func NewCatalogHandler(r *repository.CatalogRepo) *CatalogHandler {
	return &CatalogHandler{Catalog: r}
}

// Rooms handles GET /api/rooms.
func (h *CatalogHandler) Rooms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	out, err := h.Catalog.Rooms(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener las salas"})
	}
	return c.JSON(http.StatusOK, out)
}

// Categories handles GET /api/categories.
func (h *CatalogHandler) Categories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	out, err := h.Catalog.Categories(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener las categorías"})
	}
	return c.JSON(http.StatusOK, out)
}

// Suppliers handles GET /api/suppliers.
func (h *CatalogHandler) Suppliers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	out, err := h.Catalog.Suppliers(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener los proveedores"})
	}
	return c.JSON(http.StatusOK, out)
}
