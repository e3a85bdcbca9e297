package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mfuentes/biblioteca-api/internal/model"
	"github.com/mfuentes/biblioteca-api/internal/repository"
)

// FineHandler bundles dependencies for the /api/fines endpoints.
type FineHandler struct {
	Fines *repository.FineRepo
}

func NewFineHandler(f *repository.FineRepo) *FineHandler {
	return &FineHandler{Fines: f}
}

type fineCreateReq struct {
	UserID uint64  `json:"usuario_id"`
	Amount float64 `json:"monto"`
	Reason *string `json:"motivo"`
}

// Create handles POST /api/fines.
func (h *FineHandler) Create(c echo.Context) error {
	var req fineCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	if req.UserID == 0 || req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "usuario_id y monto son obligatorios"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	f := model.Fine{UserID: req.UserID, Amount: req.Amount, Reason: req.Reason}
	if err := h.Fines.Create(ctx, &f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al crear la multa"})
	}
	return c.JSON(http.StatusCreated, f)
}

// List handles GET /api/fines with an optional ?usuario_id= filter.
func (h *FineHandler) List(c echo.Context) error {
	var userID *uint64
	if q := c.QueryParam("usuario_id"); q != "" {
		n, err := strconv.ParseUint(q, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "usuario_id inválido"})
		}
		userID = &n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	out, err := h.Fines.List(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener las multas"})
	}
	return c.JSON(http.StatusOK, out)
}

// Pay handles PUT /api/fines/:id/pagar.
func (h *FineHandler) Pay(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ID inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Fines.Pay(ctx, id); err != nil {
		if errors.Is(err, repository.ErrFineNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Multa no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al pagar la multa"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Multa pagada", "id": id})
}
