package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mfuentes/biblioteca-api/internal/model"
	"github.com/mfuentes/biblioteca-api/internal/repository"
)

// ReservationHandler bundles dependencies for the /api/reservations
// endpoints.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
}

func NewReservationHandler(r *repository.ReservationRepo) *ReservationHandler {
	return &ReservationHandler{Reservations: r}
}

type reservationCreateReq struct {
	UserID uint64 `json:"usuario_id"`
	CopyID uint64 `json:"ejemplar_id"`
}

type reservationUpdateReq struct {
	Status string `json:"estado"`
}

var reservationStatuses = map[string]bool{
	model.ReservationStatusPending:   true,
	model.ReservationStatusConfirmed: true,
	model.ReservationStatusCancelled: true,
	model.ReservationStatusFulfilled: true,
}

// Create handles POST /api/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req reservationCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	if req.UserID == 0 || req.CopyID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "usuario_id y ejemplar_id son obligatorios"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	res := model.Reservation{UserID: req.UserID, CopyID: req.CopyID}
	if err := h.Reservations.Create(ctx, &res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al crear la reserva"})
	}
	return c.JSON(http.StatusCreated, res)
}

// List handles GET /api/reservations.
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	out, err := h.Reservations.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener las reservas"})
	}
	return c.JSON(http.StatusOK, out)
}

// GetByID handles GET /api/reservations/:id.
func (h *ReservationHandler) GetByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ID inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Reserva no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener la reserva"})
	}
	return c.JSON(http.StatusOK, res)
}

// Update handles PUT /api/reservations/:id.  Cancelled and completed
// reservations are archived into the reservation history.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ID inválido"})
	}
	var req reservationUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	if !reservationStatuses[req.Status] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "estado inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Reservations.UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Reserva no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al actualizar la reserva"})
	}
	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener la reserva"})
	}
	return c.JSON(http.StatusOK, res)
}

// Delete handles DELETE /api/reservations/:id.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ID inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Reservations.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Reserva no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al eliminar la reserva"})
	}
	return c.NoContent(http.StatusNoContent)
}
