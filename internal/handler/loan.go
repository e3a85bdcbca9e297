package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mfuentes/biblioteca-api/internal/model"
	"github.com/mfuentes/biblioteca-api/internal/queue"
	"github.com/mfuentes/biblioteca-api/internal/repository"
	queue_publisher "github.com/mfuentes/biblioteca-api/internal/service"
)

// LoanHandler bundles dependencies for the /api/loans endpoints.
type LoanHandler struct {
	Loans *repository.LoanRepo
}

func NewLoanHandler(l *repository.LoanRepo) *LoanHandler {
	return &LoanHandler{Loans: l}
}

type loanCreateReq struct {
	UserID  uint64 `json:"usuario_id"`
	CopyID  uint64 `json:"ejemplar_id"`
	DueDate string `json:"fecha_devolucion"` // "2006-01-02" or RFC3339
}

type loanUpdateReq struct {
	Status  string  `json:"estado"`
	DueDate *string `json:"fecha_devolucion"`
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

var loanStatuses = map[string]bool{
	model.LoanStatusPending:  true,
	model.LoanStatusActive:   true,
	model.LoanStatusReturned: true,
	model.LoanStatusOverdue:  true,
}

// Create handles POST /api/loans.  The authenticated librarian is
// recorded on the loan.  On success a loan.created event is published
// to the broker; publish failures are logged but never fail the
// request.
func (h *LoanHandler) Create(c echo.Context) error {
	var req loanCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	if req.UserID == 0 || req.CopyID == 0 || req.DueDate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "usuario_id, ejemplar_id y fecha_devolucion son obligatorios"})
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fecha_devolucion inválida"})
	}
	libID, ok := librarianID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	l := model.Loan{UserID: req.UserID, CopyID: req.CopyID, LibrarianID: libID, DueDate: due}
	if err := h.Loans.Create(ctx, &l); err != nil {
		if errors.Is(err, repository.ErrCopyUnavailable) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "El ejemplar no está disponible"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al crear el préstamo"})
	}

	// Enrich the event with patron and book names; the loan itself is
	// already committed so a read failure only degrades the event.
	detail, err := h.Loans.GetByID(ctx, l.ID)
	if err != nil {
		detail = &repository.LoanDetail{Loan: l}
	}
	go func(d repository.LoanDetail) {
		ev := queue.LoanCreatedEvent{
			LoanID:      d.ID,
			UserID:      d.UserID,
			UserName:    d.UserName,
			CopyID:      d.CopyID,
			BookTitle:   d.BookTitle,
			LibrarianID: d.LibrarianID,
			DueDate:     d.DueDate.Format("2006-01-02"),
			CreatedAt:   d.CreatedAt.UTC().Format(time.RFC3339),
		}
		pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pcancel()
		if err := queue_publisher.PublishLoanCreated(pctx, ev); err != nil {
			log.Printf("loan %d: publish loan.created failed: %v", d.ID, err)
		}
	}(*detail)

	return c.JSON(http.StatusCreated, l)
}

// List handles GET /api/loans.
func (h *LoanHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	loans, err := h.Loans.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener los préstamos"})
	}
	return c.JSON(http.StatusOK, loans)
}

// GetByID handles GET /api/loans/:id.
func (h *LoanHandler) GetByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ID inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	l, err := h.Loans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLoanNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Préstamo no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener el préstamo"})
	}
	return c.JSON(http.StatusOK, l)
}

// Update handles PUT /api/loans/:id.  Only the status and the due
// date can change; marking a loan 'devuelto' releases the copy and
// archives the loan.
func (h *LoanHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ID inválido"})
	}
	var req loanUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	if !loanStatuses[req.Status] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "estado inválido"})
	}
	var due *time.Time
	if req.DueDate != nil {
		d, err := parseDate(*req.DueDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "fecha_devolucion inválida"})
		}
		due = &d
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Loans.UpdateStatus(ctx, id, req.Status, due); err != nil {
		if errors.Is(err, repository.ErrLoanNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Préstamo no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al actualizar el préstamo"})
	}
	l, err := h.Loans.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener el préstamo"})
	}
	return c.JSON(http.StatusOK, l)
}

// Delete handles DELETE /api/loans/:id.  Deletion is an implicit
// return: the copy goes back to 'disponible'.
func (h *LoanHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ID inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Loans.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrLoanNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Préstamo no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al eliminar el préstamo"})
	}
	return c.NoContent(http.StatusNoContent)
}
