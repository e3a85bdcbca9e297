package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mfuentes/biblioteca-api/internal/deletion"
	"github.com/mfuentes/biblioteca-api/internal/model"
	"github.com/mfuentes/biblioteca-api/internal/repository"
)

// UserHandler bundles dependencies for the /api/users endpoints.
// Deleting a patron cascades over everything they left behind; there
// is no guard, a patron can always be removed.
type UserHandler struct {
	Users   *repository.UserRepo
	Deleter *deletion.Executor
}

func NewUserHandler(u *repository.UserRepo, d *deletion.Executor) *UserHandler {
	return &UserHandler{Users: u, Deleter: d}
}

type userReq struct {
	Name    string   `json:"nombre"`
	Address *string  `json:"direccion"`
	Phone   *string  `json:"telefono"`
	Email   *string  `json:"email"`
	RoleIDs []uint64 `json:"roles"`
}

// Create handles POST /api/users.
func (h *UserHandler) Create(c echo.Context) error {
	var req userReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nombre es obligatorio"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	u := model.User{Name: req.Name, Address: req.Address, Phone: req.Phone, Email: req.Email}
	if err := h.Users.Create(ctx, &u, req.RoleIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al crear el usuario"})
	}
	return c.JSON(http.StatusCreated, u)
}

// List handles GET /api/users.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener los usuarios"})
	}
	return c.JSON(http.StatusOK, users)
}

// GetByID handles GET /api/users/:id.
func (h *UserHandler) GetByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ID inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuario no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener el usuario"})
	}
	return c.JSON(http.StatusOK, u)
}

// Update handles PUT /api/users/:id.  The role set is replaced
// wholesale with the ids provided in the body.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ID inválido"})
	}
	var req userReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nombre es obligatorio"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	u := model.User{ID: id, Name: req.Name, Address: req.Address, Phone: req.Phone, Email: req.Email}
	if err := h.Users.Update(ctx, &u, req.RoleIDs); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuario no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al actualizar el usuario"})
	}
	return c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /api/users/:id.  Copies the patron still had
// out are released back to 'disponible' before their loans are
// purged, so deleting a patron never strands a copy in 'prestado'.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ID inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	err = h.Deleter.Execute(ctx, deletion.UserDescriptor, id)
	if err == nil {
		return c.NoContent(http.StatusNoContent)
	}

	var constraint *deletion.ConstraintError
	switch {
	case errors.Is(err, deletion.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuario no encontrado"})
	case errors.As(err, &constraint):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Error de restricción",
			"details": "No se puede eliminar el usuario porque tiene registros relacionados que deben eliminarse primero",
		})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "Error al eliminar el usuario",
			"details": err.Error(),
		})
	}
}
