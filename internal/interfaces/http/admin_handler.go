package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fbr-invoicing/internal/application/admin"
)

// AdminHandler rutas /api/admin (rol admin).
type AdminHandler struct {
	uc *admin.UseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *admin.UseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// ListUsers godoc
// @Summary      Listar usuarios
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.uc.ListUsers(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// Stats godoc
// @Summary      Resumen de la plataforma
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.PlatformStatsResponse
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.PlatformStats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteUser godoc
// @Summary      Eliminar usuario y sus datos
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "id"
// @Success      204
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.uc.DeleteUser(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecomputeStats godoc
// @Summary      Recalcular contadores de un usuario
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "id"
// @Success      200  {object}  dto.UserStatsDTO
// @Router       /api/admin/users/{id}/recompute-stats [post]
func (h *AdminHandler) RecomputeStats(c *fiber.Ctx) error {
	out, err := h.uc.RecomputeUserStats(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar contadores de todos los usuarios
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        fix  query  bool  false  "reparar deriva (por defecto true)"
// @Success      200  {object}  dto.ReconcileResponse
// @Router       /api/admin/reconcile [post]
func (h *AdminHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.uc.Reconcile(c.Context(), admin.ReconcileOptions{
		UserID: c.Query("user_id"),
		Fix:    c.QueryBool("fix", true),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
