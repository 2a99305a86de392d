package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comedor-app/comedor-api/internal/application/dto"
	"github.com/comedor-app/comedor-api/internal/application/inventory"
	"github.com/comedor-app/comedor-api/internal/domain"
)

// MenuHandler maneja el flag de manejo de inventario de los ítems del menú.
// El CRUD del menú vive en otro servicio.
type MenuHandler struct {
	tracking *inventory.TrackingUseCase
}

// NewMenuHandler construye el handler.
func NewMenuHandler(tracking *inventory.TrackingUseCase) *MenuHandler {
	return &MenuHandler{tracking: tracking}
}

// SetTracking godoc
// @Summary      Activar/desactivar manejo de inventario
// @Description  Desactivar conserva los registros existentes (solo dejan de
//	mostrarse y el ítem se trata como ilimitado); activar no crea registros, el
//	ítem queda "sin inicializar" hasta la primera escritura.
// @Tags         menu-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.TrackingRequest  true  "track_inventory"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/menu-items/{id}/tracking [patch]
func (h *MenuHandler) SetTracking(c *fiber.Ctx) error {
	var in dto.TrackingRequest
	if err := c.BodyParser(&in); err != nil || in.TrackInventory == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "track_inventory requerido"})
	}
	if err := h.tracking.SetTracking(c.Context(), c.Params("id"), *in.TrackInventory); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"})
		}
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "flag actualizado"})
}
