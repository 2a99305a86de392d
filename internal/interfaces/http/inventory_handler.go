package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comedor-app/comedor-api/internal/application/dto"
	"github.com/comedor-app/comedor-api/internal/application/inventory"
	"github.com/comedor-app/comedor-api/internal/domain"
	"github.com/comedor-app/comedor-api/internal/domain/entity"
	"github.com/comedor-app/comedor-api/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP del motor de inventario (protegido).
type InventoryHandler struct {
	query    *inventory.LocationInventoryUseCase
	history  *inventory.HistoryUseCase
	writer   *inventory.StockWriteUseCase
	txRunner inventory.TxRunner
	log      *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	query *inventory.LocationInventoryUseCase,
	history *inventory.HistoryUseCase,
	writer *inventory.StockWriteUseCase,
	txRunner inventory.TxRunner,
	log *logger.Logger,
) *InventoryHandler {
	return &InventoryHandler{query: query, history: history, writer: writer, txRunner: txRunner, log: log}
}

// coordinatorFor deriva la capacidad del caller una sola vez desde sus claims:
// admin obtiene la ruta masiva atómica, el resto la secuencial limitada a sus sedes.
func (h *InventoryHandler) coordinatorFor(c *fiber.Ctx) *inventory.UpdateCoordinator {
	bulkCapable := GetRole(c) == RoleAdmin
	return inventory.NewUpdateCoordinator(h.writer, h.txRunner, bulkCapable, GetLocationIDs(c))
}

// GetLocationInventory godoc
// @Summary      Inventario de una sede
// @Description  Ítems con manejo de inventario de la sede, con campos de menú,
//	cantidad, umbral y estado derivado. initialized=false distingue "sin
//	inicializar" de "0 unidades en stock".
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        locationId  path  string  true  "ID de la sede"
// @Success      200  {array}   dto.InventoryRowDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/locations/{locationId} [get]
func (h *InventoryHandler) GetLocationInventory(c *fiber.Ctx) error {
	rows, err := h.query.GetLocationInventory(c.Context(), c.Params("locationId"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sede no encontrada"})
		}
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sede inválida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(rows), "items": rows})
}

// GetRecord godoc
// @Summary      Registro puntual de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        menuItemId  path  string  true  "ID del ítem"
// @Param        locationId  path  string  true  "ID de la sede"
// @Success      200  {object}  dto.InventoryRecordDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{menuItemId}/{locationId} [get]
func (h *InventoryHandler) GetRecord(c *fiber.Ctx) error {
	record, err := h.query.GetRecord(c.Context(), c.Params("menuItemId"), c.Params("locationId"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no inicializado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(record)
}

// GetHistory godoc
// @Summary      Historial de ajustes
// @Description  Entradas del libro de la más reciente a la más antigua, paginadas
//	por cursor keyset. `before` viene del next_cursor de la página anterior.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        menu_item_id  query  string  false  "Filtrar por ítem"
// @Param        location_id   query  string  false  "Filtrar por sede"
// @Param        limit         query  int     false  "Tamaño de página (default 50, max 100)"
// @Param        before        query  string  false  "Cursor de la página anterior"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/history [get]
func (h *InventoryHandler) GetHistory(c *fiber.Ctx) error {
	before, err := inventory.ParseCursor(c.Query("before"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cursor inválido"})
	}
	page, err := h.history.List(c.Context(), c.Query("menu_item_id"), c.Query("location_id"), c.QueryInt("limit"), before)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	entries := make([]dto.AdjustmentEntryDTO, 0, len(page.Entries))
	for _, e := range page.Entries {
		entries = append(entries, toEntryDTO(e))
	}
	return c.JSON(dto.HistoryResponse{
		Entries:    entries,
		NextCursor: inventory.EncodeCursor(page.NextCursor),
	})
}

// UpdateRecord godoc
// @Summary      Ajustar un registro (ruta secuencial)
// @Description  Fija la cantidad objetivo de un registro. Objetivos negativos se
//	hacen clamp a 0. Con expected_version el ajuste se rechaza (409) si otra
//	sesión escribió primero.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        menuItemId  path  string  true  "ID del ítem"
// @Param        locationId  path  string  true  "ID de la sede"
// @Param        body  body  dto.UpdateRecordRequest  true  "target_quantity, reason, expected_version"
// @Success      200  {object}  dto.ApplyResultDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{menuItemId}/{locationId} [patch]
func (h *InventoryHandler) UpdateRecord(c *fiber.Ctx) error {
	var in dto.UpdateRecordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	key := entity.RecordKey{MenuItemID: c.Params("menuItemId"), LocationID: c.Params("locationId")}

	coordinator := h.coordinatorFor(c)
	results, err := coordinator.ApplyPending(c.Context(), []inventory.PendingUpdate{{
		Key:             key,
		TargetQuantity:  in.TargetQuantity,
		ExpectedVersion: in.ExpectedVersion,
	}}, in.Reason, GetUserID(c))
	if err != nil {
		return h.writeError(c, err)
	}
	res := results[0]
	if !res.OK() {
		return h.writeError(c, res.Err)
	}
	return c.JSON(toResultDTO(res))
}

// BulkUpdate godoc
// @Summary      Actualización masiva (ruta privilegiada, atómica)
// @Description  Aplica todas las ediciones en una sola transacción: o todas quedan
//	confirmadas con su entrada en el libro, o ninguna.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkUpdateRequest  true  "updates, reason"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/bulk [post]
func (h *InventoryHandler) BulkUpdate(c *fiber.Ctx) error {
	var in dto.BulkUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "updates vacío"})
	}
	updates := make([]inventory.PendingUpdate, 0, len(in.Updates))
	for _, u := range in.Updates {
		updates = append(updates, inventory.PendingUpdate{
			Key:             entity.RecordKey{MenuItemID: u.MenuItemID, LocationID: u.LocationID},
			TargetQuantity:  u.TargetQuantity,
			ExpectedVersion: u.ExpectedVersion,
		})
	}

	coordinator := h.coordinatorFor(c)
	results, err := coordinator.ApplyPending(c.Context(), updates, in.Reason, GetUserID(c))
	if err != nil {
		// Todo-o-nada: nada quedó confirmado y el lote completo se reporta fallido.
		h.log.Warn().Err(err).Int("updates", len(updates)).Msg("lote masivo rechazado")
		return h.writeError(c, err)
	}
	out := make([]dto.ApplyResultDTO, 0, len(results))
	for _, res := range results {
		out = append(out, toResultDTO(res))
	}
	return c.JSON(fiber.Map{"applied": len(out), "results": out})
}

// Restock godoc
// @Summary      Registrar reabastecimiento
// @Description  Suma el delta recibido al stock actual y estampa last_restocked_at.
//	El primer reabastecimiento inicializa el registro.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        menuItemId  path  string  true  "ID del ítem"
// @Param        locationId  path  string  true  "ID de la sede"
// @Param        body  body  dto.RestockRequest  true  "quantity, reason"
// @Success      201  {object}  dto.AdjustmentEntryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{menuItemId}/{locationId}/restock [post]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.writer.Restock(c.Context(), c.Params("menuItemId"), c.Params("locationId"), in.Quantity, in.Reason, GetUserID(c))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEntryDTO(entry))
}

// SetAvailability godoc
// @Summary      Cambiar disponibilidad
// @Description  Independiente de la cantidad; no genera entrada en el libro.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        menuItemId  path  string  true  "ID del ítem"
// @Param        locationId  path  string  true  "ID de la sede"
// @Param        body  body  dto.AvailabilityRequest  true  "is_available"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{menuItemId}/{locationId}/availability [patch]
func (h *InventoryHandler) SetAvailability(c *fiber.Ctx) error {
	var in dto.AvailabilityRequest
	if err := c.BodyParser(&in); err != nil || in.IsAvailable == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "is_available requerido"})
	}
	if err := h.writer.SetAvailability(c.Context(), c.Params("menuItemId"), c.Params("locationId"), *in.IsAvailable); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "disponibilidad actualizada"})
}

// writeError mapea errores de dominio a códigos HTTP.
func (h *InventoryHandler) writeError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem o sede no encontrado"})
	case domain.ErrUntracked:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNTRACKED", Message: "el ítem no maneja inventario"})
	case domain.ErrForbidden:
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "sede fuera del alcance del usuario"})
	case domain.ErrConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "otra sesión modificó el registro; recargue e intente de nuevo"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toEntryDTO(e *entity.AdjustmentEntry) dto.AdjustmentEntryDTO {
	return dto.AdjustmentEntryDTO{
		ID:               e.ID,
		MenuItemID:       e.MenuItemID,
		LocationID:       e.LocationID,
		ChangeType:       e.ChangeType,
		Delta:            e.Delta,
		PreviousQuantity: e.PreviousQuantity,
		NewQuantity:      e.NewQuantity,
		Reason:           e.Reason,
		ActingUserID:     e.ActingUserID,
		OrderReference:   e.OrderReference,
		CreatedAt:        e.CreatedAt,
	}
}

func toResultDTO(res inventory.ApplyResult) dto.ApplyResultDTO {
	out := dto.ApplyResultDTO{
		MenuItemID: res.Key.MenuItemID,
		LocationID: res.Key.LocationID,
		OK:         res.OK(),
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	if res.Entry != nil {
		out.NewQuantity = &res.Entry.NewQuantity
		out.EntryID = res.Entry.ID
	}
	return out
}
