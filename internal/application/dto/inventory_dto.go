package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRowDTO fila de la vista de inventario de una sede: campos de menú más el
// registro si existe. StockQuantity es puntero para distinguir "0 unidades" de
// "sin inicializar" (nil); Status va vacío cuando no hay registro.
type InventoryRowDTO struct {
	MenuItemID        string          `json:"menu_item_id"`
	LocationID        string          `json:"location_id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	Initialized       bool            `json:"initialized"`
	StockQuantity     *int64          `json:"stock_quantity,omitempty"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
	IsAvailable       bool            `json:"is_available"`
	Version           int64           `json:"version"`
	LastRestockedAt   *time.Time      `json:"last_restocked_at,omitempty"`
	Status            string          `json:"status,omitempty"`
}

// InventoryRecordDTO un registro puntual con su estado derivado.
type InventoryRecordDTO struct {
	MenuItemID        string     `json:"menu_item_id"`
	LocationID        string     `json:"location_id"`
	StockQuantity     int64      `json:"stock_quantity"`
	LowStockThreshold int64      `json:"low_stock_threshold"`
	IsAvailable       bool       `json:"is_available"`
	Version           int64      `json:"version"`
	LastRestockedAt   *time.Time `json:"last_restocked_at,omitempty"`
	Status            string     `json:"status"`
}

// AdjustmentEntryDTO una entrada del libro de ajustes.
type AdjustmentEntryDTO struct {
	ID               string    `json:"id"`
	MenuItemID       string    `json:"menu_item_id"`
	LocationID       string    `json:"location_id"`
	ChangeType       string    `json:"change_type"`
	Delta            int64     `json:"delta"`
	PreviousQuantity int64     `json:"previous_quantity"`
	NewQuantity      int64     `json:"new_quantity"`
	Reason           string    `json:"reason,omitempty"`
	ActingUserID     string    `json:"acting_user_id,omitempty"`
	OrderReference   string    `json:"order_reference,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// HistoryResponse página del historial. next_cursor va en el query param `before`
// de la siguiente petición; vacío = no hay más páginas.
type HistoryResponse struct {
	Entries    []AdjustmentEntryDTO `json:"entries"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

// UpdateRecordRequest body para PATCH de un registro (ruta secuencial).
// target_quantity puede venir negativo: se hace clamp a 0, no se rechaza.
type UpdateRecordRequest struct {
	TargetQuantity  int64  `json:"target_quantity"`
	Reason          string `json:"reason,omitempty"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

// BulkUpdateItem una edición dentro del lote masivo.
type BulkUpdateItem struct {
	MenuItemID      string `json:"menu_item_id"`
	LocationID      string `json:"location_id"`
	TargetQuantity  int64  `json:"target_quantity"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

// BulkUpdateRequest body para POST /api/inventory/bulk (ruta privilegiada, atómica).
type BulkUpdateRequest struct {
	Updates []BulkUpdateItem `json:"updates"`
	Reason  string           `json:"reason,omitempty"`
}

// RestockRequest body para registrar un reabastecimiento (delta positivo).
type RestockRequest struct {
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

// AvailabilityRequest body para cambiar disponibilidad. Puntero para exigir el campo.
type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available"`
}

// TrackingRequest body para PATCH del flag de manejo de inventario.
type TrackingRequest struct {
	TrackInventory *bool `json:"track_inventory"`
}

// ApplyResultDTO resultado por clave de una aplicación de ediciones.
type ApplyResultDTO struct {
	MenuItemID  string `json:"menu_item_id"`
	LocationID  string `json:"location_id"`
	OK          bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
	NewQuantity *int64 `json:"new_quantity,omitempty"`
	EntryID     string `json:"entry_id,omitempty"`
}
