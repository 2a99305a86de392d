package entity

import "time"

// Tipos de cambio de inventario.
const (
	ChangeTypeRestock    = "RESTOCK"    // entrada por reabastecimiento
	ChangeTypeOrder      = "ORDER"      // consumo por pedido
	ChangeTypeAdjustment = "ADJUSTMENT" // corrección manual (signo libre)
	ChangeTypeWaste      = "WASTE"      // merma o pérdida
)

// AdjustmentEntry es un hecho de auditoría inmutable: un cambio de cantidad sobre un
// InventoryRecord. Se crea exactamente una vez por escritura aceptada y nunca se
// modifica ni se borra; las correcciones son nuevas entradas ADJUSTMENT.
//
// Invariante: NewQuantity = PreviousQuantity + Delta, ambas >= 0.
// ActingUserID vacío significa movimiento originado por el sistema (ej. consumo de
// pedidos); OrderReference enlaza el pedido cuando ChangeType es ORDER.
type AdjustmentEntry struct {
	ID               string
	MenuItemID       string
	LocationID       string
	ChangeType       string
	Delta            int64
	PreviousQuantity int64
	NewQuantity      int64
	Reason           string
	ActingUserID     string
	OrderReference   string
	CreatedAt        time.Time
}
