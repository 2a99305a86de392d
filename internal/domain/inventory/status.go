package inventory

// StockStatus es el estado de despliegue derivado de un registro de inventario.
type StockStatus string

const (
	StatusInStock    StockStatus = "IN_STOCK"
	StatusLowStock   StockStatus = "LOW_STOCK"
	StatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

// ClassifyStatus deriva el estado de stock a partir de cantidad, umbral y
// disponibilidad. Función pura, sin estado.
//
// Reglas:
//   - OUT_OF_STOCK si el ítem no está disponible o la cantidad es 0.
//   - LOW_STOCK si la cantidad es <= umbral (el límite es inclusivo: cantidad igual
//     al umbral es LOW_STOCK, no IN_STOCK).
//   - IN_STOCK en cualquier otro caso.
//
// Los ítems sin manejo de inventario no tienen estado; la capa de presentación los
// muestra como ilimitados.
func ClassifyStatus(stockQuantity, lowStockThreshold int64, isAvailable bool) StockStatus {
	if !isAvailable || stockQuantity == 0 {
		return StatusOutOfStock
	}
	if stockQuantity <= lowStockThreshold {
		return StatusLowStock
	}
	return StatusInStock
}
