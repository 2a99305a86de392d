package entity

import "time"

// InventoryRecord es el registro autoritativo de stock de un ítem en una sede.
// Clave compuesta (MenuItemID, LocationID), única. StockQuantity nunca es negativa:
// toda escritura pasa por el caso de uso de escritura, que hace clamp a >= 0.
//
// Un registro existe solo si el ítem manejó inventario en algún momento; se crea con
// la primera escritura (reabastecimiento o ajuste inicial) y nunca se borra. Si el
// ítem deja de manejar inventario, el registro se conserva pero no se muestra.
//
// Version se incrementa en cada escritura de cantidad y permite detectar ediciones
// sobre una base desactualizada (concurrencia optimista).
type InventoryRecord struct {
	MenuItemID        string
	LocationID        string
	StockQuantity     int64
	LowStockThreshold int64
	IsAvailable       bool
	Version           int64
	LastRestockedAt   *time.Time
	UpdatedAt         time.Time
}

// RecordKey identifica un registro de inventario (ítem + sede).
type RecordKey struct {
	MenuItemID string
	LocationID string
}

// Key devuelve la clave compuesta del registro.
func (r *InventoryRecord) Key() RecordKey {
	return RecordKey{MenuItemID: r.MenuItemID, LocationID: r.LocationID}
}
