package repository

import "github.com/comedor-app/comedor-api/internal/domain/entity"

// InventoryView es una fila del inventario de una sede: el registro (si existe) junto
// con los campos de despliegue del ítem del menú.
type InventoryView struct {
	Item        entity.MenuItem
	Record      *entity.InventoryRecord // nil = ítem con manejo de inventario sin inicializar
	Initialized bool
}

// InventoryRecordRepository define el puerto para consultar/actualizar los registros
// autoritativos de stock por ítem+sede. Usado dentro de transacciones para garantizar
// consistencia.
type InventoryRecordRepository interface {
	Get(menuItemID, locationID string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Devuelve nil si
	// el registro aún no existe (ítem sin inicializar).
	GetForUpdate(menuItemID, locationID string) (*entity.InventoryRecord, error)
	Upsert(record *entity.InventoryRecord) error
	// SetAvailability cambia solo la disponibilidad; no toca cantidad ni versión y
	// por lo tanto no genera entrada en el libro.
	SetAvailability(menuItemID, locationID string, isAvailable bool) error
	// ListByLocation devuelve los ítems con manejo de inventario de una sede, con su
	// registro si ya fue inicializado, ordenados por nombre de ítem.
	ListByLocation(locationID string) ([]InventoryView, error)
}
