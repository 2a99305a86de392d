package repository

import "github.com/comedor-app/comedor-api/internal/domain/entity"

// MenuItemRepository define el puerto de lectura de ítems del menú y del flag
// track_inventory. El CRUD completo del menú vive en otro módulo.
type MenuItemRepository interface {
	GetByID(id string) (*entity.MenuItem, error)
	// SetTracking activa o desactiva el manejo de inventario. Desactivarlo no borra
	// los registros existentes; activarlo no crea registros por sede.
	SetTracking(id string, enabled bool) error
}
