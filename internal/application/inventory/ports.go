package inventory

import (
	"context"

	"github.com/comedor-app/comedor-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor de inventario: leer cantidad,
// clamp, escribir registro y agregar la entrada del libro ocurren como una unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		recordRepo repository.InventoryRecordRepository,
		ledgerRepo repository.AdjustmentLedgerRepository,
		itemRepo repository.MenuItemRepository,
		locationRepo repository.LocationRepository,
	) error) error
}
