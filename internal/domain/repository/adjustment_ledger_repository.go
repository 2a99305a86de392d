package repository

import (
	"time"

	"github.com/comedor-app/comedor-api/internal/domain/entity"
)

// LedgerCursor es el cursor de paginación keyset del historial: la pareja
// (CreatedAt, ID) de la última entrada vista. Las páginas siguientes devuelven
// entradas estrictamente más antiguas, sin duplicados ni huecos.
type LedgerCursor struct {
	CreatedAt time.Time
	ID        string
}

// LedgerFilter filtros del historial de ajustes.
type LedgerFilter struct {
	MenuItemID string // vacío = todos los ítems
	LocationID string // vacío = todas las sedes
	Limit      int
	Before     *LedgerCursor // nil = primera página
}

// AdjustmentLedgerRepository define el puerto del libro de ajustes. Append es la única
// mutación: las entradas son inmutables una vez agregadas y no existe update ni
// delete; las correcciones se expresan como nuevas entradas ADJUSTMENT.
type AdjustmentLedgerRepository interface {
	Append(entry *entity.AdjustmentEntry) error
	// List devuelve entradas de la más reciente a la más antigua según el filtro.
	List(filter LedgerFilter) ([]*entity.AdjustmentEntry, error)
}
