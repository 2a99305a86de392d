package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/comedor-app/comedor-api/internal/domain"
	"github.com/comedor-app/comedor-api/internal/domain/entity"
	domaininventory "github.com/comedor-app/comedor-api/internal/domain/inventory"
	"github.com/comedor-app/comedor-api/internal/domain/repository"
	"github.com/comedor-app/comedor-api/pkg/metrics"
)

// Motivos por defecto según la ruta que produjo el ajuste, para trazabilidad de
// auditoría.
const (
	ReasonBulk   = "Bulk inventory adjustment"
	ReasonManual = "Manual inventory adjustment"
)

// PendingUpdate es una edición pendiente lista para aplicar: clave, cantidad objetivo
// y, opcionalmente, la versión del registro que la sesión cargó como base.
type PendingUpdate struct {
	Key             entity.RecordKey
	TargetQuantity  int64
	ExpectedVersion *int64
}

// ApplyResult resultado por clave de aplicar las ediciones pendientes.
type ApplyResult struct {
	Key   entity.RecordKey
	Entry *entity.AdjustmentEntry // nil si la clave falló
	Err   error
}

// OK indica si la escritura de esta clave fue confirmada.
func (r ApplyResult) OK() bool { return r.Err == nil }

// applyStrategy es el contrato común de las dos rutas de aplicación.
type applyStrategy interface {
	applyPending(ctx context.Context, updates []PendingUpdate, reason, actingUserID string) ([]ApplyResult, error)
}

// UpdateCoordinator aplica un conjunto de ediciones pendientes al registro
// autoritativo. Se construye con BulkCapable derivado una sola vez del contexto de
// autorización del caller y despacha a una de dos estrategias:
//
//   - Ruta masiva (callers con acceso irrestricto): una sola transacción sobre todas
//     las claves, todo-o-nada.
//   - Ruta secuencial (callers limitados a un subconjunto de sedes): una escritura
//     independiente por clave, con resultado por clave; una falla a mitad de camino
//     deja estado mixto documentado, no es un descuido.
type UpdateCoordinator struct {
	strategy    applyStrategy
	bulkCapable bool
}

// NewUpdateCoordinator construye el coordinador. allowedLocations delimita la ruta
// secuencial (ignorado en la masiva); vacío significa sin restricción de sede.
func NewUpdateCoordinator(writer *StockWriteUseCase, txRunner TxRunner, bulkCapable bool, allowedLocations []string) *UpdateCoordinator {
	if bulkCapable {
		return &UpdateCoordinator{strategy: &bulkStrategy{txRunner: txRunner}, bulkCapable: true}
	}
	var allowed map[string]struct{}
	if len(allowedLocations) > 0 {
		allowed = make(map[string]struct{}, len(allowedLocations))
		for _, id := range allowedLocations {
			allowed[id] = struct{}{}
		}
	}
	return &UpdateCoordinator{strategy: &sequentialStrategy{writer: writer, allowed: allowed}}
}

// BulkCapable indica qué ruta usará el coordinador.
func (c *UpdateCoordinator) BulkCapable() bool { return c.bulkCapable }

// ApplyPending aplica las ediciones pendientes. Con la ruta masiva un error significa
// que nada se confirmó; con la secuencial el error es nil y cada resultado dice qué
// pasó con su clave.
func (c *UpdateCoordinator) ApplyPending(ctx context.Context, updates []PendingUpdate, reason, actingUserID string) ([]ApplyResult, error) {
	if len(updates) == 0 {
		return nil, nil
	}
	return c.strategy.applyPending(ctx, updates, reason, actingUserID)
}

// ApplyBuffer aplica las ediciones de un ReconciliationBuffer y mantiene el buffer
// consistente con el resultado: las claves confirmadas se eliminan, las fallidas
// permanecen DIRTY para reintentar solo ese subconjunto.
func (c *UpdateCoordinator) ApplyBuffer(ctx context.Context, buffer *domaininventory.ReconciliationBuffer, reason, actingUserID string) ([]ApplyResult, error) {
	pending := buffer.PendingEdits()
	updates := make([]PendingUpdate, 0, len(pending))
	for key, edit := range pending {
		updates = append(updates, PendingUpdate{Key: key, TargetQuantity: edit.Target})
	}
	results, err := c.ApplyPending(ctx, updates, reason, actingUserID)
	if err != nil {
		return nil, err
	}
	applied := make([]entity.RecordKey, 0, len(results))
	for _, res := range results {
		if res.OK() {
			applied = append(applied, res.Key)
		}
	}
	buffer.MarkApplied(applied)
	return results, nil
}

// bulkStrategy: una sola transacción del lado del servidor que abarca todas las
// claves. Bloquea las filas en orden determinístico de clave antes de confirmar
// cualquiera, para evitar deadlocks entre lotes concurrentes y preservar la semántica
// todo-o-nada. Si el aislamiento no puede garantizarse, falla cerrado: se rechaza el
// lote completo en vez de degradar a aplicación parcial.
type bulkStrategy struct {
	txRunner TxRunner
}

func (s *bulkStrategy) applyPending(ctx context.Context, updates []PendingUpdate, reason, actingUserID string) ([]ApplyResult, error) {
	if reason == "" {
		reason = ReasonBulk
	}
	ordered := make([]PendingUpdate, len(updates))
	copy(ordered, updates)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Key.MenuItemID != ordered[j].Key.MenuItemID {
			return ordered[i].Key.MenuItemID < ordered[j].Key.MenuItemID
		}
		return ordered[i].Key.LocationID < ordered[j].Key.LocationID
	})

	results := make([]ApplyResult, 0, len(ordered))
	err := s.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		ledgerRepo repository.AdjustmentLedgerRepository,
		itemRepo repository.MenuItemRepository,
		locationRepo repository.LocationRepository,
	) error {
		now := time.Now()
		for _, u := range ordered {
			entry, err := applyWrite(recordRepo, ledgerRepo, itemRepo, locationRepo, WriteInput{
				MenuItemID:      u.Key.MenuItemID,
				LocationID:      u.Key.LocationID,
				Quantity:        u.TargetQuantity,
				ChangeType:      entity.ChangeTypeAdjustment,
				Reason:          reason,
				ActingUserID:    actingUserID,
				ExpectedVersion: u.ExpectedVersion,
			}, now)
			if err != nil {
				// Rollback de todo el lote: ninguna clave queda aplicada.
				return err
			}
			results = append(results, ApplyResult{Key: u.Key, Entry: entry})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.WriteConflict()
		}
		return nil, err
	}
	for _, res := range results {
		metrics.AdjustmentApplied(res.Entry.ChangeType, "bulk")
	}
	return results, nil
}

// sequentialStrategy: sin primitiva masiva disponible. Una escritura por clave, cada
// una confirmada de inmediato; el resultado es por clave (no un booleano
// todo-o-nada) para que el caller pueda mostrar exactamente qué ítems quedaron
// pendientes.
type sequentialStrategy struct {
	writer  *StockWriteUseCase
	allowed map[string]struct{} // nil = sin restricción de sede
}

func (s *sequentialStrategy) applyPending(ctx context.Context, updates []PendingUpdate, reason, actingUserID string) ([]ApplyResult, error) {
	if reason == "" {
		reason = ReasonManual
	}
	results := make([]ApplyResult, 0, len(updates))
	for _, u := range updates {
		if s.allowed != nil {
			if _, ok := s.allowed[u.Key.LocationID]; !ok {
				results = append(results, ApplyResult{Key: u.Key, Err: domain.ErrForbidden})
				continue
			}
		}
		entry, err := s.writer.Write(ctx, WriteInput{
			MenuItemID:      u.Key.MenuItemID,
			LocationID:      u.Key.LocationID,
			Quantity:        u.TargetQuantity,
			ChangeType:      entity.ChangeTypeAdjustment,
			Reason:          reason,
			ActingUserID:    actingUserID,
			ExpectedVersion: u.ExpectedVersion,
		})
		results = append(results, ApplyResult{Key: u.Key, Entry: entry, Err: err})
	}
	return results, nil
}
