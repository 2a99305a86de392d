package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comedor-app/comedor-api/internal/domain"
	"github.com/comedor-app/comedor-api/internal/domain/entity"
	domaininventory "github.com/comedor-app/comedor-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del coordinador: ruta masiva todo-o-nada vs ruta secuencial con resultado
// por clave y estado mixto documentado.
// ──────────────────────────────────────────────────────────────────────────────

var (
	keyA = entity.RecordKey{MenuItemID: "item-a", LocationID: "sede-1"}
	keyB = entity.RecordKey{MenuItemID: "item-b", LocationID: "sede-1"}
)

func seedTwoRecords(state *memState) {
	seedTrackedItem(state, "item-a", "Almuerzo A")
	seedTrackedItem(state, "item-b", "Almuerzo B")
	seedRecord(state, "item-a", "sede-1", 10, 2)
	seedRecord(state, "item-b", "sede-1", 10, 2)
}

// Ruta masiva, caso feliz: ambas claves aplicadas en una transacción, dos entradas
// en el libro, motivo por defecto de la ruta.
func TestBulk_AplicaTodoConDosEntradas(t *testing.T) {
	state := newMemState()
	seedTwoRecords(state)
	runner := &memTxRunner{state: state}
	writer := NewStockWriteUseCase(runner, &memRecordRepo{state: state})
	coordinator := NewUpdateCoordinator(writer, runner, true, nil)
	require.True(t, coordinator.BulkCapable())

	results, err := coordinator.ApplyPending(context.Background(), []PendingUpdate{
		{Key: keyA, TargetQuantity: 5},
		{Key: keyB, TargetQuantity: 8},
	}, "", "admin-1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.True(t, res.OK())
		assert.Equal(t, ReasonBulk, res.Entry.Reason)
		assert.Equal(t, entity.ChangeTypeAdjustment, res.Entry.ChangeType)
	}
	assert.Equal(t, int64(5), state.records[keyA].StockQuantity)
	assert.Equal(t, int64(8), state.records[keyB].StockQuantity)
	assert.Len(t, state.entries, 2)
}

// Escenario de atomicidad: si una clave del lote falla (escritura en conflicto
// durante la transacción), ninguna queda aplicada y el libro queda vacío — nunca
// "A cambió sola".
func TestBulk_FalloParcialNoDejaRastro(t *testing.T) {
	state := newMemState()
	seedTwoRecords(state)
	runner := &memTxRunner{state: state, failOn: &keyB}
	writer := NewStockWriteUseCase(runner, &memRecordRepo{state: state})
	coordinator := NewUpdateCoordinator(writer, runner, true, nil)

	results, err := coordinator.ApplyPending(context.Background(), []PendingUpdate{
		{Key: keyA, TargetQuantity: 5},
		{Key: keyB, TargetQuantity: 3},
	}, "", "admin-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Nil(t, results)

	assert.Equal(t, int64(10), state.records[keyA].StockQuantity, "rollback: A no cambió")
	assert.Equal(t, int64(10), state.records[keyB].StockQuantity)
	assert.Empty(t, state.entries, "cero entradas en el libro")
}

// Un ítem desconocido dentro del lote también rechaza el lote completo.
func TestBulk_ClaveInexistenteRechazaElLote(t *testing.T) {
	state := newMemState()
	seedTwoRecords(state)
	runner := &memTxRunner{state: state}
	writer := NewStockWriteUseCase(runner, &memRecordRepo{state: state})
	coordinator := NewUpdateCoordinator(writer, runner, true, nil)

	_, err := coordinator.ApplyPending(context.Background(), []PendingUpdate{
		{Key: keyA, TargetQuantity: 5},
		{Key: entity.RecordKey{MenuItemID: "fantasma", LocationID: "sede-1"}, TargetQuantity: 1},
	}, "", "admin-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(10), state.records[keyA].StockQuantity)
	assert.Empty(t, state.entries)
}

// Escenario de fallo parcial secuencial: A=10 y B=10 apuntadas a 3; B dejó de
// manejar inventario. El coordinador reporta por clave, el store muestra A=3 y
// B=10, y el buffer retiene solo B como DIRTY para reintentar.
func TestSequential_FalloParcialReportaPorClave(t *testing.T) {
	state := newMemState()
	seedTwoRecords(state)
	state.items["item-b"].TrackInventory = false

	runner := &memTxRunner{state: state}
	writer := NewStockWriteUseCase(runner, &memRecordRepo{state: state})
	coordinator := NewUpdateCoordinator(writer, runner, false, nil)
	require.False(t, coordinator.BulkCapable())

	buffer := domaininventory.NewReconciliationBuffer()
	buffer.SetQuantity(keyA, 10, 3)
	buffer.SetQuantity(keyB, 10, 3)

	results, err := coordinator.ApplyBuffer(context.Background(), buffer, "", "cocina-1")
	require.NoError(t, err, "el fallo parcial no es un error único sino un resultado por clave")
	require.Len(t, results, 2)

	byKey := make(map[entity.RecordKey]ApplyResult, len(results))
	for _, res := range results {
		byKey[res.Key] = res
	}
	assert.True(t, byKey[keyA].OK())
	assert.False(t, byKey[keyB].OK())
	assert.ErrorIs(t, byKey[keyB].Err, domain.ErrUntracked)

	assert.Equal(t, int64(3), state.records[keyA].StockQuantity)
	assert.Equal(t, int64(10), state.records[keyB].StockQuantity, "B quedó sin tocar")
	assert.Len(t, state.entries, 1, "solo la escritura de A entró al libro")

	// El buffer retiene solo el subconjunto fallido.
	_, dirtyA := buffer.Pending(keyA)
	_, dirtyB := buffer.Pending(keyB)
	assert.False(t, dirtyA)
	assert.True(t, dirtyB)
	assert.True(t, buffer.IsDirty())
}

// La ruta secuencial respeta el alcance de sedes del caller: una sede fuera de
// alcance falla con ErrForbidden sin intentar la escritura.
func TestSequential_SedeFueraDeAlcance(t *testing.T) {
	state := newMemState()
	seedTrackedItem(state, "item-a", "Almuerzo A")
	seedRecord(state, "item-a", "sede-1", 10, 2)
	seedTrackedItem(state, "item-c", "Almuerzo C")
	seedRecord(state, "item-c", "sede-2", 10, 2)

	runner := &memTxRunner{state: state}
	writer := NewStockWriteUseCase(runner, &memRecordRepo{state: state})
	coordinator := NewUpdateCoordinator(writer, runner, false, []string{"sede-1"})

	keyC := entity.RecordKey{MenuItemID: "item-c", LocationID: "sede-2"}
	results, err := coordinator.ApplyPending(context.Background(), []PendingUpdate{
		{Key: keyA, TargetQuantity: 6},
		{Key: keyC, TargetQuantity: 6},
	}, "", "cocina-1")
	require.NoError(t, err)

	byKey := make(map[entity.RecordKey]ApplyResult, len(results))
	for _, res := range results {
		byKey[res.Key] = res
	}
	assert.True(t, byKey[keyA].OK())
	assert.ErrorIs(t, byKey[keyC].Err, domain.ErrForbidden)
	assert.Equal(t, int64(10), state.records[keyC].StockQuantity)
}

// El motivo explícito del caller tiene prioridad sobre el constante de la ruta.
func TestSequential_MotivoPorDefecto(t *testing.T) {
	state := newMemState()
	seedTwoRecords(state)
	runner := &memTxRunner{state: state}
	writer := NewStockWriteUseCase(runner, &memRecordRepo{state: state})
	coordinator := NewUpdateCoordinator(writer, runner, false, nil)

	results, err := coordinator.ApplyPending(context.Background(), []PendingUpdate{
		{Key: keyA, TargetQuantity: 4},
	}, "", "cocina-1")
	require.NoError(t, err)
	assert.Equal(t, ReasonManual, results[0].Entry.Reason)

	results, err = coordinator.ApplyPending(context.Background(), []PendingUpdate{
		{Key: keyB, TargetQuantity: 4},
	}, "conteo de cierre", "cocina-1")
	require.NoError(t, err)
	assert.Equal(t, "conteo de cierre", results[0].Entry.Reason)
}

// Sin ediciones pendientes no hay nada que aplicar.
func TestApplyPending_VacioEsNoOp(t *testing.T) {
	state := newMemState()
	runner := &memTxRunner{state: state}
	writer := NewStockWriteUseCase(runner, &memRecordRepo{state: state})
	coordinator := NewUpdateCoordinator(writer, runner, true, nil)

	results, err := coordinator.ApplyPending(context.Background(), nil, "", "admin-1")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, state.entries)
}
