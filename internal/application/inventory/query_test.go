package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comedor-app/comedor-api/internal/domain"
	domaininventory "github.com/comedor-app/comedor-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la vista de inventario por sede: "sin inicializar" y "0 unidades en
// stock" son cosas distintas para el tablero.
// ──────────────────────────────────────────────────────────────────────────────

func newQuery(state *memState) *LocationInventoryUseCase {
	return NewLocationInventoryUseCase(&memRecordRepo{state: state}, &memLocationRepo{state: state})
}

// Un ítem con manejo de inventario pero sin registro aparece en la vista con
// initialized=false, sin cantidad y sin estado; un registro en 0 aparece con
// initialized=true y OUT_OF_STOCK.
func TestGetLocationInventory_SinInicializarVsCero(t *testing.T) {
	state := newMemState()
	seedLocation(state, "sede-1")
	seedTrackedItem(state, "ajiaco", "Ajiaco")
	seedTrackedItem(state, "changua", "Changua")
	seedRecord(state, "changua", "sede-1", 0, 3)
	uc := newQuery(state)

	rows, err := uc.GetLocationInventory(context.Background(), "sede-1")
	require.NoError(t, err)
	require.Len(t, rows, 2, "todos los ítems con manejo aparecen, tengan registro o no")

	// Orden por nombre: Ajiaco (sin registro), Changua (registro en 0).
	sinRegistro := rows[0]
	assert.Equal(t, "ajiaco", sinRegistro.MenuItemID)
	assert.False(t, sinRegistro.Initialized)
	assert.Nil(t, sinRegistro.StockQuantity, "sin registro no hay cantidad, ni siquiera 0")
	assert.Empty(t, sinRegistro.Status, "sin registro no hay estado")

	enCero := rows[1]
	assert.Equal(t, "changua", enCero.MenuItemID)
	assert.True(t, enCero.Initialized)
	require.NotNil(t, enCero.StockQuantity)
	assert.Equal(t, int64(0), *enCero.StockQuantity)
	assert.Equal(t, string(domaininventory.StatusOutOfStock), enCero.Status)
}

// Cantidad igual al umbral aparece como stock bajo en la vista (límite inclusivo).
func TestGetLocationInventory_EstadoDerivado(t *testing.T) {
	state := newMemState()
	seedTrackedItem(state, "pandebono", "Pandebono")
	seedRecord(state, "pandebono", "sede-1", 3, 3)
	uc := newQuery(state)

	rows, err := uc.GetLocationInventory(context.Background(), "sede-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, string(domaininventory.StatusLowStock), rows[0].Status)
}

// Una sede desconocida es NotFound, no una vista vacía.
func TestGetLocationInventory_SedeInexistente(t *testing.T) {
	uc := newQuery(newMemState())
	_, err := uc.GetLocationInventory(context.Background(), "sede-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// GetRecord de un registro sin inicializar es NotFound.
func TestGetRecord_SinInicializar(t *testing.T) {
	state := newMemState()
	seedTrackedItem(state, "ajiaco", "Ajiaco")
	seedLocation(state, "sede-1")
	uc := newQuery(state)

	_, err := uc.GetRecord(context.Background(), "ajiaco", "sede-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetRecord_ConEstado(t *testing.T) {
	state := newMemState()
	seedTrackedItem(state, "ajiaco", "Ajiaco")
	seedRecord(state, "ajiaco", "sede-1", 9, 2)
	uc := newQuery(state)

	rec, err := uc.GetRecord(context.Background(), "ajiaco", "sede-1")
	require.NoError(t, err)
	assert.Equal(t, int64(9), rec.StockQuantity)
	assert.Equal(t, string(domaininventory.StatusInStock), rec.Status)
	assert.Equal(t, int64(1), rec.Version)
}
