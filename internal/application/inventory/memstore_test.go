package inventory

import (
	"context"
	"sort"

	"github.com/comedor-app/comedor-api/internal/domain"
	"github.com/comedor-app/comedor-api/internal/domain/entity"
	"github.com/comedor-app/comedor-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los tests de casos de uso (sin PostgreSQL).
//
// memTxRunner imita la atomicidad real: ejecuta el callback sobre una copia del
// estado y solo la publica si no hubo error. Así el escenario todo-o-nada de la
// ruta masiva se prueba de verdad: un fallo a mitad del lote no deja rastro.
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	items     map[string]*entity.MenuItem
	locations map[string]*entity.Location
	records   map[entity.RecordKey]*entity.InventoryRecord
	entries   []*entity.AdjustmentEntry
}

func newMemState() *memState {
	return &memState{
		items:     make(map[string]*entity.MenuItem),
		locations: make(map[string]*entity.Location),
		records:   make(map[entity.RecordKey]*entity.InventoryRecord),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for id, item := range s.items {
		copied := *item
		c.items[id] = &copied
	}
	for id, loc := range s.locations {
		copied := *loc
		c.locations[id] = &copied
	}
	for key, rec := range s.records {
		copied := *rec
		c.records[key] = &copied
	}
	c.entries = append(c.entries, s.entries...)
	return c
}

type memTxRunner struct {
	state *memState
	// failOn fuerza un error dentro de la tx al tocar esta clave (simula un fallo
	// de aislamiento a mitad del lote).
	failOn *entity.RecordKey
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	ledgerRepo repository.AdjustmentLedgerRepository,
	itemRepo repository.MenuItemRepository,
	locationRepo repository.LocationRepository,
) error) error {
	working := r.state.clone()
	err := fn(
		&memRecordRepo{state: working, failOn: r.failOn},
		&memLedgerRepo{state: working},
		&memItemRepo{state: working},
		&memLocationRepo{state: working},
	)
	if err != nil {
		return err
	}
	*r.state = *working
	return nil
}

type memRecordRepo struct {
	state  *memState
	failOn *entity.RecordKey
}

func (m *memRecordRepo) Get(menuItemID, locationID string) (*entity.InventoryRecord, error) {
	rec, ok := m.state.records[entity.RecordKey{MenuItemID: menuItemID, LocationID: locationID}]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (m *memRecordRepo) GetForUpdate(menuItemID, locationID string) (*entity.InventoryRecord, error) {
	if m.failOn != nil && m.failOn.MenuItemID == menuItemID && m.failOn.LocationID == locationID {
		return nil, domain.ErrConflict
	}
	return m.Get(menuItemID, locationID)
}

func (m *memRecordRepo) Upsert(record *entity.InventoryRecord) error {
	copied := *record
	m.state.records[record.Key()] = &copied
	return nil
}

func (m *memRecordRepo) SetAvailability(menuItemID, locationID string, isAvailable bool) error {
	rec, ok := m.state.records[entity.RecordKey{MenuItemID: menuItemID, LocationID: locationID}]
	if !ok {
		return domain.ErrNotFound
	}
	rec.IsAvailable = isAvailable
	return nil
}

func (m *memRecordRepo) ListByLocation(locationID string) ([]repository.InventoryView, error) {
	var views []repository.InventoryView
	for _, item := range m.state.items {
		if !item.TrackInventory {
			continue
		}
		v := repository.InventoryView{Item: *item}
		if rec, ok := m.state.records[entity.RecordKey{MenuItemID: item.ID, LocationID: locationID}]; ok {
			copied := *rec
			v.Record = &copied
			v.Initialized = true
		}
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Item.Name < views[j].Item.Name })
	return views, nil
}

type memLedgerRepo struct {
	state *memState
}

func (m *memLedgerRepo) Append(entry *entity.AdjustmentEntry) error {
	copied := *entry
	m.state.entries = append(m.state.entries, &copied)
	return nil
}

func (m *memLedgerRepo) List(filter repository.LedgerFilter) ([]*entity.AdjustmentEntry, error) {
	var matched []*entity.AdjustmentEntry
	for _, e := range m.state.entries {
		if filter.MenuItemID != "" && e.MenuItemID != filter.MenuItemID {
			continue
		}
		if filter.LocationID != "" && e.LocationID != filter.LocationID {
			continue
		}
		matched = append(matched, e)
	}
	// Más reciente primero, empates por ID descendente (mismo orden que el SQL).
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	if filter.Before != nil {
		cut := 0
		for cut < len(matched) {
			e := matched[cut]
			older := e.CreatedAt.Before(filter.Before.CreatedAt) ||
				(e.CreatedAt.Equal(filter.Before.CreatedAt) && e.ID < filter.Before.ID)
			if older {
				break
			}
			cut++
		}
		matched = matched[cut:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	out := make([]*entity.AdjustmentEntry, len(matched))
	for i, e := range matched {
		copied := *e
		out[i] = &copied
	}
	return out, nil
}

type memItemRepo struct {
	state *memState
}

func (m *memItemRepo) GetByID(id string) (*entity.MenuItem, error) {
	item, ok := m.state.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (m *memItemRepo) SetTracking(id string, enabled bool) error {
	item, ok := m.state.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.TrackInventory = enabled
	return nil
}

type memLocationRepo struct {
	state *memState
}

func (m *memLocationRepo) GetByID(id string) (*entity.Location, error) {
	loc, ok := m.state.locations[id]
	if !ok {
		return nil, nil
	}
	copied := *loc
	return &copied, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de armado
// ──────────────────────────────────────────────────────────────────────────────

func seedTrackedItem(state *memState, id, name string) {
	state.items[id] = &entity.MenuItem{ID: id, Name: name, TrackInventory: true}
}

func seedLocation(state *memState, id string) {
	state.locations[id] = &entity.Location{ID: id, Name: "Sede " + id, IsActive: true}
}

func seedRecord(state *memState, menuItemID, locationID string, quantity, threshold int64) {
	if _, ok := state.locations[locationID]; !ok {
		seedLocation(state, locationID)
	}
	key := entity.RecordKey{MenuItemID: menuItemID, LocationID: locationID}
	state.records[key] = &entity.InventoryRecord{
		MenuItemID:        menuItemID,
		LocationID:        locationID,
		StockQuantity:     quantity,
		LowStockThreshold: threshold,
		IsAvailable:       true,
		Version:           1,
	}
}
