package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/comedor-app/comedor-api/internal/domain"
	"github.com/comedor-app/comedor-api/internal/domain/entity"
	"github.com/comedor-app/comedor-api/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

const recordColumns = `menu_item_id, location_id, stock_quantity, low_stock_threshold, is_available, version, last_restocked_at, updated_at`

func scanRecord(row pgx.Row) (*entity.InventoryRecord, error) {
	var r entity.InventoryRecord
	err := row.Scan(
		&r.MenuItemID, &r.LocationID, &r.StockQuantity, &r.LowStockThreshold,
		&r.IsAvailable, &r.Version, &r.LastRestockedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Get obtiene el registro de stock de un ítem en una sede. nil si no existe.
func (r *InventoryRecordRepo) Get(menuItemID, locationID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM inventory_records WHERE menu_item_id = $1 AND location_id = $2`
	rec, err := scanRecord(r.q.QueryRow(context.Background(), query, menuItemID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return rec, nil
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE) para que dos
// escritores concurrentes a la misma clave nunca calculen su delta desde la misma
// cantidad previa. nil si el registro aún no existe.
func (r *InventoryRecordRepo) GetForUpdate(menuItemID, locationID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM inventory_records WHERE menu_item_id = $1 AND location_id = $2
		FOR UPDATE`
	rec, err := scanRecord(r.q.QueryRow(context.Background(), query, menuItemID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record for update: %w", err)
	}
	return rec, nil
}

// Upsert inserta o actualiza el registro (por ítem y sede).
func (r *InventoryRecordRepo) Upsert(record *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (menu_item_id, location_id, stock_quantity, low_stock_threshold, is_available, version, last_restocked_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (menu_item_id, location_id)
		DO UPDATE SET
			stock_quantity = EXCLUDED.stock_quantity,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			is_available = EXCLUDED.is_available,
			version = EXCLUDED.version,
			last_restocked_at = EXCLUDED.last_restocked_at,
			updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		record.MenuItemID, record.LocationID, record.StockQuantity,
		record.LowStockThreshold, record.IsAvailable, record.Version, record.LastRestockedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory record: %w", err)
	}
	return nil
}

// SetAvailability cambia solo la disponibilidad; cantidad y versión quedan intactas
// (sin entrada en el libro).
func (r *InventoryRecordRepo) SetAvailability(menuItemID, locationID string, isAvailable bool) error {
	query := `
		UPDATE inventory_records SET is_available = $3, updated_at = now()
		WHERE menu_item_id = $1 AND location_id = $2`
	tag, err := r.q.Exec(context.Background(), query, menuItemID, locationID, isAvailable)
	if err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByLocation devuelve los ítems con manejo de inventario de la sede, con su
// registro si ya fue inicializado (LEFT JOIN), ordenados por nombre.
func (r *InventoryRecordRepo) ListByLocation(locationID string) ([]repository.InventoryView, error) {
	query := `
		SELECT m.id, m.name, m.category, m.price, m.track_inventory,
		       ir.menu_item_id, ir.location_id, ir.stock_quantity, ir.low_stock_threshold,
		       ir.is_available, ir.version, ir.last_restocked_at, ir.updated_at
		FROM menu_items m
		LEFT JOIN inventory_records ir
		  ON ir.menu_item_id = m.id AND ir.location_id = $1
		WHERE m.track_inventory = true
		ORDER BY m.name`
	rows, err := r.q.Query(context.Background(), query, locationID)
	if err != nil {
		return nil, fmt.Errorf("list inventory by location: %w", err)
	}
	defer rows.Close()

	var views []repository.InventoryView
	for rows.Next() {
		var v repository.InventoryView
		var rec entity.InventoryRecord
		var recItemID, recLocationID *string
		var qty, threshold, version *int64
		var available *bool
		var lastRestockedAt, updatedAt *time.Time
		if err := rows.Scan(
			&v.Item.ID, &v.Item.Name, &v.Item.Category, &v.Item.Price, &v.Item.TrackInventory,
			&recItemID, &recLocationID, &qty, &threshold,
			&available, &version, &lastRestockedAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory view: %w", err)
		}
		if recItemID != nil {
			rec.MenuItemID = *recItemID
			rec.LocationID = *recLocationID
			rec.StockQuantity = *qty
			rec.LowStockThreshold = *threshold
			rec.IsAvailable = *available
			rec.Version = *version
			rec.LastRestockedAt = lastRestockedAt
			if updatedAt != nil {
				rec.UpdatedAt = *updatedAt
			}
			v.Record = &rec
			v.Initialized = true
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
