package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/comedor-app/comedor-api/internal/domain"
	"github.com/comedor-app/comedor-api/internal/domain/entity"
	"github.com/comedor-app/comedor-api/internal/domain/repository"
)

var _ repository.MenuItemRepository = (*MenuItemRepo)(nil)

// MenuItemRepo lectura de ítems del menú sobre PostgreSQL (usable con pool o tx).
// El CRUD del menú vive en otro módulo; aquí solo lectura y el flag track_inventory.
type MenuItemRepo struct {
	q Querier
}

// NewMenuItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMenuItemRepository(q Querier) *MenuItemRepo {
	return &MenuItemRepo{q: q}
}

// GetByID obtiene un ítem por ID. nil si no existe.
func (r *MenuItemRepo) GetByID(id string) (*entity.MenuItem, error) {
	query := `
		SELECT id, name, category, price, track_inventory, created_at, updated_at
		FROM menu_items WHERE id = $1`
	var m entity.MenuItem
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.Name, &m.Category, &m.Price, &m.TrackInventory, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return &m, nil
}

// SetTracking activa o desactiva el manejo de inventario del ítem.
func (r *MenuItemRepo) SetTracking(id string, enabled bool) error {
	query := `UPDATE menu_items SET track_inventory = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, enabled)
	if err != nil {
		return fmt.Errorf("set tracking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
