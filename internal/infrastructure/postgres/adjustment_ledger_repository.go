package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/comedor-app/comedor-api/internal/domain"
	"github.com/comedor-app/comedor-api/internal/domain/entity"
	"github.com/comedor-app/comedor-api/internal/domain/repository"
)

var _ repository.AdjustmentLedgerRepository = (*AdjustmentLedgerRepo)(nil)

// AdjustmentLedgerRepo implementación del libro de ajustes sobre PostgreSQL (usable
// con pool o tx). Append-only: no existe update ni delete.
type AdjustmentLedgerRepo struct {
	q Querier
}

// NewAdjustmentLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentLedgerRepository(q Querier) *AdjustmentLedgerRepo {
	return &AdjustmentLedgerRepo{q: q}
}

// Append persiste una entrada del libro. La entrada es inmutable una vez agregada.
func (r *AdjustmentLedgerRepo) Append(entry *entity.AdjustmentEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO adjustment_entries (id, menu_item_id, location_id, change_type, delta, previous_quantity, new_quantity, reason, acting_user_id, order_reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	reason := (*string)(nil)
	if entry.Reason != "" {
		reason = &entry.Reason
	}
	actingUser := (*string)(nil)
	if entry.ActingUserID != "" {
		actingUser = &entry.ActingUserID
	}
	orderRef := (*string)(nil)
	if entry.OrderReference != "" {
		orderRef = &entry.OrderReference
	}
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.MenuItemID, entry.LocationID, entry.ChangeType,
		entry.Delta, entry.PreviousQuantity, entry.NewQuantity,
		reason, actingUser, orderRef, entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("append adjustment entry: %w", err)
	}
	return nil
}

// List devuelve entradas de la más reciente a la más antigua, con paginación keyset
// sobre (created_at, id): la página siguiente contiene solo entradas estrictamente
// más antiguas que el cursor, sin duplicados ni huecos.
func (r *AdjustmentLedgerRepo) List(filter repository.LedgerFilter) ([]*entity.AdjustmentEntry, error) {
	query := `
		SELECT id, menu_item_id, location_id, change_type, delta, previous_quantity, new_quantity, reason, acting_user_id, order_reference, created_at
		FROM adjustment_entries WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.MenuItemID != "" {
		query += fmt.Sprintf(" AND menu_item_id = $%d", pos)
		args = append(args, filter.MenuItemID)
		pos++
	}
	if filter.LocationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, filter.LocationID)
		pos++
	}
	if filter.Before != nil {
		query += fmt.Sprintf(" AND (created_at, id) < ($%d, $%d)", pos, pos+1)
		args = append(args, filter.Before.CreatedAt, filter.Before.ID)
		pos += 2
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", pos)
	args = append(args, filter.Limit)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustment entries: %w", err)
	}
	defer rows.Close()

	var list []*entity.AdjustmentEntry
	for rows.Next() {
		var e entity.AdjustmentEntry
		var reason, actingUser, orderRef *string
		if err := rows.Scan(
			&e.ID, &e.MenuItemID, &e.LocationID, &e.ChangeType,
			&e.Delta, &e.PreviousQuantity, &e.NewQuantity,
			&reason, &actingUser, &orderRef, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan adjustment entry: %w", err)
		}
		if reason != nil {
			e.Reason = *reason
		}
		if actingUser != nil {
			e.ActingUserID = *actingUser
		}
		if orderRef != nil {
			e.OrderReference = *orderRef
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
