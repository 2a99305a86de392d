package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/comedor-app/comedor-api/internal/domain"
	"github.com/comedor-app/comedor-api/internal/domain/entity"
	"github.com/comedor-app/comedor-api/internal/domain/repository"
)

// Límites de página del historial.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
)

// HistoryUseCase consulta el libro de ajustes con paginación keyset (reiniciable y
// sin escaneo completo aunque el libro crezca sin límite).
type HistoryUseCase struct {
	ledgerRepo repository.AdjustmentLedgerRepository
}

// NewHistoryUseCase construye el caso de uso de historial.
func NewHistoryUseCase(ledgerRepo repository.AdjustmentLedgerRepository) *HistoryUseCase {
	return &HistoryUseCase{ledgerRepo: ledgerRepo}
}

// HistoryPage una página del historial, de la más reciente a la más antigua.
// NextCursor es no-nil cuando puede existir una página más antigua.
type HistoryPage struct {
	Entries    []*entity.AdjustmentEntry
	NextCursor *repository.LedgerCursor
}

// List devuelve una página del historial. limit <= 0 usa el valor por defecto;
// valores mayores al máximo se recortan.
func (uc *HistoryUseCase) List(ctx context.Context, menuItemID, locationID string, limit int, before *repository.LedgerCursor) (*HistoryPage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	entries, err := uc.ledgerRepo.List(repository.LedgerFilter{
		MenuItemID: menuItemID,
		LocationID: locationID,
		Limit:      limit,
		Before:     before,
	})
	if err != nil {
		return nil, err
	}
	page := &HistoryPage{Entries: entries}
	if len(entries) == limit {
		last := entries[len(entries)-1]
		page.NextCursor = &repository.LedgerCursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return page, nil
}

// EncodeCursor serializa un cursor como "<unix-nanos>:<id>" para el query param
// `before`.
func EncodeCursor(c *repository.LedgerCursor) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%d:%s", c.CreatedAt.UnixNano(), c.ID)
}

// ParseCursor deserializa el query param `before`. Cadena vacía = sin cursor.
func ParseCursor(s string) (*repository.LedgerCursor, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, domain.ErrInvalidInput
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &repository.LedgerCursor{CreatedAt: time.Unix(0, nanos), ID: parts[1]}, nil
}
