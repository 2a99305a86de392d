package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/comedor-app/comedor-api/internal/domain"
	"github.com/comedor-app/comedor-api/internal/domain/entity"
	"github.com/comedor-app/comedor-api/internal/domain/repository"
	"github.com/comedor-app/comedor-api/pkg/metrics"
)

// StockWriteUseCase es el único punto por el que cualquier llamador (edición humana,
// consumo de pedidos, reabastecimiento, merma) puede cambiar una cantidad de stock.
// Cada escritura aceptada ocurre en una transacción con bloqueo de fila
// (SELECT FOR UPDATE) y produce exactamente una AdjustmentEntry.
type StockWriteUseCase struct {
	txRunner   TxRunner
	recordRepo repository.InventoryRecordRepository
}

// NewStockWriteUseCase construye el caso de uso. recordRepo va atado al pool y se usa
// solo para operaciones sin libro (disponibilidad).
func NewStockWriteUseCase(txRunner TxRunner, recordRepo repository.InventoryRecordRepository) *StockWriteUseCase {
	return &StockWriteUseCase{txRunner: txRunner, recordRepo: recordRepo}
}

// WriteInput parámetros de una escritura de stock.
// Si Relative es false, Quantity es la cantidad objetivo absoluta; si es true,
// Quantity es un delta que se suma a la cantidad actual dentro de la transacción.
// En ambos casos el resultado se hace clamp a >= 0: un objetivo que dejaría el stock
// negativo se guarda como 0, no se rechaza.
type WriteInput struct {
	MenuItemID      string
	LocationID      string
	Quantity        int64
	Relative        bool
	ChangeType      string
	Reason          string
	ActingUserID    string
	OrderReference  string
	ExpectedVersion *int64 // no-nil: rechazar con ErrConflict si la versión cambió
}

// Write ejecuta una escritura de stock en su propia transacción.
func (uc *StockWriteUseCase) Write(ctx context.Context, input WriteInput) (*entity.AdjustmentEntry, error) {
	var entry *entity.AdjustmentEntry
	err := uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		ledgerRepo repository.AdjustmentLedgerRepository,
		itemRepo repository.MenuItemRepository,
		locationRepo repository.LocationRepository,
	) error {
		var err error
		entry, err = applyWrite(recordRepo, ledgerRepo, itemRepo, locationRepo, input, time.Now())
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.WriteConflict()
		}
		return nil, err
	}
	metrics.AdjustmentApplied(entry.ChangeType, "direct")
	return entry, nil
}

// Restock registra una entrada por reabastecimiento (delta positivo) y estampa
// LastRestockedAt. El primer reabastecimiento de un ítem con manejo de inventario
// inicializa su registro en la sede.
func (uc *StockWriteUseCase) Restock(ctx context.Context, menuItemID, locationID string, quantity int64, reason, actingUserID string) (*entity.AdjustmentEntry, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.Write(ctx, WriteInput{
		MenuItemID:   menuItemID,
		LocationID:   locationID,
		Quantity:     quantity,
		Relative:     true,
		ChangeType:   entity.ChangeTypeRestock,
		Reason:       reason,
		ActingUserID: actingUserID,
	})
}

// ConsumeForOrder es el contrato de integración con el pipeline de pedidos: descuenta
// stock como un ajuste más, con ChangeType ORDER y referencia al pedido. Movimiento de
// sistema: sin usuario actuante.
func (uc *StockWriteUseCase) ConsumeForOrder(ctx context.Context, menuItemID, locationID string, quantity int64, orderReference string) (*entity.AdjustmentEntry, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.Write(ctx, WriteInput{
		MenuItemID:     menuItemID,
		LocationID:     locationID,
		Quantity:       -quantity,
		Relative:       true,
		ChangeType:     entity.ChangeTypeOrder,
		OrderReference: orderReference,
	})
}

// RegisterWaste registra una merma (delta negativo) con su motivo.
func (uc *StockWriteUseCase) RegisterWaste(ctx context.Context, menuItemID, locationID string, quantity int64, reason, actingUserID string) (*entity.AdjustmentEntry, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.Write(ctx, WriteInput{
		MenuItemID:   menuItemID,
		LocationID:   locationID,
		Quantity:     -quantity,
		Relative:     true,
		ChangeType:   entity.ChangeTypeWaste,
		Reason:       reason,
		ActingUserID: actingUserID,
	})
}

// SetAvailability cambia la disponibilidad del registro. Independiente de la cantidad:
// no genera entrada en el libro (el libro es solo para cambios de cantidad).
func (uc *StockWriteUseCase) SetAvailability(ctx context.Context, menuItemID, locationID string, isAvailable bool) error {
	if menuItemID == "" || locationID == "" {
		return domain.ErrInvalidInput
	}
	return uc.recordRepo.SetAvailability(menuItemID, locationID, isAvailable)
}

// applyWrite ejecuta una escritura con los repositorios atados a la transacción del
// caller (misma mecánica para la ruta individual y la masiva):
//
//  1. Verifica que el ítem exista y maneje inventario (ErrNotFound / ErrUntracked).
//  2. Verifica que la sede exista y esté activa (ErrNotFound).
//  3. Bloquea la fila del registro; si no existe, la cantidad previa es 0.
//  4. Chequeo de versión esperada (concurrencia optimista) → ErrConflict.
//  5. Clamp del objetivo a >= 0 y upsert del registro con versión incrementada.
//  6. Agrega la AdjustmentEntry con delta = nueva - previa.
func applyWrite(
	recordRepo repository.InventoryRecordRepository,
	ledgerRepo repository.AdjustmentLedgerRepository,
	itemRepo repository.MenuItemRepository,
	locationRepo repository.LocationRepository,
	input WriteInput,
	now time.Time,
) (*entity.AdjustmentEntry, error) {
	if input.MenuItemID == "" || input.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	switch input.ChangeType {
	case entity.ChangeTypeRestock, entity.ChangeTypeOrder, entity.ChangeTypeAdjustment, entity.ChangeTypeWaste:
	default:
		return nil, domain.ErrInvalidInput
	}

	item, err := itemRepo.GetByID(input.MenuItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if !item.TrackInventory {
		return nil, domain.ErrUntracked
	}

	location, err := locationRepo.GetByID(input.LocationID)
	if err != nil {
		return nil, err
	}
	// Una sede desactivada no recibe escrituras; sus registros e historial se conservan.
	if location == nil || !location.IsActive {
		return nil, domain.ErrNotFound
	}

	record, err := recordRepo.GetForUpdate(input.MenuItemID, input.LocationID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		// Primera escritura: el registro nace aquí con cantidad previa 0.
		record = &entity.InventoryRecord{
			MenuItemID:  input.MenuItemID,
			LocationID:  input.LocationID,
			IsAvailable: true,
		}
	}
	if input.ExpectedVersion != nil && *input.ExpectedVersion != record.Version {
		return nil, domain.ErrConflict
	}

	previous := record.StockQuantity
	target := input.Quantity
	if input.Relative {
		target = previous + input.Quantity
	}
	if target < 0 {
		target = 0
	}

	record.StockQuantity = target
	record.Version++
	record.UpdatedAt = now
	if input.ChangeType == entity.ChangeTypeRestock {
		restockedAt := now
		record.LastRestockedAt = &restockedAt
	}
	if err := recordRepo.Upsert(record); err != nil {
		return nil, err
	}

	entry := &entity.AdjustmentEntry{
		ID:               uuid.New().String(),
		MenuItemID:       input.MenuItemID,
		LocationID:       input.LocationID,
		ChangeType:       input.ChangeType,
		Delta:            target - previous,
		PreviousQuantity: previous,
		NewQuantity:      target,
		Reason:           input.Reason,
		ActingUserID:     input.ActingUserID,
		OrderReference:   input.OrderReference,
		CreatedAt:        now,
	}
	if err := ledgerRepo.Append(entry); err != nil {
		return nil, err
	}
	return entry, nil
}
