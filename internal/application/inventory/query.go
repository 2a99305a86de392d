package inventory

import (
	"context"

	"github.com/comedor-app/comedor-api/internal/application/dto"
	"github.com/comedor-app/comedor-api/internal/domain"
	domaininventory "github.com/comedor-app/comedor-api/internal/domain/inventory"
	"github.com/comedor-app/comedor-api/internal/domain/repository"
)

// LocationInventoryUseCase arma la vista de inventario de una sede: los ítems con
// manejo de inventario con sus campos de menú, cantidad, umbral y estado derivado.
type LocationInventoryUseCase struct {
	recordRepo   repository.InventoryRecordRepository
	locationRepo repository.LocationRepository
}

// NewLocationInventoryUseCase construye el caso de uso de consulta.
func NewLocationInventoryUseCase(
	recordRepo repository.InventoryRecordRepository,
	locationRepo repository.LocationRepository,
) *LocationInventoryUseCase {
	return &LocationInventoryUseCase{recordRepo: recordRepo, locationRepo: locationRepo}
}

// GetLocationInventory devuelve las filas de inventario de la sede. Un ítem con
// manejo de inventario pero sin registro aparece con Initialized=false y sin estado:
// "0 unidades en stock" (registro con cantidad 0) y "sin inicializar" (sin registro)
// son cosas distintas para el tablero.
func (uc *LocationInventoryUseCase) GetLocationInventory(ctx context.Context, locationID string) ([]dto.InventoryRowDTO, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	location, err := uc.locationRepo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}

	views, err := uc.recordRepo.ListByLocation(locationID)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.InventoryRowDTO, 0, len(views))
	for _, v := range views {
		row := dto.InventoryRowDTO{
			MenuItemID: v.Item.ID,
			LocationID: locationID,
			Name:       v.Item.Name,
			Category:   v.Item.Category,
			Price:      v.Item.Price,
		}
		if v.Initialized && v.Record != nil {
			row.Initialized = true
			row.StockQuantity = &v.Record.StockQuantity
			row.LowStockThreshold = v.Record.LowStockThreshold
			row.IsAvailable = v.Record.IsAvailable
			row.Version = v.Record.Version
			row.LastRestockedAt = v.Record.LastRestockedAt
			row.Status = string(domaininventory.ClassifyStatus(
				v.Record.StockQuantity, v.Record.LowStockThreshold, v.Record.IsAvailable,
			))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GetRecord devuelve un registro puntual con su estado derivado.
func (uc *LocationInventoryUseCase) GetRecord(ctx context.Context, menuItemID, locationID string) (*dto.InventoryRecordDTO, error) {
	if menuItemID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	record, err := uc.recordRepo.Get(menuItemID, locationID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.InventoryRecordDTO{
		MenuItemID:        record.MenuItemID,
		LocationID:        record.LocationID,
		StockQuantity:     record.StockQuantity,
		LowStockThreshold: record.LowStockThreshold,
		IsAvailable:       record.IsAvailable,
		Version:           record.Version,
		LastRestockedAt:   record.LastRestockedAt,
		Status: string(domaininventory.ClassifyStatus(
			record.StockQuantity, record.LowStockThreshold, record.IsAvailable,
		)),
	}, nil
}
