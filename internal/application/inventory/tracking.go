package inventory

import (
	"context"

	"github.com/comedor-app/comedor-api/internal/domain"
	"github.com/comedor-app/comedor-api/internal/domain/repository"
)

// TrackingUseCase administra el flag track_inventory de un ítem del menú.
type TrackingUseCase struct {
	itemRepo repository.MenuItemRepository
}

// NewTrackingUseCase construye el caso de uso.
func NewTrackingUseCase(itemRepo repository.MenuItemRepository) *TrackingUseCase {
	return &TrackingUseCase{itemRepo: itemRepo}
}

// SetTracking activa o desactiva el manejo de inventario de un ítem.
//
// Desactivar no borra los InventoryRecords existentes (el historial sigue teniendo
// sentido si se reactiva); el ítem solo deja de aparecer en las vistas de inventario
// y se trata como stock ilimitado. Activar no crea registros por sede: el registro
// queda "sin inicializar" hasta la primera escritura (típicamente un
// reabastecimiento explícito).
func (uc *TrackingUseCase) SetTracking(ctx context.Context, menuItemID string, enabled bool) error {
	if menuItemID == "" {
		return domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetByID(menuItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if item.TrackInventory == enabled {
		return nil
	}
	return uc.itemRepo.SetTracking(menuItemID, enabled)
}
