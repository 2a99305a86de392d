package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comedor-app/comedor-api/internal/application/inventory"
	"github.com/comedor-app/comedor-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Query     *inventory.LocationInventoryUseCase
	History   *inventory.HistoryUseCase
	Writer    *inventory.StockWriteUseCase
	Tracking  *inventory.TrackingUseCase
	TxRunner  inventory.TxRunner
	Log       *logger.Logger
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	inventoryHandler := NewInventoryHandler(deps.Query, deps.History, deps.Writer, deps.TxRunner, deps.Log)
	invGroup := protected.Group("/inventory")
	invGroup.Get("/locations/:locationId", inventoryHandler.GetLocationInventory)
	invGroup.Get("/history", inventoryHandler.GetHistory)
	invGroup.Get("/records/:menuItemId/:locationId", inventoryHandler.GetRecord)
	invGroup.Patch("/records/:menuItemId/:locationId", inventoryHandler.UpdateRecord)
	invGroup.Patch("/records/:menuItemId/:locationId/availability", inventoryHandler.SetAvailability)
	invGroup.Post("/records/:menuItemId/:locationId/restock", inventoryHandler.Restock)
	// Ruta masiva: solo admin (capacidad irrestricta, transacción todo-o-nada)
	invGroup.Post("/bulk", RequireRole(RoleAdmin), inventoryHandler.BulkUpdate)

	menuHandler := NewMenuHandler(deps.Tracking)
	menuItems := protected.Group("/menu-items")
	menuItems.Patch("/:id/tracking", RequireRole(RoleAdmin), menuHandler.SetTracking)
}
