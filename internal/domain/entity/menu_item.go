package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem representa un plato o producto del menú del comedor.
// La administración del menú (crear, editar, categorías) vive fuera del motor de
// inventario; aquí solo interesan la identidad, los campos de despliegue y el flag
// TrackInventory que decide si el ítem participa en el libro de inventario.
type MenuItem struct {
	ID             string
	Name           string
	Category       string
	Price          decimal.Decimal // precio de venta para la vista de inventario
	TrackInventory bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
