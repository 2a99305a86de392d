package entity

import "time"

// Location representa una sede del comedor (cocina, cafetería, casino de planta).
// Su CRUD es externo; el motor de inventario solo usa la identidad.
type Location struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}
