package repository

import "github.com/comedor-app/comedor-api/internal/domain/entity"

// LocationRepository define el puerto de lectura de sedes (el CRUD es externo).
type LocationRepository interface {
	GetByID(id string) (*entity.Location, error)
}
