package repository

import (
	"context"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
)

// CollectionCenterRepository define el puerto de persistencia para centros de acopio.
type CollectionCenterRepository interface {
	Create(ctx context.Context, center *entity.CollectionCenter) error
	GetByID(ctx context.Context, id string) (*entity.CollectionCenter, error)
	GetByCode(ctx context.Context, code string) (*entity.CollectionCenter, error)
	// List devuelve los centros ordenados por nombre; los inactivos solo si includeInactive.
	List(ctx context.Context, includeInactive bool) ([]*entity.CollectionCenter, error)
	Update(ctx context.Context, center *entity.CollectionCenter) error
	// Delete devuelve domain.ErrConflict si el centro tiene productores, entregas o usuarios.
	Delete(ctx context.Context, id string) error
}
