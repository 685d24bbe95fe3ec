package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
)

// DeliveryFilter acota un listado de entregas. Los campos vacíos no filtran.
type DeliveryFilter struct {
	FarmerID string
	From     *time.Time // incluido
	Until    *time.Time // excluido
}

// DeliveryRepository define el puerto de persistencia para entregas de leche.
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *entity.Delivery) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Delivery, error)
	// Update guarda cantidad, calidad, notas y fecha. Devuelve domain.ErrNotFound si no existe.
	Update(ctx context.Context, delivery *entity.Delivery) error
	Delete(ctx context.Context, id string) error
	// List devuelve las entregas visibles que cumplen el filtro, más recientes primero.
	// limit <= 0 significa sin límite.
	List(ctx context.Context, scope access.Scope, filter DeliveryFilter, limit, offset int) ([]*entity.Delivery, error)
}
