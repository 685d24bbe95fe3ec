package repository

import (
	"context"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para pagos.
// Los pagos solo se crean; no hay Update ni Delete.
type PaymentRepository interface {
	// Create devuelve domain.ErrDuplicatePayment si ya existe un pago COMPLETED
	// para (FarmerID, PeriodKey).
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	// ListByPeriodKeys devuelve los pagos visibles con PeriodKey en [startKey, endKey].
	// El scope se evalúa contra el centro del productor pagado.
	ListByPeriodKeys(ctx context.Context, scope access.Scope, startKey, endKey string) ([]*entity.Payment, error)
	// ListForFarmer devuelve los pagos del productor con PeriodKey en [startKey, endKey].
	ListForFarmer(ctx context.Context, farmerID, startKey, endKey string) ([]*entity.Payment, error)
	// FindCompletedCovering devuelve el pago COMPLETED del productor cuyo período incluye
	// dayKey, o nil si no hay.
	FindCompletedCovering(ctx context.Context, farmerID, dayKey string) (*entity.Payment, error)
}
