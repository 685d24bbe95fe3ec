package payments

import (
	"context"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	RunPayment(ctx context.Context, fn func(
		farmerRepo repository.FarmerRepository,
		deliveryRepo repository.DeliveryRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}
