package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
)

// DailyLiters litros recolectados en un día.
type DailyLiters struct {
	Day    time.Time // fecha de calendario (00:00 UTC) en la zona horaria de la consulta
	Liters decimal.Decimal
}

// AnalyticsRepository define las consultas de lectura del dashboard.
// Todas reciben el Scope ya resuelto; las implementaciones son read-only.
type AnalyticsRepository interface {
	// CountFarmers cuenta productores visibles; activeOnly excluye los inactivos.
	CountFarmers(ctx context.Context, scope access.Scope, activeOnly bool) (int, error)

	// SumLiters suma los litros entregados en [from, until).
	SumLiters(ctx context.Context, scope access.Scope, from, until time.Time) (decimal.Decimal, error)

	// CountDeliveriesByQuality cuenta entregas en [from, until) con alguno de los grados dados.
	CountDeliveriesByQuality(ctx context.Context, scope access.Scope, qualities []string, from, until time.Time) (int, error)

	// CountPaymentsByStatus cuenta pagos visibles en el estado dado.
	CountPaymentsByStatus(ctx context.Context, scope access.Scope, status string) (int, error)

	// SumCompletedPayments suma TotalAmount de pagos COMPLETED creados en [from, until).
	SumCompletedPayments(ctx context.Context, scope access.Scope, from, until time.Time) (decimal.Decimal, error)

	// DailyLiters devuelve los litros por día en [from, until); los días sin entregas no aparecen.
	DailyLiters(ctx context.Context, scope access.Scope, from, until time.Time) ([]DailyLiters, error)

	// RecentDeliveries devuelve las últimas limit entregas visibles con el productor y el centro.
	RecentDeliveries(ctx context.Context, scope access.Scope, limit int) ([]RecentDelivery, error)
}

// RecentDelivery entrega con los nombres que muestra el dashboard.
type RecentDelivery struct {
	entity.Delivery
	FarmerCode string
	FarmerName string
	CenterName string
}
