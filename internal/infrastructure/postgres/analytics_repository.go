package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura del dashboard. Todas aplican el Scope del actor;
// con un Scope vacío devuelven cero sin ir a la base de datos.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// CountFarmers cuenta productores visibles.
func (r *AnalyticsRepo) CountFarmers(ctx context.Context, scope access.Scope, activeOnly bool) (int, error) {
	if scope.IsEmpty() {
		return 0, nil
	}
	cond, args := scopeCondition(scope, "collection_center_id", []any{activeOnly})
	query := `SELECT COUNT(*) FROM farmers WHERE (is_active OR NOT $1) AND ` + cond
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountFarmers: %w", err)
	}
	return n, nil
}

// SumLiters suma los litros entregados en [from, until).
func (r *AnalyticsRepo) SumLiters(ctx context.Context, scope access.Scope, from, until time.Time) (decimal.Decimal, error) {
	if scope.IsEmpty() {
		return decimal.Zero, nil
	}
	cond, args := scopeCondition(scope, "collection_center_id", []any{from, until})
	query := `
	SELECT COALESCE(SUM(quantity_liters), 0)
	FROM deliveries
	WHERE occurred_at >= $1 AND occurred_at < $2 AND ` + cond
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.SumLiters: %w", err)
	}
	return total, nil
}

// CountDeliveriesByQuality cuenta entregas en [from, until) con alguno de los grados dados.
func (r *AnalyticsRepo) CountDeliveriesByQuality(ctx context.Context, scope access.Scope, qualities []string, from, until time.Time) (int, error) {
	if scope.IsEmpty() || len(qualities) == 0 {
		return 0, nil
	}
	cond, args := scopeCondition(scope, "collection_center_id", []any{from, until, qualities})
	query := `
	SELECT COUNT(*)
	FROM deliveries
	WHERE occurred_at >= $1 AND occurred_at < $2 AND quality = ANY($3) AND ` + cond
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountDeliveriesByQuality: %w", err)
	}
	return n, nil
}

// CountPaymentsByStatus cuenta pagos visibles (por el centro del productor) en el estado dado.
func (r *AnalyticsRepo) CountPaymentsByStatus(ctx context.Context, scope access.Scope, status string) (int, error) {
	if scope.IsEmpty() {
		return 0, nil
	}
	cond, args := scopeCondition(scope, "f.collection_center_id", []any{status})
	query := `
	SELECT COUNT(*)
	FROM payments p
	JOIN farmers f ON f.id = p.farmer_id
	WHERE p.status = $1 AND ` + cond
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountPaymentsByStatus: %w", err)
	}
	return n, nil
}

// SumCompletedPayments suma los montos de pagos COMPLETED creados en [from, until).
func (r *AnalyticsRepo) SumCompletedPayments(ctx context.Context, scope access.Scope, from, until time.Time) (decimal.Decimal, error) {
	if scope.IsEmpty() {
		return decimal.Zero, nil
	}
	cond, args := scopeCondition(scope, "f.collection_center_id", []any{from, until})
	query := `
	SELECT COALESCE(SUM(p.total_amount), 0)
	FROM payments p
	JOIN farmers f ON f.id = p.farmer_id
	WHERE p.status = 'COMPLETED' AND p.created_at >= $1 AND p.created_at < $2 AND ` + cond
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.SumCompletedPayments: %w", err)
	}
	return total, nil
}

// DailyLiters agrupa los litros por día calendario (zona horaria de from).
func (r *AnalyticsRepo) DailyLiters(ctx context.Context, scope access.Scope, from, until time.Time) ([]repository.DailyLiters, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	cond, args := scopeCondition(scope, "collection_center_id", []any{from, until, from.Location().String()})
	query := `
	SELECT (occurred_at AT TIME ZONE $3)::DATE AS day, SUM(quantity_liters)
	FROM deliveries
	WHERE occurred_at >= $1 AND occurred_at < $2 AND ` + cond + `
	GROUP BY day
	ORDER BY day`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.DailyLiters: %w", err)
	}
	defer rows.Close()

	var out []repository.DailyLiters
	for rows.Next() {
		var d repository.DailyLiters
		if err := rows.Scan(&d.Day, &d.Liters); err != nil {
			return nil, fmt.Errorf("analytics.DailyLiters scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RecentDeliveries devuelve las últimas entregas visibles con el productor y el centro.
func (r *AnalyticsRepo) RecentDeliveries(ctx context.Context, scope access.Scope, limit int) ([]repository.RecentDelivery, error) {
	if scope.IsEmpty() || limit <= 0 {
		return []repository.RecentDelivery{}, nil
	}
	cond, args := scopeCondition(scope, "d.collection_center_id", nil)
	args = append(args, limit)
	query := `
	SELECT d.id, d.farmer_id, d.collection_center_id, d.quantity_liters, d.quality,
	       COALESCE(d.notes, ''), d.occurred_at, COALESCE(d.recorded_by_id::TEXT, ''), d.created_at,
	       f.farmer_code, f.name, c.name
	FROM deliveries d
	JOIN farmers f ON f.id = d.farmer_id
	JOIN collection_centers c ON c.id = d.collection_center_id
	WHERE ` + cond + fmt.Sprintf(`
	ORDER BY d.occurred_at DESC
	LIMIT $%d`, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.RecentDeliveries: %w", err)
	}
	defer rows.Close()

	out := []repository.RecentDelivery{}
	for rows.Next() {
		var d repository.RecentDelivery
		if err := rows.Scan(&d.ID, &d.FarmerID, &d.CollectionCenterID, &d.QuantityLiters, &d.Quality,
			&d.Notes, &d.OccurredAt, &d.RecordedByID, &d.CreatedAt,
			&d.FarmerCode, &d.FarmerName, &d.CenterName); err != nil {
			return nil, fmt.Errorf("analytics.RecentDeliveries scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
