package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

const paymentSelect = `
	SELECT p.id, p.farmer_id, p.period_key, p.period_end_key, p.total_quantity_liters, p.total_amount,
	       p.rate_per_liter, p.status, p.paid_at, COALESCE(p.created_by_id::TEXT, ''), p.created_at
	FROM payments p`

// PaymentRepo implementación del puerto PaymentRepository sobre PostgreSQL.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste un pago. El índice único parcial sobre (farmer_id, period_key) de los pagos
// COMPLETED convierte el doble pago concurrente en ErrDuplicatePayment.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, farmer_id, period_key, period_end_key, total_quantity_liters,
		                      total_amount, rate_per_liter, status, paid_at, created_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	end := p.PeriodEndKey
	if end == "" {
		end = p.PeriodKey
	}
	_, err := r.q.Exec(ctx, query,
		p.ID, p.FarmerID, p.PeriodKey, end, p.TotalQuantityLiters, p.TotalAmount,
		p.RatePerLiter, p.Status, p.PaidAt, nullIfEmpty(p.CreatedByID), p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePayment
		}
		if isForeignKeyViolation(err) {
			return domain.ErrFarmerNotFound
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene un pago por ID. Devuelve nil, nil si no existe.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, paymentSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// ListByPeriodKeys devuelve los pagos visibles con period_key en [startKey, endKey].
func (r *PaymentRepo) ListByPeriodKeys(ctx context.Context, scope access.Scope, startKey, endKey string) ([]*entity.Payment, error) {
	if scope.IsEmpty() {
		return []*entity.Payment{}, nil
	}
	args := []any{startKey, endKey}
	cond, args := scopeCondition(scope, "f.collection_center_id", args)
	query := paymentSelect + `
		JOIN farmers f ON f.id = p.farmer_id
		WHERE p.period_key BETWEEN $1 AND $2 AND ` + cond + `
		ORDER BY p.period_key, p.created_at`
	return r.list(ctx, query, args...)
}

// ListForFarmer devuelve los pagos del productor con period_key en [startKey, endKey].
func (r *PaymentRepo) ListForFarmer(ctx context.Context, farmerID, startKey, endKey string) ([]*entity.Payment, error) {
	query := paymentSelect + `
		WHERE p.farmer_id = $1 AND p.period_key BETWEEN $2 AND $3
		ORDER BY p.period_key, p.created_at`
	return r.list(ctx, query, farmerID, startKey, endKey)
}

// FindCompletedCovering devuelve el pago COMPLETED del productor cuyo período incluye dayKey.
func (r *PaymentRepo) FindCompletedCovering(ctx context.Context, farmerID, dayKey string) (*entity.Payment, error) {
	query := paymentSelect + `
		WHERE p.farmer_id = $1 AND p.status = 'COMPLETED'
		  AND p.period_key <= $2 AND p.period_end_key >= $2
		ORDER BY p.period_key
		LIMIT 1`
	p, err := scanPayment(r.q.QueryRow(ctx, query, farmerID, dayKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find covering payment: %w", err)
	}
	return p, nil
}

func (r *PaymentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	list := []*entity.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(&p.ID, &p.FarmerID, &p.PeriodKey, &p.PeriodEndKey, &p.TotalQuantityLiters, &p.TotalAmount,
		&p.RatePerLiter, &p.Status, &p.PaidAt, &p.CreatedByID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
