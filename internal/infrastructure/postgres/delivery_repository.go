package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo implementación del puerto DeliveryRepository sobre PostgreSQL.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Create persiste una entrega. Las violaciones de llave foránea se traducen al campo afectado.
func (r *DeliveryRepo) Create(ctx context.Context, d *entity.Delivery) error {
	query := `
		INSERT INTO deliveries (id, farmer_id, collection_center_id, quantity_liters, quality,
		                        notes, occurred_at, recorded_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.FarmerID, d.CollectionCenterID, d.QuantityLiters, d.Quality,
		nullIfEmpty(d.Notes), d.OccurredAt, nullIfEmpty(d.RecordedByID), d.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			c := constraintName(err)
			switch {
			case strings.Contains(c, "farmer"):
				return domain.ErrFarmerNotFound
			case strings.Contains(c, "collection_center"):
				return fmt.Errorf("%w: centro de acopio inexistente", domain.ErrInvalidInput)
			}
			return fmt.Errorf("%w: referencia inválida", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

const deliverySelect = `
	SELECT id, farmer_id, collection_center_id, quantity_liters, quality,
	       COALESCE(notes, ''), occurred_at, COALESCE(recorded_by_id::TEXT, ''), created_at
	FROM deliveries`

// GetByID obtiene una entrega por ID. Devuelve nil, nil si no existe.
func (r *DeliveryRepo) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	d, err := scanDelivery(r.q.QueryRow(ctx, deliverySelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return d, nil
}

// Update guarda cantidad, calidad, notas y fecha de la entrega.
func (r *DeliveryRepo) Update(ctx context.Context, d *entity.Delivery) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE deliveries SET quantity_liters = $2, quality = $3, notes = $4, occurred_at = $5
		WHERE id = $1`,
		d.ID, d.QuantityLiters, d.Quality, nullIfEmpty(d.Notes), d.OccurredAt)
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra una entrega.
func (r *DeliveryRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete delivery: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve las entregas visibles que cumplen el filtro, más recientes primero.
func (r *DeliveryRepo) List(ctx context.Context, scope access.Scope, filter repository.DeliveryFilter, limit, offset int) ([]*entity.Delivery, error) {
	if scope.IsEmpty() {
		return []*entity.Delivery{}, nil
	}
	cond, args := scopeCondition(scope, "collection_center_id", nil)
	where := []string{cond}
	if filter.FarmerID != "" {
		args = append(args, filter.FarmerID)
		where = append(where, fmt.Sprintf("farmer_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("occurred_at >= $%d", len(args)))
	}
	if filter.Until != nil {
		args = append(args, *filter.Until)
		where = append(where, fmt.Sprintf("occurred_at < $%d", len(args)))
	}
	query := deliverySelect + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY occurred_at DESC`
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	list := []*entity.Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanDelivery(row pgx.Row) (*entity.Delivery, error) {
	var d entity.Delivery
	if err := row.Scan(&d.ID, &d.FarmerID, &d.CollectionCenterID, &d.QuantityLiters, &d.Quality,
		&d.Notes, &d.OccurredAt, &d.RecordedByID, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}
