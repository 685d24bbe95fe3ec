package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo persiste la bitácora de operaciones de escritura.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador.
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Record inserta un registro. Asigna ID si viene vacío.
func (r *ActivityLogRepo) Record(ctx context.Context, l *entity.ActivityLog) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO activity_logs (id, user_id, action, entity, entity_id, path, status,
		                           ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		l.ID, nullIfEmpty(l.UserID), l.Action, l.Entity, nullIfEmpty(l.EntityID), l.Path, l.Status,
		nullIfEmpty(l.IPAddress), nullIfEmpty(l.UserAgent), l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}
