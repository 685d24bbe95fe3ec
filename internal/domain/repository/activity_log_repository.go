package repository

import (
	"context"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
)

// ActivityLogRepository persiste la bitácora de cambios. Solo se agregan entradas.
type ActivityLogRepository interface {
	Record(ctx context.Context, entry *entity.ActivityLog) error
}
