package repository

import (
	"context"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// FindByLogin busca por email o por username.
	FindByLogin(ctx context.Context, login string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// Delete devuelve domain.ErrConflict si el usuario figura en entregas o pagos.
	Delete(ctx context.Context, id string) error
}
