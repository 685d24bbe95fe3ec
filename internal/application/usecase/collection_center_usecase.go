package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/dto"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

// CollectionCenterUseCase casos de uso CRUD para centros de acopio.
type CollectionCenterUseCase struct {
	repo repository.CollectionCenterRepository
}

// NewCollectionCenterUseCase construye el caso de uso.
func NewCollectionCenterUseCase(repo repository.CollectionCenterRepository) *CollectionCenterUseCase {
	return &CollectionCenterUseCase{repo: repo}
}

// Create crea un centro de acopio. name, code y location son obligatorios; code es único.
func (uc *CollectionCenterUseCase) Create(ctx context.Context, in dto.CreateCollectionCenterRequest) (*dto.CollectionCenterResponse, error) {
	name, code, location := strings.TrimSpace(in.Name), strings.TrimSpace(in.Code), strings.TrimSpace(in.Location)
	if name == "" || code == "" || location == "" {
		return nil, fmt.Errorf("%w: name, code y location son obligatorios", domain.ErrInvalidInput)
	}
	if in.Capacity != nil && *in.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacidad negativa", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: código %q", domain.ErrDuplicate, code)
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now()
	center := &entity.CollectionCenter{
		ID:        uuid.New().String(),
		Name:      name,
		Code:      code,
		Location:  location,
		Address:   in.Address,
		Phone:     in.Phone,
		Manager:   in.Manager,
		Capacity:  in.Capacity,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, center); err != nil {
		return nil, err
	}
	return toCollectionCenterResponse(center), nil
}

// Update actualiza un centro de acopio.
func (uc *CollectionCenterUseCase) Update(ctx context.Context, id string, in dto.UpdateCollectionCenterRequest) (*dto.CollectionCenterResponse, error) {
	center, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		center.Name = strings.TrimSpace(*in.Name)
	}
	if in.Location != nil {
		center.Location = strings.TrimSpace(*in.Location)
	}
	if center.Name == "" || center.Location == "" {
		return nil, fmt.Errorf("%w: name y location no pueden quedar vacíos", domain.ErrInvalidInput)
	}
	if in.Address != nil {
		center.Address = *in.Address
	}
	if in.Phone != nil {
		center.Phone = *in.Phone
	}
	if in.Manager != nil {
		center.Manager = *in.Manager
	}
	if in.Capacity != nil {
		center.Capacity = in.Capacity
	}
	if in.IsActive != nil {
		center.IsActive = *in.IsActive
	}
	center.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, center); err != nil {
		return nil, err
	}
	return toCollectionCenterResponse(center), nil
}

// Delete borra un centro sin productores, entregas ni usuarios asignados.
// Con referencias devuelve ErrConflict; en ese caso corresponde desactivarlo.
func (uc *CollectionCenterUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List lista los centros por nombre. Solo ADMIN y MANAGER pueden pedir los inactivos.
func (uc *CollectionCenterUseCase) List(ctx context.Context, actor entity.Actor, includeInactive bool) ([]dto.CollectionCenterResponse, error) {
	if includeInactive && actor.Role != entity.RoleAdmin && actor.Role != entity.RoleManager {
		includeInactive = false
	}
	list, err := uc.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CollectionCenterResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCollectionCenterResponse(c))
	}
	return items, nil
}

func toCollectionCenterResponse(c *entity.CollectionCenter) *dto.CollectionCenterResponse {
	if c == nil {
		return nil
	}
	return &dto.CollectionCenterResponse{
		ID:        c.ID,
		Name:      c.Name,
		Code:      c.Code,
		Location:  c.Location,
		Address:   c.Address,
		Phone:     c.Phone,
		Manager:   c.Manager,
		Capacity:  c.Capacity,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
