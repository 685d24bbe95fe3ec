package usecase

import (
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
)

// writeScopes resuelve el alcance del actor y exige un rol que pueda registrar datos.
func writeScopes(actor entity.Actor) (access.Scopes, error) {
	scopes, err := access.Resolve(actor)
	if err != nil {
		return access.Scopes{}, err
	}
	if !entity.CanWrite(actor.Role) {
		return access.Scopes{}, domain.ErrForbidden
	}
	return scopes, nil
}

// ownCenter devuelve el centro asignado al actor, o "" si no tiene.
func ownCenter(actor entity.Actor) string {
	if actor.CollectionCenterID == nil {
		return ""
	}
	return *actor.CollectionCenterID
}
