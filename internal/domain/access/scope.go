// Package access resuelve qué registros puede ver un actor según su rol y su
// centro de acopio. Todo endpoint que lee productores, entregas o pagos debe
// pasar por Resolve antes de consultar; ningún handler compara roles por su cuenta.
package access

import (
	"fmt"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
)

// Kind es la forma del filtro. Solo existen tres.
type Kind int

const (
	// KindNone no deja ver nada (operador sin centro asignado).
	KindNone Kind = iota
	// KindCenter deja ver solo los registros del centro CenterID.
	KindCenter
	// KindAll no restringe.
	KindAll
)

func (k Kind) String() string {
	switch k {
	case KindAll:
		return "all"
	case KindCenter:
		return "center"
	default:
		return "none"
	}
}

// Scope es el filtro de visibilidad de un tipo de registro.
// El valor cero es KindNone: un Scope sin inicializar nunca concede acceso.
type Scope struct {
	Kind     Kind
	CenterID string
}

// AllowAll, AllowCenter y AllowNone construyen los tres filtros posibles.
func AllowAll() Scope                   { return Scope{Kind: KindAll} }
func AllowCenter(centerID string) Scope { return Scope{Kind: KindCenter, CenterID: centerID} }
func AllowNone() Scope                  { return Scope{Kind: KindNone} }

// IsEmpty indica que el filtro produce siempre un conjunto vacío.
func (s Scope) IsEmpty() bool { return s.Kind == KindNone }

// AllowsCenter evalúa el filtro contra el centro de acopio de un registro.
func (s Scope) AllowsCenter(centerID string) bool {
	switch s.Kind {
	case KindAll:
		return true
	case KindCenter:
		return centerID == s.CenterID
	default:
		return false
	}
}

// Scopes agrupa los filtros de las tres clases de registro.
type Scopes struct {
	Farmers    Scope
	Deliveries Scope
	// Payments se evalúa contra el centro del productor del pago.
	Payments Scope
}

// AllowsFarmer indica si el actor puede ver al productor.
func (s Scopes) AllowsFarmer(f *entity.Farmer) bool {
	return f != nil && s.Farmers.AllowsCenter(f.CollectionCenterID)
}

// AllowsDelivery indica si el actor puede ver la entrega.
func (s Scopes) AllowsDelivery(d *entity.Delivery) bool {
	return d != nil && s.Deliveries.AllowsCenter(d.CollectionCenterID)
}

// AllowsPayment indica si el actor puede ver el pago; farmerCenterID es el centro del productor pagado.
func (s Scopes) AllowsPayment(p *entity.Payment, farmerCenterID string) bool {
	return p != nil && s.Payments.AllowsCenter(farmerCenterID)
}

// Resolve traduce el actor a sus filtros de visibilidad.
//
//	ADMIN, MANAGER, VIEWER      → todo
//	OPERATOR con centro         → solo su centro
//	OPERATOR sin centro         → nada
//	otro rol                    → ErrUnknownRole (denegar, nunca "todo")
//
// VIEWER ve todo pero no escribe; esa restricción la aplica quien llama.
func Resolve(actor entity.Actor) (Scopes, error) {
	switch actor.Role {
	case entity.RoleAdmin, entity.RoleManager, entity.RoleViewer:
		all := AllowAll()
		return Scopes{Farmers: all, Deliveries: all, Payments: all}, nil
	case entity.RoleOperator:
		if actor.CollectionCenterID == nil || *actor.CollectionCenterID == "" {
			none := AllowNone()
			return Scopes{Farmers: none, Deliveries: none, Payments: none}, nil
		}
		center := AllowCenter(*actor.CollectionCenterID)
		return Scopes{Farmers: center, Deliveries: center, Payments: center}, nil
	default:
		return Scopes{}, fmt.Errorf("%w: %q", domain.ErrUnknownRole, actor.Role)
	}
}
