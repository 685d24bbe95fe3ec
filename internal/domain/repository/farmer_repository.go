package repository

import (
	"context"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
)

// FarmerRepository define el puerto de persistencia para productores.
// Toda lectura de listados recibe el Scope del actor; un Scope vacío devuelve cero filas sin consultar.
type FarmerRepository interface {
	// Create persiste el productor con su FarmerCode ya asignado.
	// Devuelve domain.ErrDuplicate si el código ya existe.
	Create(ctx context.Context, farmer *entity.Farmer) error
	GetByID(ctx context.Context, id string) (*entity.Farmer, error)
	// GetForUpdate lee el productor bloqueando su fila hasta el fin de la transacción.
	// Serializa los "marcar como pagado" concurrentes del mismo productor.
	GetForUpdate(ctx context.Context, id string) (*entity.Farmer, error)
	// List pagina los productores visibles, más recientes primero.
	List(ctx context.Context, scope access.Scope, limit, offset int) ([]*entity.Farmer, error)
	// ListAll devuelve todos los productores visibles (para conciliación y exportación).
	ListAll(ctx context.Context, scope access.Scope) ([]*entity.Farmer, error)
	SetActive(ctx context.Context, id string, active bool) error
	// Update guarda los datos editables (código y fecha de alta no cambian).
	// Devuelve domain.ErrFarmerNotFound si no existe.
	Update(ctx context.Context, farmer *entity.Farmer) error
	// Delete borra el productor. Devuelve domain.ErrConflict si tiene entregas o pagos.
	Delete(ctx context.Context, id string) error
}

// FarmerCodeSequence entrega números de código de productor sin repetir.
type FarmerCodeSequence interface {
	NextFarmerNumber(ctx context.Context) (int64, error)
	// ResyncFarmerNumber adelanta el contador al mayor sufijo ya usado (códigos cargados a mano).
	ResyncFarmerNumber(ctx context.Context) error
}
