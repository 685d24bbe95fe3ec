package postgres

import (
	"fmt"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
)

// scopeCondition traduce un Scope a una condición SQL sobre column.
// El argumento del centro se agrega a args y se referencia por posición.
// Un Scope vacío produce FALSE: nunca se omite el filtro.
func scopeCondition(scope access.Scope, column string, args []any) (string, []any) {
	switch scope.Kind {
	case access.KindAll:
		return "TRUE", args
	case access.KindCenter:
		args = append(args, scope.CenterID)
		return fmt.Sprintf("%s = $%d", column, len(args)), args
	default:
		return "FALSE", args
	}
}
