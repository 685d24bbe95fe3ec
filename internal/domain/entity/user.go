package entity

import "time"

// Roles válidos para User. El valor persistido es el mismo que viaja en el JWT.
const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleOperator = "OPERATOR"
	RoleViewer   = "VIEWER"
)

// User representa un usuario del sistema (personal de la cooperativa).
type User struct {
	ID                 string
	Email              string
	Username           string
	PasswordHash       string // bcrypt hash, nunca plano en dominio después de persistir
	Name               string
	Role               string  // ADMIN, MANAGER, OPERATOR, VIEWER
	CollectionCenterID *string // solo relevante para OPERATOR
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Actor es la identidad que ejecuta una petición: solo lo que necesita el control de acceso.
type Actor struct {
	ID                 string
	Role               string
	CollectionCenterID *string
}

// Actor devuelve la vista de control de acceso del usuario.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, CollectionCenterID: u.CollectionCenterID}
}

// IsKnownRole indica si role es uno de los cuatro roles del sistema.
func IsKnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleOperator, RoleViewer:
		return true
	}
	return false
}

// CanWrite indica si el rol puede registrar productores, entregas y pagos (OPERATOR o superior).
func CanWrite(role string) bool {
	return role == RoleAdmin || role == RoleManager || role == RoleOperator
}
