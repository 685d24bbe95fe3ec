package entity

import "time"

// Acciones registradas en la bitácora.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// ActivityLog es una entrada de la bitácora de cambios: quién hizo qué sobre qué registro.
type ActivityLog struct {
	ID        string
	UserID    string
	Action    string // CREATE, UPDATE, DELETE
	Entity    string // recurso de la ruta: farmers, deliveries, payments…
	EntityID  string // vacío en altas
	Path      string
	Status    int
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}
