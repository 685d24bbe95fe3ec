package entity

import "time"

// CollectionCenter representa un centro de acopio donde los productores entregan leche.
type CollectionCenter struct {
	ID        string
	Name      string
	Code      string
	Location  string
	Address   string
	Phone     string
	Manager   string
	Capacity  *int // litros por día, opcional
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
