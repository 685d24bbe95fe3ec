package dto

import "time"

// CreateCollectionCenterRequest entrada para crear un centro de acopio.
type CreateCollectionCenterRequest struct {
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code" validate:"required"`
	Location string `json:"location" validate:"required"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Manager  string `json:"manager"`
	Capacity *int   `json:"capacity"`
	IsActive *bool  `json:"is_active"` // por defecto true
}

// UpdateCollectionCenterRequest campos opcionales.
type UpdateCollectionCenterRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Manager  *string `json:"manager"`
	Capacity *int    `json:"capacity"`
	IsActive *bool   `json:"is_active"`
}

// CollectionCenterResponse salida de un centro de acopio.
type CollectionCenterResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Location  string    `json:"location"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Manager   string    `json:"manager,omitempty"`
	Capacity  *int      `json:"capacity,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
