package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email              string  `json:"email" validate:"required,email"`
	Username           string  `json:"username" validate:"omitempty,max=50"`
	Password           string  `json:"password" validate:"required,min=8"`
	Name               string  `json:"name" validate:"required,min=1,max=200"`
	Role               string  `json:"role" validate:"required,oneof=ADMIN MANAGER OPERATOR VIEWER"`
	CollectionCenterID *string `json:"collection_center_id"`
}

// UpdateUserRequest campos opcionales; solo se aplican los presentes.
type UpdateUserRequest struct {
	Name               *string `json:"name"`
	Role               *string `json:"role"`
	CollectionCenterID *string `json:"collection_center_id"` // "" desasigna el centro
	IsActive           *bool   `json:"is_active"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Username           string    `json:"username,omitempty"`
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	CollectionCenterID *string   `json:"collection_center_id"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// LoginRequest entrada para login: email o username.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
