package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateFarmerRequest entrada para registrar un productor. El código F#### lo asigna el sistema.
type CreateFarmerRequest struct {
	Name               string           `json:"name" validate:"required"`
	Phone              string           `json:"phone" validate:"required"`
	Email              string           `json:"email"`
	Location           string           `json:"location" validate:"required"`
	Address            string           `json:"address"`
	BankName           string           `json:"bank_name"`
	AccountNumber      string           `json:"account_number"`
	AccountName        string           `json:"account_name"`
	PricePerLiter      *decimal.Decimal `json:"price_per_liter"` // por defecto el de configuración
	CollectionCenterID string           `json:"collection_center_id"`
}

// UpdateFarmerRequest edición parcial de un productor. Los campos nil no cambian.
type UpdateFarmerRequest struct {
	Name               *string          `json:"name"`
	Phone              *string          `json:"phone"`
	Email              *string          `json:"email"`
	Location           *string          `json:"location"`
	Address            *string          `json:"address"`
	BankName           *string          `json:"bank_name"`
	AccountNumber      *string          `json:"account_number"`
	AccountName        *string          `json:"account_name"`
	PricePerLiter      *decimal.Decimal `json:"price_per_liter"`
	CollectionCenterID *string          `json:"collection_center_id"`
}

// UpdateFarmerStatusRequest activa o desactiva un productor.
type UpdateFarmerStatusRequest struct {
	IsActive bool `json:"is_active"`
}

// FarmerResponse salida de un productor.
type FarmerResponse struct {
	ID                 string          `json:"id"`
	FarmerCode         string          `json:"farmer_code"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone"`
	Email              string          `json:"email,omitempty"`
	Location           string          `json:"location"`
	Address            string          `json:"address,omitempty"`
	BankName           string          `json:"bank_name,omitempty"`
	AccountNumber      string          `json:"account_number,omitempty"`
	AccountName        string          `json:"account_name,omitempty"`
	PricePerLiter      decimal.Decimal `json:"price_per_liter"`
	CollectionCenterID string          `json:"collection_center_id"`
	IsActive           bool            `json:"is_active"`
	DeliveryCount      int             `json:"delivery_count"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// FarmerListResponse listado paginado de productores.
type FarmerListResponse struct {
	Items []FarmerResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// FarmerImportResult resultado de la importación masiva por CSV.
type FarmerImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}
