package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDeliveryRequest entrada para registrar una entrega de leche.
type CreateDeliveryRequest struct {
	FarmerID           string          `json:"farmer_id" validate:"required"`
	QuantityLiters     decimal.Decimal `json:"quantity_liters" validate:"required"`
	Quality            string          `json:"quality"`              // por defecto GOOD
	Notes              string          `json:"notes"`
	OccurredAt         *time.Time      `json:"occurred_at"`          // por defecto ahora
	CollectionCenterID string          `json:"collection_center_id"` // por defecto el del productor
}

// UpdateDeliveryRequest corrección de una entrega. Los campos nil no cambian.
type UpdateDeliveryRequest struct {
	QuantityLiters *decimal.Decimal `json:"quantity_liters"`
	Quality        *string          `json:"quality"`
	Notes          *string          `json:"notes"`
	OccurredAt     *time.Time       `json:"occurred_at"`
}

// DeliveryResponse salida de una entrega.
type DeliveryResponse struct {
	ID                 string          `json:"id"`
	FarmerID           string          `json:"farmer_id"`
	CollectionCenterID string          `json:"collection_center_id"`
	QuantityLiters     decimal.Decimal `json:"quantity_liters"`
	Quality            string          `json:"quality"`
	Notes              string          `json:"notes,omitempty"`
	OccurredAt         time.Time       `json:"occurred_at"`
	RecordedByID       string          `json:"recorded_by_id,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// DeliveryListResponse listado de entregas.
type DeliveryListResponse struct {
	Items []DeliveryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
