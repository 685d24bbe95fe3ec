package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarkPaidRequest entrada de "marcar como pagado" para un productor y un período.
type MarkPaidRequest struct {
	FarmerID string `json:"farmer_id" validate:"required"`
	PeriodQuery
}

// BulkMarkPaidRequest entrada de pago masivo: cada productor se procesa por separado.
type BulkMarkPaidRequest struct {
	FarmerIDs []string `json:"farmer_ids" validate:"required,min=1"`
	PeriodQuery
}

// PaymentResponse salida de un pago registrado.
type PaymentResponse struct {
	ID                  string          `json:"id"`
	FarmerID            string          `json:"farmer_id"`
	PeriodKey           string          `json:"period"`
	TotalQuantityLiters decimal.Decimal `json:"total_quantity_liters"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	RatePerLiter        decimal.Decimal `json:"rate_per_liter"`
	Status              string          `json:"status"`
	PaidAt              *time.Time      `json:"paid_at"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ReconciliationRow fila de conciliación de un productor.
type ReconciliationRow struct {
	FarmerID      string          `json:"farmer_id"`
	FarmerCode    string          `json:"farmer_code"`
	FarmerName    string          `json:"farmer_name"`
	PricePerLiter decimal.Decimal `json:"price_per_liter"`
	TotalLiters   decimal.Decimal `json:"total_liters"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paid_at"`
	PaymentID     string          `json:"payment_id,omitempty"`
	IsPaid        bool            `json:"is_paid"`
	Eligible      bool            `json:"eligible"`
}

// ReconciliationTotals totales de la conciliación.
type ReconciliationTotals struct {
	Farmers       int             `json:"farmers"`
	PaidCount     int             `json:"paid_count"`
	TotalLiters   decimal.Decimal `json:"total_liters"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}

// ReconciliationResponse respuesta de GET /api/payments/reconciliation.
type ReconciliationResponse struct {
	Start    string               `json:"start"`
	End      string               `json:"end"`
	Currency string               `json:"currency"`
	Rows     []ReconciliationRow  `json:"rows"`
	Totals   ReconciliationTotals `json:"totals"`
}

// BulkMarkPaidItem resultado de un productor dentro del pago masivo.
type BulkMarkPaidItem struct {
	FarmerID  string           `json:"farmer_id"`
	Payment   *PaymentResponse `json:"payment,omitempty"`
	ErrorCode string           `json:"error_code,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// BulkMarkPaidResponse resultado del pago masivo. Los éxitos no se revierten si otro falla.
type BulkMarkPaidResponse struct {
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Items     []BulkMarkPaidItem `json:"items"`
}
