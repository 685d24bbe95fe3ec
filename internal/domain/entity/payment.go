package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pago.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
)

// Payment registra el pago a un productor por un período.
// PeriodKey es la fecha de inicio del período en formato YYYY-MM-DD y PeriodEndKey la final.
// Se crea una sola vez y no se modifica después.
type Payment struct {
	ID                  string
	FarmerID            string
	PeriodKey           string
	PeriodEndKey        string
	TotalQuantityLiters decimal.Decimal
	TotalAmount         decimal.Decimal
	RatePerLiter        decimal.Decimal
	Status              string
	PaidAt              *time.Time
	CreatedByID         string
	CreatedAt           time.Time
}

// Covers indica si el pago COMPLETED incluye el día dayKey (YYYY-MM-DD).
// Las entregas de ese día ya fueron pagadas y no se pueden modificar.
func (p Payment) Covers(dayKey string) bool {
	end := p.PeriodEndKey
	if end == "" {
		end = p.PeriodKey
	}
	return p.Status == PaymentCompleted && p.PeriodKey <= dayKey && dayKey <= end
}
