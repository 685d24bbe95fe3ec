package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Farmer representa un productor de leche afiliado a la cooperativa.
// FarmerCode (F0001, F0002…) se asigna una sola vez al crear y nunca se reutiliza.
type Farmer struct {
	ID                 string
	FarmerCode         string
	Name               string
	Phone              string
	Email              string
	Location           string
	Address            string
	BankName           string
	AccountNumber      string
	AccountName        string
	PricePerLiter      decimal.Decimal
	CollectionCenterID string
	IsActive           bool
	DeliveryCount      int // calculado en listados
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
