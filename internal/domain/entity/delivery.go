package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Grados de calidad de una entrega.
const (
	QualityExcellent = "EXCELLENT"
	QualityGood      = "GOOD"
	QualityFair      = "FAIR"
	QualityPoor      = "POOR"
)

// IsValidQuality indica si q es un grado de calidad conocido.
func IsValidQuality(q string) bool {
	switch q {
	case QualityExcellent, QualityGood, QualityFair, QualityPoor:
		return true
	}
	return false
}

// Delivery representa una entrega de leche de un productor en un centro de acopio.
type Delivery struct {
	ID                 string
	FarmerID           string
	CollectionCenterID string
	QuantityLiters     decimal.Decimal
	Quality            string
	Notes              string
	OccurredAt         time.Time
	RecordedByID       string
	CreatedAt          time.Time
}
