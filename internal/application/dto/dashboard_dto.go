package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStatsDTO respuesta de GET /api/dashboard/stats, filtrada por el alcance del actor.
type DashboardStatsDTO struct {
	TotalFarmers  int `json:"total_farmers"`
	ActiveFarmers int `json:"active_farmers"`

	TodayCollection   decimal.Decimal `json:"today_collection"`   // litros de hoy
	MonthlyCollection decimal.Decimal `json:"monthly_collection"` // litros del mes en curso

	PendingPayments int             `json:"pending_payments"`
	MonthlyRevenue  decimal.Decimal `json:"monthly_revenue"` // pagos COMPLETED del mes

	LowQualityDeliveries int `json:"low_quality_deliveries"` // FAIR o POOR de hoy

	DateLabel string `json:"date_label"` // ej. "Marzo 2026"

	// Últimos 7 días, el más antiguo primero; los días sin entregas van en cero.
	CollectionTrend []DailyCollectionDTO `json:"collection_trend"`

	// Últimas entregas visibles, la más reciente primero.
	RecentDeliveries []RecentDeliveryDTO `json:"recent_deliveries"`
}

// RecentDeliveryDTO entrega reciente con el productor y el centro.
type RecentDeliveryDTO struct {
	ID             string          `json:"id"`
	FarmerID       string          `json:"farmer_id"`
	FarmerCode     string          `json:"farmer_code"`
	FarmerName     string          `json:"farmer_name"`
	CenterName     string          `json:"collection_center_name"`
	QuantityLiters decimal.Decimal `json:"quantity_liters"`
	Quality        string          `json:"quality"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// DailyCollectionDTO litros recolectados en un día.
type DailyCollectionDTO struct {
	Date     time.Time       `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
}
