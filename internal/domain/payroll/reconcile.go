// Package payroll calcula lo que se debe a cada productor por un período y lo
// concilia contra los pagos ya registrados. No accede a la base de datos: recibe
// registros ya filtrados por el alcance del actor.
package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
)

// Row es el resultado de conciliar a un productor en un período.
type Row struct {
	Farmer      *entity.Farmer
	TotalLiters decimal.Decimal
	// TotalAmount = TotalLiters × Farmer.PricePerLiter, sin redondear.
	TotalAmount decimal.Decimal
	Status      string
	PaidAt      *time.Time
	PaymentID   string
	IsPaid      bool
	// Eligible: hay litros en el período y aún no está pagado.
	Eligible bool
}

// Totals resume un conjunto de filas.
type Totals struct {
	Farmers       int
	PaidCount     int
	TotalLiters   decimal.Decimal
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal
	PendingAmount decimal.Decimal
}

// Sum devuelve los litros de las entregas del productor dentro del período.
// El orden de deliveries no afecta el resultado.
func Sum(period Period, farmerID string, deliveries []*entity.Delivery) decimal.Decimal {
	total := decimal.Zero
	for _, d := range deliveries {
		if d == nil || d.FarmerID != farmerID || !period.Contains(d.OccurredAt) {
			continue
		}
		total = total.Add(d.QuantityLiters)
	}
	return total
}

// ComputeRow calcula litros y monto del productor, sin estado de pago.
func ComputeRow(period Period, farmer *entity.Farmer, deliveries []*entity.Delivery) Row {
	liters := Sum(period, farmer.ID, deliveries)
	return Row{
		Farmer:      farmer,
		TotalLiters: liters,
		TotalAmount: liters.Mul(farmer.PricePerLiter),
		Status:      entity.PaymentPending,
		Eligible:    liters.IsPositive(),
	}
}

// Reconcile produce una fila por productor, en el mismo orden que farmers.
//
// El pago de un productor es el que tenga su FarmerID y una PeriodKey dentro del
// período. Si hay varios se prefiere uno COMPLETED; entre iguales, el primero.
func Reconcile(period Period, farmers []*entity.Farmer, deliveries []*entity.Delivery, payments []*entity.Payment) []Row {
	byFarmer := make(map[string][]*entity.Delivery, len(farmers))
	for _, d := range deliveries {
		if d == nil || !period.Contains(d.OccurredAt) {
			continue
		}
		byFarmer[d.FarmerID] = append(byFarmer[d.FarmerID], d)
	}
	paid := matchPayments(period, payments)

	rows := make([]Row, 0, len(farmers))
	for _, f := range farmers {
		if f == nil {
			continue
		}
		row := ComputeRow(period, f, byFarmer[f.ID])
		if p, ok := paid[f.ID]; ok {
			row.Status = p.Status
			row.PaidAt = p.PaidAt
			row.PaymentID = p.ID
			row.IsPaid = p.Status == entity.PaymentCompleted
			if row.IsPaid {
				row.Eligible = false
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Summarize acumula los totales de las filas.
func Summarize(rows []Row) Totals {
	t := Totals{
		TotalLiters:   decimal.Zero,
		TotalAmount:   decimal.Zero,
		PaidAmount:    decimal.Zero,
		PendingAmount: decimal.Zero,
	}
	for _, r := range rows {
		t.Farmers++
		t.TotalLiters = t.TotalLiters.Add(r.TotalLiters)
		t.TotalAmount = t.TotalAmount.Add(r.TotalAmount)
		if r.IsPaid {
			t.PaidCount++
			t.PaidAmount = t.PaidAmount.Add(r.TotalAmount)
		} else {
			t.PendingAmount = t.PendingAmount.Add(r.TotalAmount)
		}
	}
	return t
}

// FindPayment busca el pago del productor en el período con la misma regla que Reconcile.
func FindPayment(period Period, farmerID string, payments []*entity.Payment) *entity.Payment {
	var found *entity.Payment
	for _, p := range payments {
		if p == nil || p.FarmerID != farmerID || !period.ContainsKey(p.PeriodKey) {
			continue
		}
		if found == nil || (found.Status != entity.PaymentCompleted && p.Status == entity.PaymentCompleted) {
			found = p
		}
	}
	return found
}

func matchPayments(period Period, payments []*entity.Payment) map[string]*entity.Payment {
	out := make(map[string]*entity.Payment)
	for _, p := range payments {
		if p == nil || !period.ContainsKey(p.PeriodKey) {
			continue
		}
		cur, ok := out[p.FarmerID]
		if !ok || (cur.Status != entity.PaymentCompleted && p.Status == entity.PaymentCompleted) {
			out[p.FarmerID] = p
		}
	}
	return out
}
