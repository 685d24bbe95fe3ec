// Package analytics contiene los casos de uso del dashboard de acopio.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/dto"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

const (
	trendDays   = 7  // días del gráfico de tendencia
	recentLimit = 10 // entregas recientes del resumen
)

// DashboardUseCase genera el resumen del día y del mes en curso, filtrado por el alcance del actor.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	loc           *time.Location
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso. loc define dónde empieza "hoy".
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, loc *time.Location) *DashboardUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardUseCase{analyticsRepo: analyticsRepo, loc: loc, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetStats construye el DashboardStatsDTO.
//
// Las consultas corren en paralelo; la primera que falle aborta el resumen.
func (uc *DashboardUseCase) GetStats(ctx context.Context, actor entity.Actor) (*dto.DashboardStatsDTO, error) {
	scopes, err := access.Resolve(actor)
	if err != nil {
		return nil, err
	}
	now := uc.now().In(uc.loc)

	// ── Rangos de fecha [desde, hasta) ────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	tomorrow := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, uc.loc)
	trendStart := todayStart.AddDate(0, 0, -(trendDays - 1))

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	type countResult struct {
		n   int
		err error
	}
	type sumResult struct {
		v   decimal.Decimal
		err error
	}
	type trendResult struct {
		days []repository.DailyLiters
		err  error
	}
	type recentResult struct {
		list []repository.RecentDelivery
		err  error
	}

	totalCh := make(chan countResult, 1)
	activeCh := make(chan countResult, 1)
	pendingCh := make(chan countResult, 1)
	lowCh := make(chan countResult, 1)
	todayCh := make(chan sumResult, 1)
	monthCh := make(chan sumResult, 1)
	revenueCh := make(chan sumResult, 1)
	trendCh := make(chan trendResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		n, err := uc.analyticsRepo.CountFarmers(ctx, scopes.Farmers, false)
		totalCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountFarmers(ctx, scopes.Farmers, true)
		activeCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountPaymentsByStatus(ctx, scopes.Payments, entity.PaymentPending)
		pendingCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountDeliveriesByQuality(ctx, scopes.Deliveries,
			[]string{entity.QualityFair, entity.QualityPoor}, todayStart, tomorrow)
		lowCh <- countResult{n, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.SumLiters(ctx, scopes.Deliveries, todayStart, tomorrow)
		todayCh <- sumResult{v, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.SumLiters(ctx, scopes.Deliveries, monthStart, tomorrow)
		monthCh <- sumResult{v, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.SumCompletedPayments(ctx, scopes.Payments, monthStart, tomorrow)
		revenueCh <- sumResult{v, err}
	}()
	go func() {
		days, err := uc.analyticsRepo.DailyLiters(ctx, scopes.Deliveries, trendStart, tomorrow)
		trendCh <- trendResult{days, err}
	}()
	go func() {
		list, err := uc.analyticsRepo.RecentDeliveries(ctx, scopes.Deliveries, recentLimit)
		recentCh <- recentResult{list, err}
	}()

	total, active, pending, low := <-totalCh, <-activeCh, <-pendingCh, <-lowCh
	today, month, revenue, trend := <-todayCh, <-monthCh, <-revenueCh, <-trendCh
	recent := <-recentCh

	for _, c := range []struct {
		name string
		err  error
	}{
		{"productores", total.err},
		{"productores activos", active.err},
		{"pagos pendientes", pending.err},
		{"entregas de baja calidad", low.err},
		{"litros de hoy", today.err},
		{"litros del mes", month.err},
		{"pagos del mes", revenue.err},
		{"tendencia", trend.err},
		{"entregas recientes", recent.err},
	} {
		if c.err != nil {
			return nil, fmt.Errorf("dashboard: %s: %w", c.name, c.err)
		}
	}

	return &dto.DashboardStatsDTO{
		TotalFarmers:         total.n,
		ActiveFarmers:        active.n,
		TodayCollection:      today.v,
		MonthlyCollection:    month.v,
		PendingPayments:      pending.n,
		MonthlyRevenue:       revenue.v,
		LowQualityDeliveries: low.n,
		DateLabel:            monthLabel(now),
		CollectionTrend:      fillTrend(trendStart, trend.days),
		RecentDeliveries:     toRecentDeliveries(recent.list),
	}, nil
}

func toRecentDeliveries(list []repository.RecentDelivery) []dto.RecentDeliveryDTO {
	out := make([]dto.RecentDeliveryDTO, 0, len(list))
	for _, d := range list {
		out = append(out, dto.RecentDeliveryDTO{
			ID:             d.ID,
			FarmerID:       d.FarmerID,
			FarmerCode:     d.FarmerCode,
			FarmerName:     d.FarmerName,
			CenterName:     d.CenterName,
			QuantityLiters: d.QuantityLiters,
			Quality:        d.Quality,
			OccurredAt:     d.OccurredAt,
		})
	}
	return out
}

// fillTrend devuelve trendDays puntos desde start; los días sin entregas quedan en cero.
func fillTrend(start time.Time, days []repository.DailyLiters) []dto.DailyCollectionDTO {
	byDay := make(map[string]decimal.Decimal, len(days))
	for _, d := range days {
		key := d.Day.Format("2006-01-02") // fecha de calendario ya en la zona del reporte
		byDay[key] = byDay[key].Add(d.Liters)
	}
	out := make([]dto.DailyCollectionDTO, 0, trendDays)
	for i := 0; i < trendDays; i++ {
		day := start.AddDate(0, 0, i)
		q, ok := byDay[day.Format("2006-01-02")]
		if !ok {
			q = decimal.Zero
		}
		out = append(out, dto.DailyCollectionDTO{Date: day, Quantity: q})
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
