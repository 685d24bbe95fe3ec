// Package payments concilia entregas contra pagos por período y registra los pagos.
package payments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/dto"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/ports"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/payroll"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

// Config parámetros del caso de uso.
type Config struct {
	Location *time.Location // zona horaria de los días del período
	Currency string
}

// Deps agrupa los colaboradores del caso de uso.
type Deps struct {
	Farmers    repository.FarmerRepository
	Deliveries repository.DeliveryRepository
	Payments   repository.PaymentRepository
	Tx         TxRunner
	Notifier   ports.Notifier
	Sheets     ports.SpreadsheetExporter
	Receipts   ports.ReceiptGenerator
}

// UseCase casos de uso de pagos por período.
type UseCase struct {
	farmers    repository.FarmerRepository
	deliveries repository.DeliveryRepository
	payments   repository.PaymentRepository
	tx         TxRunner
	notifier   ports.Notifier
	sheets     ports.SpreadsheetExporter
	receipts   ports.ReceiptGenerator
	cfg        Config
	log        zerolog.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso. Notifier nil equivale a no enviar avisos.
func NewUseCase(deps Deps, cfg Config, log zerolog.Logger) *UseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &UseCase{
		farmers:    deps.Farmers,
		deliveries: deps.Deliveries,
		payments:   deps.Payments,
		tx:         deps.Tx,
		notifier:   notifier,
		sheets:     deps.Sheets,
		receipts:   deps.Receipts,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// ResolvePeriod interpreta start+end o start+interval (15 o 30 días).
func (uc *UseCase) ResolvePeriod(q dto.PeriodQuery) (payroll.Period, error) {
	if q.Start == "" {
		return payroll.Period{}, fmt.Errorf("%w: falta la fecha inicial", domain.ErrInvalidInput)
	}
	if q.End != "" {
		return payroll.ParsePeriod(q.Start, q.End, uc.cfg.Location)
	}
	switch q.Interval {
	case 15, 30:
		return payroll.PeriodFromInterval(q.Start, q.Interval, uc.cfg.Location)
	case 0:
		return payroll.Period{}, fmt.Errorf("%w: falta la fecha final o el intervalo", domain.ErrInvalidInput)
	default:
		return payroll.Period{}, fmt.Errorf("%w: el intervalo debe ser 15 o 30 días", domain.ErrInvalidPeriod)
	}
}

// Reconcile devuelve una fila por productor visible con lo adeudado y el estado de pago.
// El período se valida antes de cualquier acceso a la base de datos.
func (uc *UseCase) Reconcile(ctx context.Context, actor entity.Actor, q dto.PeriodQuery) (*dto.ReconciliationResponse, error) {
	period, err := uc.ResolvePeriod(q)
	if err != nil {
		return nil, err
	}
	rows, err := uc.reconcile(ctx, actor, period)
	if err != nil {
		return nil, err
	}
	out := &dto.ReconciliationResponse{
		Start:    period.Key(),
		End:      period.EndKey(),
		Currency: uc.cfg.Currency,
		Rows:     make([]dto.ReconciliationRow, 0, len(rows)),
		Totals:   toTotals(payroll.Summarize(rows)),
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, toReconciliationRow(r))
	}
	return out, nil
}

func (uc *UseCase) reconcile(ctx context.Context, actor entity.Actor, period payroll.Period) ([]payroll.Row, error) {
	scopes, err := access.Resolve(actor)
	if err != nil {
		return nil, err
	}
	farmers, err := uc.farmers.ListAll(ctx, scopes.Farmers)
	if err != nil {
		return nil, err
	}
	from, until := period.From(), period.Until()
	deliveries, err := uc.deliveries.List(ctx, scopes.Deliveries,
		repository.DeliveryFilter{From: &from, Until: &until}, 0, 0)
	if err != nil {
		return nil, err
	}
	payments, err := uc.payments.ListByPeriodKeys(ctx, scopes.Payments, period.Key(), period.EndKey())
	if err != nil {
		return nil, err
	}
	return payroll.Reconcile(period, farmers, deliveries, payments), nil
}

// ListPayments lista los pagos visibles registrados dentro del período.
func (uc *UseCase) ListPayments(ctx context.Context, actor entity.Actor, q dto.PeriodQuery) ([]dto.PaymentResponse, error) {
	period, err := uc.ResolvePeriod(q)
	if err != nil {
		return nil, err
	}
	scopes, err := access.Resolve(actor)
	if err != nil {
		return nil, err
	}
	list, err := uc.payments.ListByPeriodKeys(ctx, scopes.Payments, period.Key(), period.EndKey())
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPaymentResponse(p))
	}
	return out, nil
}

// MarkPaid registra el pago COMPLETED del productor para el período.
//
// Dentro de una transacción: bloquea la fila del productor, rechaza si ya hay un pago
// COMPLETED en el período, recalcula litros y monto, y rechaza si no hay litros.
// El aviso al productor se despacha después del commit y su fallo no afecta el pago.
func (uc *UseCase) MarkPaid(ctx context.Context, actor entity.Actor, in dto.MarkPaidRequest) (*dto.PaymentResponse, error) {
	period, err := uc.ResolvePeriod(in.PeriodQuery)
	if err != nil {
		return nil, err
	}
	scopes, err := uc.writeScopes(actor)
	if err != nil {
		return nil, err
	}
	payment, err := uc.markPaid(ctx, actor, scopes, period, in.FarmerID)
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(payment), nil
}

// MarkPaidBulk aplica MarkPaid a cada productor de forma independiente.
// Un fallo no revierte los pagos ya registrados; cada resultado se informa por separado.
func (uc *UseCase) MarkPaidBulk(ctx context.Context, actor entity.Actor, in dto.BulkMarkPaidRequest) (*dto.BulkMarkPaidResponse, error) {
	period, err := uc.ResolvePeriod(in.PeriodQuery)
	if err != nil {
		return nil, err
	}
	if len(in.FarmerIDs) == 0 {
		return nil, fmt.Errorf("%w: farmer_ids vacío", domain.ErrInvalidInput)
	}
	scopes, err := uc.writeScopes(actor)
	if err != nil {
		return nil, err
	}

	out := &dto.BulkMarkPaidResponse{Items: make([]dto.BulkMarkPaidItem, 0, len(in.FarmerIDs))}
	seen := make(map[string]bool, len(in.FarmerIDs))
	for _, farmerID := range in.FarmerIDs {
		if seen[farmerID] {
			continue
		}
		seen[farmerID] = true

		item := dto.BulkMarkPaidItem{FarmerID: farmerID}
		payment, err := uc.markPaid(ctx, actor, scopes, period, farmerID)
		if err != nil {
			item.ErrorCode = ErrorCode(err)
			item.Error = err.Error()
			out.Failed++
			uc.log.Warn().Err(err).
				Str("farmer_id", farmerID).
				Str("period", period.String()).
				Str("actor_id", actor.ID).
				Msg("pago masivo: productor no pagado")
		} else {
			item.Payment = toPaymentResponse(payment)
			out.Succeeded++
		}
		out.Items = append(out.Items, item)
	}
	uc.log.Info().
		Str("period", period.String()).
		Int("succeeded", out.Succeeded).
		Int("failed", out.Failed).
		Msg("pago masivo procesado")
	return out, nil
}

func (uc *UseCase) writeScopes(actor entity.Actor) (access.Scopes, error) {
	scopes, err := access.Resolve(actor)
	if err != nil {
		return access.Scopes{}, err
	}
	if !entity.CanWrite(actor.Role) {
		return access.Scopes{}, domain.ErrForbidden
	}
	return scopes, nil
}

func (uc *UseCase) markPaid(ctx context.Context, actor entity.Actor, scopes access.Scopes, period payroll.Period, farmerID string) (*entity.Payment, error) {
	if farmerID == "" {
		return nil, domain.ErrFarmerNotFound
	}
	var (
		farmer  *entity.Farmer
		payment *entity.Payment
	)
	err := uc.tx.RunPayment(ctx, func(
		farmerRepo repository.FarmerRepository,
		deliveryRepo repository.DeliveryRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		f, err := farmerRepo.GetForUpdate(ctx, farmerID)
		if err != nil {
			return err
		}
		if f == nil || !scopes.AllowsFarmer(f) {
			return domain.ErrFarmerNotFound
		}

		existing, err := paymentRepo.ListForFarmer(ctx, f.ID, period.Key(), period.EndKey())
		if err != nil {
			return err
		}
		if p := payroll.FindPayment(period, f.ID, existing); p != nil && p.Status == entity.PaymentCompleted {
			return domain.ErrDuplicatePayment
		}

		// El pago cubre todas las entregas del período. Si alguna queda fuera del
		// alcance del actor, lo registra alguien con alcance total.
		from, until := period.From(), period.Until()
		deliveries, err := deliveryRepo.List(ctx, access.AllowAll(),
			repository.DeliveryFilter{FarmerID: f.ID, From: &from, Until: &until}, 0, 0)
		if err != nil {
			return err
		}
		for _, d := range deliveries {
			if !scopes.AllowsDelivery(d) {
				return fmt.Errorf("%w: el productor tiene entregas en otros centros; requiere un rol con alcance total", domain.ErrConflict)
			}
		}
		row := payroll.ComputeRow(period, f, deliveries)
		if !row.Eligible {
			return domain.ErrNotPayable
		}

		now := uc.now()
		p := &entity.Payment{
			ID:                  uuid.New().String(),
			FarmerID:            f.ID,
			PeriodKey:           period.Key(),
			PeriodEndKey:        period.EndKey(),
			TotalQuantityLiters: row.TotalLiters,
			TotalAmount:         row.TotalAmount,
			RatePerLiter:        f.PricePerLiter,
			Status:              entity.PaymentCompleted,
			PaidAt:              &now,
			CreatedByID:         actor.ID,
			CreatedAt:           now,
		}
		if err := paymentRepo.Create(ctx, p); err != nil {
			return err
		}
		farmer, payment = f, p
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.PaymentRecorded(*farmer, *payment, period.Label())
	return payment, nil
}

// Export escribe en w la planilla de conciliación del período y devuelve el nombre de archivo.
func (uc *UseCase) Export(ctx context.Context, actor entity.Actor, q dto.PeriodQuery, w io.Writer) (string, error) {
	period, err := uc.ResolvePeriod(q)
	if err != nil {
		return "", err
	}
	rows, err := uc.reconcile(ctx, actor, period)
	if err != nil {
		return "", err
	}
	if err := uc.sheets.ExportPayments(w, period, rows, uc.cfg.Currency); err != nil {
		return "", fmt.Errorf("export payments: %w", err)
	}
	return ExportFilename(period), nil
}

// ExportFilename nombre del archivo exportado: payments_YYYYMMDD_YYYYMMDD.xlsx.
func ExportFilename(period payroll.Period) string {
	return fmt.Sprintf("payments_%s_%s.xlsx", period.Start.Format("20060102"), period.End.Format("20060102"))
}

// Receipt genera el comprobante PDF de un pago visible para el actor.
// Un pago fuera del alcance se informa como inexistente.
func (uc *UseCase) Receipt(ctx context.Context, actor entity.Actor, paymentID string) ([]byte, error) {
	scopes, err := access.Resolve(actor)
	if err != nil {
		return nil, err
	}
	payment, err := uc.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	farmer, err := uc.farmers.GetByID(ctx, payment.FarmerID)
	if err != nil {
		return nil, err
	}
	if farmer == nil || !scopes.AllowsPayment(payment, farmer.CollectionCenterID) {
		return nil, domain.ErrNotFound
	}
	return uc.receipts.GenerateReceipt(*farmer, *payment, uc.cfg.Currency)
}

// ErrorCode traduce un error de MarkPaid al código que se informa por productor.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrFarmerNotFound):
		return "FARMER_NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicatePayment):
		return "DUPLICATE_PAYMENT"
	case errors.Is(err, domain.ErrNotPayable):
		return "NOT_PAYABLE"
	case errors.Is(err, domain.ErrConflict):
		return "CONFLICT"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "CANCELED"
	default:
		return "INTERNAL"
	}
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	if p == nil {
		return nil
	}
	return &dto.PaymentResponse{
		ID:                  p.ID,
		FarmerID:            p.FarmerID,
		PeriodKey:           p.PeriodKey,
		TotalQuantityLiters: p.TotalQuantityLiters,
		TotalAmount:         p.TotalAmount,
		RatePerLiter:        p.RatePerLiter,
		Status:              p.Status,
		PaidAt:              p.PaidAt,
		CreatedAt:           p.CreatedAt,
	}
}

func toReconciliationRow(r payroll.Row) dto.ReconciliationRow {
	return dto.ReconciliationRow{
		FarmerID:      r.Farmer.ID,
		FarmerCode:    r.Farmer.FarmerCode,
		FarmerName:    r.Farmer.Name,
		PricePerLiter: r.Farmer.PricePerLiter,
		TotalLiters:   r.TotalLiters,
		TotalAmount:   r.TotalAmount,
		Status:        r.Status,
		PaidAt:        r.PaidAt,
		PaymentID:     r.PaymentID,
		IsPaid:        r.IsPaid,
		Eligible:      r.Eligible,
	}
}

func toTotals(t payroll.Totals) dto.ReconciliationTotals {
	return dto.ReconciliationTotals{
		Farmers:       t.Farmers,
		PaidCount:     t.PaidCount,
		TotalLiters:   t.TotalLiters,
		TotalAmount:   t.TotalAmount,
		PaidAmount:    t.PaidAmount,
		PendingAmount: t.PendingAmount,
	}
}
