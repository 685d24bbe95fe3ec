package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/dto"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/ports"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/payroll"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

// LedgerTxRunner ejecuta fn en una transacción con los repos de productores, entregas y pagos.
// Las escrituras de entregas bloquean al productor igual que el registro de pagos.
type LedgerTxRunner interface {
	RunPayment(ctx context.Context, fn func(
		farmerRepo repository.FarmerRepository,
		deliveryRepo repository.DeliveryRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// DeliveryUseCase casos de uso de entregas de leche.
type DeliveryUseCase struct {
	repo     repository.DeliveryRepository
	farmers  repository.FarmerRepository
	centers  repository.CollectionCenterRepository
	tx       LedgerTxRunner
	notifier ports.Notifier
	loc      *time.Location
	now      func() time.Time
}

// NewDeliveryUseCase construye el caso de uso. loc es la zona horaria de los filtros por fecha.
func NewDeliveryUseCase(
	repo repository.DeliveryRepository,
	farmers repository.FarmerRepository,
	centers repository.CollectionCenterRepository,
	tx LedgerTxRunner,
	notifier ports.Notifier,
	loc *time.Location,
) *DeliveryUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DeliveryUseCase{repo: repo, farmers: farmers, centers: centers, tx: tx, notifier: notifier, loc: loc, now: time.Now}
}

// Create registra una entrega y avisa al productor.
//
// El productor debe ser visible para el actor y el centro (por defecto el del productor)
// debe estar activo y, para un OPERATOR, ser el propio. No se admite una fecha dentro de un
// período ya pagado. El aviso no bloquea ni revierte el registro.
func (uc *DeliveryUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateDeliveryRequest) (*dto.DeliveryResponse, error) {
	scopes, err := writeScopes(actor)
	if err != nil {
		return nil, err
	}
	if in.QuantityLiters.IsNegative() {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	quality := strings.ToUpper(strings.TrimSpace(in.Quality))
	if quality == "" {
		quality = entity.QualityGood
	}
	if !entity.IsValidQuality(quality) {
		return nil, fmt.Errorf("%w: calidad %q", domain.ErrInvalidInput, in.Quality)
	}

	farmer, err := uc.farmers.GetByID(ctx, in.FarmerID)
	if err != nil {
		return nil, err
	}
	if farmer == nil || !scopes.AllowsFarmer(farmer) {
		return nil, domain.ErrFarmerNotFound
	}

	centerID := strings.TrimSpace(in.CollectionCenterID)
	if centerID == "" {
		centerID = farmer.CollectionCenterID
	}
	if !scopes.Deliveries.AllowsCenter(centerID) {
		return nil, domain.ErrForbidden
	}
	center, err := uc.centers.GetByID(ctx, centerID)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, fmt.Errorf("%w: centro de acopio %q", domain.ErrInvalidInput, centerID)
	}
	if !center.IsActive {
		return nil, domain.ErrCenterInactive
	}

	now := uc.now()
	occurredAt := now
	if in.OccurredAt != nil {
		occurredAt = *in.OccurredAt
	}
	delivery := &entity.Delivery{
		ID:                 uuid.New().String(),
		FarmerID:           farmer.ID,
		CollectionCenterID: centerID,
		QuantityLiters:     in.QuantityLiters,
		Quality:            quality,
		Notes:              strings.TrimSpace(in.Notes),
		OccurredAt:         occurredAt,
		RecordedByID:       actor.ID,
		CreatedAt:          now,
	}
	err = uc.tx.RunPayment(ctx, func(
		farmerRepo repository.FarmerRepository,
		deliveryRepo repository.DeliveryRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		if _, err := farmerRepo.GetForUpdate(ctx, farmer.ID); err != nil {
			return err
		}
		if err := uc.ensureUnpaid(ctx, paymentRepo, farmer.ID, occurredAt); err != nil {
			return err
		}
		return deliveryRepo.Create(ctx, delivery)
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.DeliveryRecorded(*farmer, *delivery)
	return toDeliveryResponse(delivery), nil
}

// Update corrige cantidad, calidad, notas o fecha de una entrega visible.
// Una entrega incluida en un pago completado no cambia (ErrConflict), y tampoco
// puede moverse a un día ya pagado.
func (uc *DeliveryUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateDeliveryRequest) (*dto.DeliveryResponse, error) {
	scopes, err := writeScopes(actor)
	if err != nil {
		return nil, err
	}
	if in.QuantityLiters != nil && in.QuantityLiters.IsNegative() {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	quality := ""
	if in.Quality != nil {
		quality = strings.ToUpper(strings.TrimSpace(*in.Quality))
		if !entity.IsValidQuality(quality) {
			return nil, fmt.Errorf("%w: calidad %q", domain.ErrInvalidInput, *in.Quality)
		}
	}

	var updated *entity.Delivery
	err = uc.tx.RunPayment(ctx, func(
		farmerRepo repository.FarmerRepository,
		deliveryRepo repository.DeliveryRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		d, err := lockDelivery(ctx, scopes, farmerRepo, deliveryRepo, id)
		if err != nil {
			return err
		}
		if err := uc.ensureUnpaid(ctx, paymentRepo, d.FarmerID, d.OccurredAt); err != nil {
			return err
		}
		if in.QuantityLiters != nil {
			d.QuantityLiters = *in.QuantityLiters
		}
		if quality != "" {
			d.Quality = quality
		}
		if in.Notes != nil {
			d.Notes = strings.TrimSpace(*in.Notes)
		}
		if in.OccurredAt != nil {
			if err := uc.ensureUnpaid(ctx, paymentRepo, d.FarmerID, *in.OccurredAt); err != nil {
				return err
			}
			d.OccurredAt = *in.OccurredAt
		}
		if err := deliveryRepo.Update(ctx, d); err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDeliveryResponse(updated), nil
}

// Delete borra una entrega visible que no esté incluida en un pago completado.
func (uc *DeliveryUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	scopes, err := writeScopes(actor)
	if err != nil {
		return err
	}
	return uc.tx.RunPayment(ctx, func(
		farmerRepo repository.FarmerRepository,
		deliveryRepo repository.DeliveryRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		d, err := lockDelivery(ctx, scopes, farmerRepo, deliveryRepo, id)
		if err != nil {
			return err
		}
		if err := uc.ensureUnpaid(ctx, paymentRepo, d.FarmerID, d.OccurredAt); err != nil {
			return err
		}
		return deliveryRepo.Delete(ctx, id)
	})
}

// lockDelivery carga una entrega visible y bloquea a su productor hasta el fin de la transacción.
func lockDelivery(
	ctx context.Context,
	scopes access.Scopes,
	farmerRepo repository.FarmerRepository,
	deliveryRepo repository.DeliveryRepository,
	id string,
) (*entity.Delivery, error) {
	d, err := deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil || !scopes.AllowsDelivery(d) {
		return nil, domain.ErrNotFound
	}
	if _, err := farmerRepo.GetForUpdate(ctx, d.FarmerID); err != nil {
		return nil, err
	}
	return d, nil
}

// ensureUnpaid falla con ErrConflict si el día de at (zona de la cooperativa) ya está pagado.
func (uc *DeliveryUseCase) ensureUnpaid(ctx context.Context, payments repository.PaymentRepository, farmerID string, at time.Time) error {
	day := at.In(uc.loc).Format(payroll.DateLayout)
	p, err := payments.FindCompletedCovering(ctx, farmerID, day)
	if err != nil {
		return err
	}
	if p != nil {
		return fmt.Errorf("%w: la entrega del %s está incluida en el pago del período %s", domain.ErrConflict, day, p.PeriodKey)
	}
	return nil
}

// ListDeliveriesQuery filtros del listado de entregas. Start y End son YYYY-MM-DD e incluyen ambos días.
type ListDeliveriesQuery struct {
	Start    string
	End      string
	FarmerID string
	dto.PageRequest
}

// List lista las entregas visibles, más recientes primero.
func (uc *DeliveryUseCase) List(ctx context.Context, actor entity.Actor, q ListDeliveriesQuery) (*dto.DeliveryListResponse, error) {
	filter := repository.DeliveryFilter{FarmerID: q.FarmerID}
	if q.Start != "" || q.End != "" {
		start, end := q.Start, q.End
		if start == "" {
			start = end
		}
		if end == "" {
			end = start
		}
		period, err := payroll.ParsePeriod(start, end, uc.loc)
		if err != nil {
			return nil, err
		}
		from, until := period.From(), period.Until()
		filter.From, filter.Until = &from, &until
	}
	scopes, err := access.Resolve(actor)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, err := uc.repo.List(ctx, scopes.Deliveries, filter, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DeliveryResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDeliveryResponse(d))
	}
	return &dto.DeliveryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

func toDeliveryResponse(d *entity.Delivery) *dto.DeliveryResponse {
	if d == nil {
		return nil
	}
	return &dto.DeliveryResponse{
		ID:                 d.ID,
		FarmerID:           d.FarmerID,
		CollectionCenterID: d.CollectionCenterID,
		QuantityLiters:     d.QuantityLiters,
		Quality:            d.Quality,
		Notes:              d.Notes,
		OccurredAt:         d.OccurredAt,
		RecordedByID:       d.RecordedByID,
		CreatedAt:          d.CreatedAt,
	}
}
