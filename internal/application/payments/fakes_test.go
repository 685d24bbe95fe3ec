package payments_test

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/payroll"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

// memStore es una base de datos en memoria compartida por los repos falsos.
// calls cuenta los accesos para verificar validaciones previas a la consulta.
type memStore struct {
	mu         sync.Mutex
	farmers    map[string]*entity.Farmer
	deliveries []*entity.Delivery
	payments   []*entity.Payment
	calls      int
	createErr  error
}

func newStore() *memStore {
	return &memStore{farmers: map[string]*entity.Farmer{}}
}

func (s *memStore) hit() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *memStore) paymentsFor(farmerID string) []*entity.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Payment
	for _, p := range s.payments {
		if p.FarmerID == farmerID {
			out = append(out, p)
		}
	}
	return out
}

// ── farmers ──

type farmerRepo struct{ s *memStore }

func (r farmerRepo) Create(_ context.Context, f *entity.Farmer) error {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.farmers[f.ID] = f
	return nil
}

func (r farmerRepo) GetByID(_ context.Context, id string) (*entity.Farmer, error) {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.farmers[id], nil
}

func (r farmerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Farmer, error) {
	return r.GetByID(ctx, id)
}

func (r farmerRepo) List(ctx context.Context, scope access.Scope, _, _ int) ([]*entity.Farmer, error) {
	return r.ListAll(ctx, scope)
}

func (r farmerRepo) ListAll(_ context.Context, scope access.Scope) ([]*entity.Farmer, error) {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Farmer
	for _, f := range r.s.farmers {
		if scope.AllowsCenter(f.CollectionCenterID) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FarmerCode < out[j].FarmerCode })
	return out, nil
}

func (r farmerRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if f, ok := r.s.farmers[id]; ok {
		f.IsActive = active
	}
	return nil
}

func (r farmerRepo) Update(_ context.Context, f *entity.Farmer) error {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.farmers[f.ID]; !ok {
		return domain.ErrFarmerNotFound
	}
	r.s.farmers[f.ID] = f
	return nil
}

func (r farmerRepo) Delete(_ context.Context, id string) error {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.farmers, id)
	return nil
}

// ── deliveries ──

type deliveryRepo struct{ s *memStore }

func (r deliveryRepo) Create(_ context.Context, d *entity.Delivery) error {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deliveries = append(r.s.deliveries, d)
	return nil
}

func (r deliveryRepo) GetByID(_ context.Context, id string) (*entity.Delivery, error) {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.deliveries {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (r deliveryRepo) Update(_ context.Context, d *entity.Delivery) error {
	r.s.hit()
	return nil
}

func (r deliveryRepo) Delete(_ context.Context, id string) error {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, d := range r.s.deliveries {
		if d.ID == id {
			r.s.deliveries = append(r.s.deliveries[:i], r.s.deliveries[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r deliveryRepo) List(_ context.Context, scope access.Scope, f repository.DeliveryFilter, _, _ int) ([]*entity.Delivery, error) {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Delivery
	for _, d := range r.s.deliveries {
		if !scope.AllowsCenter(d.CollectionCenterID) {
			continue
		}
		if f.FarmerID != "" && d.FarmerID != f.FarmerID {
			continue
		}
		if f.From != nil && d.OccurredAt.Before(*f.From) {
			continue
		}
		if f.Until != nil && !d.OccurredAt.Before(*f.Until) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// ── payments ──

type paymentRepo struct{ s *memStore }

func (r paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createErr != nil {
		return r.s.createErr
	}
	for _, old := range r.s.payments {
		if old.FarmerID == p.FarmerID && old.PeriodKey == p.PeriodKey && old.Status == entity.PaymentCompleted {
			return domain.ErrDuplicatePayment
		}
	}
	r.s.payments = append(r.s.payments, p)
	return nil
}

func (r paymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r paymentRepo) ListByPeriodKeys(_ context.Context, scope access.Scope, startKey, endKey string) ([]*entity.Payment, error) {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.s.payments {
		f := r.s.farmers[p.FarmerID]
		if f == nil || !scope.AllowsCenter(f.CollectionCenterID) {
			continue
		}
		if p.PeriodKey >= startKey && p.PeriodKey <= endKey {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r paymentRepo) ListForFarmer(_ context.Context, farmerID, startKey, endKey string) ([]*entity.Payment, error) {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.s.payments {
		if p.FarmerID == farmerID && p.PeriodKey >= startKey && p.PeriodKey <= endKey {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r paymentRepo) FindCompletedCovering(_ context.Context, farmerID, dayKey string) (*entity.Payment, error) {
	r.s.hit()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.FarmerID == farmerID && p.Covers(dayKey) {
			return p, nil
		}
	}
	return nil, nil
}

// memTx ejecuta fn con los mismos repos. Create es el último paso de fn, así que
// no hace falta deshacer nada cuando fn falla.
type memTx struct{ s *memStore }

func (t memTx) RunPayment(ctx context.Context, fn func(repository.FarmerRepository, repository.DeliveryRepository, repository.PaymentRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(farmerRepo{t.s}, deliveryRepo{t.s}, paymentRepo{t.s})
}

// ── notifier y documentos ──

type sentPayment struct {
	farmer  entity.Farmer
	payment entity.Payment
	label   string
}

type recordingNotifier struct {
	mu       sync.Mutex
	payments []sentPayment
}

func (n *recordingNotifier) DeliveryRecorded(entity.Farmer, entity.Delivery) {}

func (n *recordingNotifier) PaymentRecorded(f entity.Farmer, p entity.Payment, label string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payments = append(n.payments, sentPayment{farmer: f, payment: p, label: label})
}

func (n *recordingNotifier) sent() []sentPayment {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentPayment(nil), n.payments...)
}

type fakeSheet struct {
	period payroll.Period
	rows   []payroll.Row
}

func (f *fakeSheet) ExportPayments(w io.Writer, period payroll.Period, rows []payroll.Row, currency string) error {
	f.period, f.rows = period, rows
	_, err := io.WriteString(w, "xlsx:"+currency)
	return err
}

type fakeReceipts struct{ called int }

func (f *fakeReceipts) GenerateReceipt(farmer entity.Farmer, payment entity.Payment, currency string) ([]byte, error) {
	f.called++
	return []byte("%PDF " + farmer.FarmerCode + " " + payment.ID + " " + currency), nil
}
