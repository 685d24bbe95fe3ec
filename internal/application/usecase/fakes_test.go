package usecase_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/farmercode"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

// ── centros ──

type memCenters struct {
	mu   sync.Mutex
	byID map[string]*entity.CollectionCenter
	// inUse simula centros con productores, entregas o usuarios asignados.
	inUse map[string]bool
}

func newCenters(list ...*entity.CollectionCenter) *memCenters {
	m := &memCenters{byID: map[string]*entity.CollectionCenter{}}
	for _, c := range list {
		m.byID[c.ID] = c
	}
	return m
}

func (m *memCenters) Create(_ context.Context, c *entity.CollectionCenter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[c.ID] = c
	return nil
}

func (m *memCenters) GetByID(_ context.Context, id string) (*entity.CollectionCenter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}

func (m *memCenters) GetByCode(_ context.Context, code string) (*entity.CollectionCenter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memCenters) List(_ context.Context, includeInactive bool) ([]*entity.CollectionCenter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.CollectionCenter
	for _, c := range m.byID {
		if c.IsActive || includeInactive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCenters) Update(_ context.Context, c *entity.CollectionCenter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[c.ID] = c
	return nil
}

func (m *memCenters) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	if m.inUse[id] {
		return domain.ErrConflict
	}
	delete(m.byID, id)
	return nil
}

// ── productores y contador de códigos ──

type memFarmers struct {
	mu      sync.Mutex
	byID    map[string]*entity.Farmer
	counter int64
	resyncs int
	// alwaysDuplicate simula una tabla donde todo código choca.
	alwaysDuplicate bool
	// referenced simula productores con entregas o pagos (llave foránea).
	referenced map[string]bool
	locks      int
}

func newFarmers(list ...*entity.Farmer) *memFarmers {
	m := &memFarmers{byID: map[string]*entity.Farmer{}}
	for _, f := range list {
		m.byID[f.ID] = f
	}
	return m
}

func (m *memFarmers) Create(_ context.Context, f *entity.Farmer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.alwaysDuplicate {
		return domain.ErrDuplicate
	}
	for _, old := range m.byID {
		if old.FarmerCode == f.FarmerCode {
			return domain.ErrDuplicate
		}
	}
	cp := *f
	m.byID[f.ID] = &cp
	return nil
}

func (m *memFarmers) GetByID(_ context.Context, id string) (*entity.Farmer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (m *memFarmers) GetForUpdate(ctx context.Context, id string) (*entity.Farmer, error) {
	m.mu.Lock()
	m.locks++
	m.mu.Unlock()
	return m.GetByID(ctx, id)
}

func (m *memFarmers) Update(_ context.Context, f *entity.Farmer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[f.ID]; !ok {
		return domain.ErrFarmerNotFound
	}
	cp := *f
	m.byID[f.ID] = &cp
	return nil
}

func (m *memFarmers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrFarmerNotFound
	}
	if m.referenced[id] {
		return domain.ErrConflict
	}
	delete(m.byID, id)
	return nil
}

func (m *memFarmers) List(ctx context.Context, scope access.Scope, limit, offset int) ([]*entity.Farmer, error) {
	all, _ := m.ListAll(ctx, scope)
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memFarmers) ListAll(_ context.Context, scope access.Scope) ([]*entity.Farmer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Farmer
	for _, f := range m.byID {
		if scope.AllowsCenter(f.CollectionCenterID) {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FarmerCode < out[j].FarmerCode })
	return out, nil
}

func (m *memFarmers) SetActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.byID[id]; ok {
		f.IsActive = active
	}
	return nil
}

func (m *memFarmers) NextFarmerNumber(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return m.counter, nil
}

func (m *memFarmers) ResyncFarmerNumber(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resyncs++
	codes := make([]string, 0, len(m.byID))
	for _, f := range m.byID {
		codes = append(codes, f.FarmerCode)
	}
	if highest := farmercode.MaxSuffix(codes); highest > m.counter {
		m.counter = highest
	}
	return nil
}

func (m *memFarmers) codes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, f := range m.byID {
		out = append(out, f.FarmerCode)
	}
	sort.Strings(out)
	return out
}

// memFarmerTx pasa el mismo repo como productores y contador.
// El contador no se revierte: una secuencia consumida no se reutiliza.
type memFarmerTx struct{ m *memFarmers }

func (t memFarmerTx) RunFarmer(ctx context.Context, fn func(repository.FarmerRepository, repository.FarmerCodeSequence) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(t.m, t.m)
}

// ── entregas ──

type memDeliveries struct {
	mu         sync.Mutex
	items      []*entity.Delivery
	lastFilter repository.DeliveryFilter
	lastScope  access.Scope
}

func (m *memDeliveries) Create(_ context.Context, d *entity.Delivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, d)
	return nil
}

func (m *memDeliveries) GetByID(_ context.Context, id string) (*entity.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.items {
		if d.ID == id {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memDeliveries) Update(_ context.Context, d *entity.Delivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, old := range m.items {
		if old.ID == d.ID {
			cp := *d
			m.items[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memDeliveries) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.items {
		if d.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memDeliveries) byID(id string) *entity.Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.items {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (m *memDeliveries) List(_ context.Context, scope access.Scope, f repository.DeliveryFilter, limit, offset int) ([]*entity.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter, m.lastScope = f, scope
	var out []*entity.Delivery
	for _, d := range m.items {
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

// ── pagos ──

// memPayments solo responde qué pagos completados cubren un día.
type memPayments struct {
	mu    sync.Mutex
	items []*entity.Payment
}

func (m *memPayments) Create(_ context.Context, p *entity.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, p)
	return nil
}

func (m *memPayments) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memPayments) ListByPeriodKeys(context.Context, access.Scope, string, string) ([]*entity.Payment, error) {
	return nil, nil
}

func (m *memPayments) ListForFarmer(context.Context, string, string, string) ([]*entity.Payment, error) {
	return nil, nil
}

func (m *memPayments) FindCompletedCovering(_ context.Context, farmerID, dayKey string) (*entity.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.FarmerID == farmerID && p.Covers(dayKey) {
			return p, nil
		}
	}
	return nil, nil
}

// memLedgerTx pasa los mismos repos en memoria; fn escribe al final, no hay nada que deshacer.
type memLedgerTx struct {
	farmers    *memFarmers
	deliveries *memDeliveries
	payments   *memPayments
}

func (t memLedgerTx) RunPayment(ctx context.Context, fn func(repository.FarmerRepository, repository.DeliveryRepository, repository.PaymentRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(t.farmers, t.deliveries, t.payments)
}

// ── notifier ──

type recordingNotifier struct {
	mu         sync.Mutex
	deliveries []entity.Delivery
}

func (n *recordingNotifier) DeliveryRecorded(_ entity.Farmer, d entity.Delivery) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deliveries = append(n.deliveries, d)
}

func (n *recordingNotifier) PaymentRecorded(entity.Farmer, entity.Payment, string) {}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.deliveries)
}
