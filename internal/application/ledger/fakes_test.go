package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/priscom/ledger-api/internal/domain"
	"github.com/priscom/ledger-api/internal/domain/entity"
	"github.com/priscom/ledger-api/internal/domain/repository"
	"github.com/priscom/ledger-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria: un memStore respalda todos los repos y el TxRunner le da
// semántica de rollback por snapshot, para probar el motor sin PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	balances  []entity.BalanceRecord
	movements []entity.StockMovement
	salesLog  []entity.Sale
	salesHist []entity.Sale
	purchLog  []entity.Purchase
	purchHist []entity.Purchase

	// Inyección de fallos para probar atomicidad.
	failUpsertWarehouse string
	failMovementCreate  bool
}

func (s *memStore) snapshot() *memStore {
	return &memStore{
		balances:  append([]entity.BalanceRecord(nil), s.balances...),
		movements: append([]entity.StockMovement(nil), s.movements...),
		salesLog:  append([]entity.Sale(nil), s.salesLog...),
		salesHist: append([]entity.Sale(nil), s.salesHist...),
		purchLog:  append([]entity.Purchase(nil), s.purchLog...),
		purchHist: append([]entity.Purchase(nil), s.purchHist...),
	}
}

func (s *memStore) restore(snap *memStore) {
	s.balances = snap.balances
	s.movements = snap.movements
	s.salesLog = snap.salesLog
	s.salesHist = snap.salesHist
	s.purchLog = snap.purchLog
	s.purchHist = snap.purchHist
}

func (s *memStore) repos() Repos {
	return Repos{
		Balances:         &memBalances{s: s},
		Movements:        &memMovements{s: s},
		SalesLog:         &memSalesLog{s: s},
		SalesHistory:     &memSalesHistory{s: s},
		PurchasesLog:     &memPurchasesLog{s: s},
		PurchasesHistory: &memPurchasesHistory{s: s},
	}
}

// memTx serializa transacciones y restaura el snapshot si fn falla.
type memTx struct {
	s    *memStore
	txMu sync.Mutex
}

func (t *memTx) Run(ctx context.Context, fn func(r Repos) error) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	t.s.mu.Lock()
	snap := t.s.snapshot()
	t.s.mu.Unlock()
	if err := fn(t.s.repos()); err != nil {
		t.s.mu.Lock()
		t.s.restore(snap)
		t.s.mu.Unlock()
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// BalanceRepository en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memBalances struct {
	s *memStore
}

var _ repository.BalanceRepository = (*memBalances)(nil)

func sameKey(b *entity.BalanceRecord, tenantID string, itemID int64, warehouse string) bool {
	return b.TenantID == tenantID && b.ItemID == itemID && (warehouse == "" || b.Warehouse == warehouse)
}

func (m *memBalances) Get(tenantID string, itemID int64, warehouse string, date time.Time) (*entity.BalanceRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.balances {
		b := &m.s.balances[i]
		if sameKey(b, tenantID, itemID, warehouse) && b.Warehouse == warehouse && b.SameDate(date) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memBalances) GetForUpdate(tenantID string, itemID int64, warehouse string, date time.Time) (*entity.BalanceRecord, error) {
	return m.Get(tenantID, itemID, warehouse, date)
}

func (m *memBalances) PreviousClosing(tenantID string, itemID int64, warehouse string, date time.Time) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var best *entity.BalanceRecord
	day := entity.DateOnly(date)
	for i := range m.s.balances {
		b := &m.s.balances[i]
		if b.TenantID == tenantID && b.ItemID == itemID && b.Warehouse == warehouse && b.LogDate.Before(day) {
			if best == nil || b.LogDate.After(best.LogDate) {
				best = b
			}
		}
	}
	if best == nil {
		return 0, nil
	}
	return best.ClosingBalance(), nil
}

func (m *memBalances) LatestOnOrBefore(tenantID string, itemID int64, warehouse string, date time.Time) (*entity.BalanceRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var best *entity.BalanceRecord
	day := entity.DateOnly(date)
	for i := range m.s.balances {
		b := &m.s.balances[i]
		if sameKey(b, tenantID, itemID, warehouse) && !b.LogDate.After(day) {
			if best == nil || b.LogDate.After(best.LogDate) {
				best = b
			}
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memBalances) Latest(tenantID string, itemID int64, warehouse string) (*entity.BalanceRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var best *entity.BalanceRecord
	for i := range m.s.balances {
		b := &m.s.balances[i]
		if sameKey(b, tenantID, itemID, warehouse) {
			if best == nil || b.LogDate.After(best.LogDate) {
				best = b
			}
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memBalances) LatestByName(tenantID, itemName string) (*entity.BalanceRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var best *entity.BalanceRecord
	for i := range m.s.balances {
		b := &m.s.balances[i]
		if b.TenantID == tenantID && b.ItemName == itemName {
			if best == nil || b.LogDate.After(best.LogDate) {
				best = b
			}
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memBalances) MaxItemID(tenantID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var max int64
	for i := range m.s.balances {
		if m.s.balances[i].TenantID == tenantID && m.s.balances[i].ItemID > max {
			max = m.s.balances[i].ItemID
		}
	}
	return max, nil
}

func (m *memBalances) Upsert(rec *entity.BalanceRecord) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failUpsertWarehouse != "" && rec.Warehouse == m.s.failUpsertWarehouse {
		return domain.ErrConcurrency
	}
	for i := range m.s.balances {
		b := &m.s.balances[i]
		if b.TenantID == rec.TenantID && b.ItemID == rec.ItemID && b.Warehouse == rec.Warehouse && b.SameDate(rec.LogDate) {
			m.s.balances[i] = *rec
			return nil
		}
	}
	m.s.balances = append(m.s.balances, *rec)
	return nil
}

func (m *memBalances) ListByDate(tenantID string, date time.Time) ([]*entity.BalanceRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*entity.BalanceRecord
	for i := range m.s.balances {
		b := m.s.balances[i]
		if b.TenantID == tenantID && b.SameDate(date) {
			cp := b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memBalances) ListLatest(tenantID string) ([]*entity.BalanceRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	type wkey struct {
		itemID    int64
		warehouse string
	}
	latest := make(map[wkey]entity.BalanceRecord)
	for i := range m.s.balances {
		b := m.s.balances[i]
		if b.TenantID != tenantID {
			continue
		}
		k := wkey{b.ItemID, b.Warehouse}
		if cur, ok := latest[k]; !ok || b.LogDate.After(cur.LogDate) {
			latest[k] = b
		}
	}
	var out []*entity.BalanceRecord
	for _, b := range latest {
		cp := b
		out = append(out, &cp)
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Resto de repos en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memMovements struct {
	s *memStore
}

var _ repository.MovementRepository = (*memMovements)(nil)

func (m *memMovements) Create(mov *entity.StockMovement) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failMovementCreate {
		return domain.ErrConcurrency
	}
	m.s.movements = append(m.s.movements, *mov)
	return nil
}

func (m *memMovements) List(tenantID string, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*entity.StockMovement
	for i := range m.s.movements {
		mv := m.s.movements[i]
		if mv.TenantID != tenantID {
			continue
		}
		if f.Kind != "" && mv.Kind != f.Kind {
			continue
		}
		if f.Warehouse != "" && mv.FromWarehouse != f.Warehouse && mv.ToWarehouse != f.Warehouse {
			continue
		}
		cp := mv
		out = append(out, &cp)
	}
	return out, nil
}

type memSalesLog struct {
	s *memStore
}

var _ repository.SalesLogRepository = (*memSalesLog)(nil)

func (m *memSalesLog) ListByDate(tenantID string, date time.Time) ([]*entity.Sale, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	day := entity.DateOnly(date)
	var out []*entity.Sale
	for i := range m.s.salesLog {
		sl := m.s.salesLog[i]
		if sl.TenantID == tenantID && entity.DateOnly(sl.SaleDate).Equal(day) {
			cp := sl
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memSalesLog) Delete(tenantID string, saleID int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.salesLog {
		if m.s.salesLog[i].TenantID == tenantID && m.s.salesLog[i].SaleID == saleID {
			m.s.salesLog = append(m.s.salesLog[:i], m.s.salesLog[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memSalesLog) Count(tenantID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for i := range m.s.salesLog {
		if m.s.salesLog[i].TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type memSalesHistory struct {
	s *memStore
}

var _ repository.SalesHistoryRepository = (*memSalesHistory)(nil)

func (m *memSalesHistory) Upsert(sale *entity.Sale) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.salesHist {
		if m.s.salesHist[i].TenantID == sale.TenantID && m.s.salesHist[i].SaleID == sale.SaleID {
			m.s.salesHist[i] = *sale
			return nil
		}
	}
	m.s.salesHist = append(m.s.salesHist, *sale)
	return nil
}

func (m *memSalesHistory) Exists(tenantID string, saleID int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.salesHist {
		if m.s.salesHist[i].TenantID == tenantID && m.s.salesHist[i].SaleID == saleID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memSalesHistory) Count(tenantID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for i := range m.s.salesHist {
		if m.s.salesHist[i].TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type memPurchasesLog struct {
	s *memStore
}

var _ repository.PurchasesLogRepository = (*memPurchasesLog)(nil)

func (m *memPurchasesLog) ListByDate(tenantID string, date time.Time) ([]*entity.Purchase, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	day := entity.DateOnly(date)
	var out []*entity.Purchase
	for i := range m.s.purchLog {
		p := m.s.purchLog[i]
		if p.TenantID == tenantID && entity.DateOnly(p.PurchaseDate).Equal(day) {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memPurchasesLog) Delete(tenantID string, purchaseID int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.purchLog {
		if m.s.purchLog[i].TenantID == tenantID && m.s.purchLog[i].PurchaseID == purchaseID {
			m.s.purchLog = append(m.s.purchLog[:i], m.s.purchLog[i+1:]...)
			return nil
		}
	}
	return nil
}

type memPurchasesHistory struct {
	s *memStore
}

var _ repository.PurchasesHistoryRepository = (*memPurchasesHistory)(nil)

func (m *memPurchasesHistory) Upsert(p *entity.Purchase) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.purchHist {
		if m.s.purchHist[i].TenantID == p.TenantID && m.s.purchHist[i].PurchaseID == p.PurchaseID {
			m.s.purchHist[i] = *p
			return nil
		}
	}
	m.s.purchHist = append(m.s.purchHist, *p)
	return nil
}

func (m *memPurchasesHistory) Exists(tenantID string, purchaseID int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.purchHist {
		if m.s.purchHist[i].TenantID == tenantID && m.s.purchHist[i].PurchaseID == purchaseID {
			return true, nil
		}
	}
	return false, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios, autorización y cuota
// ──────────────────────────────────────────────────────────────────────────────

type memUsers struct {
	accessCode string
}

var _ repository.UserRepository = (*memUsers)(nil)

func (m *memUsers) Create(*entity.User) error                   { return nil }
func (m *memUsers) GetByID(string) (*entity.User, error)        { return nil, nil }
func (m *memUsers) FindByUsername(string) (*entity.User, error) { return nil, nil }
func (m *memUsers) Update(*entity.User) error                   { return nil }
func (m *memUsers) AccessCode(tenantID string) (string, error)  { return m.accessCode, nil }

type memAuthz struct {
	deny map[string]bool // bodegas vetadas para no-MD
}

func (a *memAuthz) CanAccessWarehouse(tenantID, username, role, warehouse string) error {
	if role == entity.RoleMD {
		return nil
	}
	if a.deny[warehouse] {
		return domain.ErrForbidden
	}
	return nil
}

func (a *memAuthz) Warehouses(tenantID, username, role string, all []string) ([]string, error) {
	if role == entity.RoleMD {
		return all, nil
	}
	var out []string
	for _, w := range all {
		if !a.deny[w] {
			out = append(out, w)
		}
	}
	return out, nil
}

type memQuota struct {
	err error
}

func (q *memQuota) Ensure(tenantID string) error { return q.err }

// ──────────────────────────────────────────────────────────────────────────────
// Armado del servicio bajo prueba
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	store *memStore
	users *memUsers
	authz *memAuthz
	quota *memQuota
	svc   *Service
}

func newTestEnv() *testEnv {
	store := &memStore{}
	users := &memUsers{accessCode: "1234"}
	az := &memAuthz{deny: map[string]bool{}}
	quota := &memQuota{}
	repos := store.repos()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	svc := NewService(&memTx{s: store}, repos.Balances, repos.Movements, users, az, quota, log, Options{})
	return &testEnv{store: store, users: users, authz: az, quota: quota, svc: svc}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seed inserta una fila de saldo directa en el almacén.
func (e *testEnv) seed(rec entity.BalanceRecord) {
	rec.LogDate = entity.DateOnly(rec.LogDate)
	e.store.mu.Lock()
	e.store.balances = append(e.store.balances, rec)
	e.store.mu.Unlock()
}

func mdActor() Actor  { return Actor{TenantID: "t1", Username: "owner", Role: entity.RoleMD} }
func empActor() Actor { return Actor{TenantID: "t1", Username: "worker", Role: entity.RoleEmployee} }
