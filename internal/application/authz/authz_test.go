package authz

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priscom/ledger-api/internal/domain"
	"github.com/priscom/ledger-api/internal/domain/entity"
)

// ─────────────────────────────────────────────
// Dobles de prueba
// ─────────────────────────────────────────────

type fakeAccess struct {
	granted map[string]bool // username|warehouse
	list    []string
	err     error
}

func (f *fakeAccess) HasAccess(tenantID, username, warehouse string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.granted[username+"|"+warehouse], nil
}

func (f *fakeAccess) ListWarehouses(tenantID, username string) ([]string, error) {
	return f.list, f.err
}

type fakeSubs struct {
	sub *entity.Subscription
	err error
}

func (f *fakeSubs) Latest(tenantID string) (*entity.Subscription, error) { return f.sub, f.err }

type fakeCounter struct {
	n   int64
	err error
}

func (f *fakeCounter) Count(tenantID string) (int64, error) { return f.n, f.err }

type fakeSalesLog struct{ fakeCounter }

func (f *fakeSalesLog) ListByDate(string, time.Time) ([]*entity.Sale, error) { return nil, nil }
func (f *fakeSalesLog) Delete(string, int64) error                           { return nil }

type fakeSalesHistory struct{ fakeCounter }

func (f *fakeSalesHistory) Upsert(*entity.Sale) error          { return nil }
func (f *fakeSalesHistory) Exists(string, int64) (bool, error) { return false, nil }

// ─────────────────────────────────────────────
// WarehouseAuthorizer
// ─────────────────────────────────────────────

func TestCanAccessWarehouse_MDAccedeATodas(t *testing.T) {
	a := NewWarehouseAuthorizer(&fakeAccess{granted: map[string]bool{}})
	err := a.CanAccessWarehouse("t1", "owner", entity.RoleMD, "cualquiera")
	assert.NoError(t, err)
}

func TestCanAccessWarehouse_EmpleadoConcedido(t *testing.T) {
	a := NewWarehouseAuthorizer(&fakeAccess{granted: map[string]bool{"worker|central": true}})
	assert.NoError(t, a.CanAccessWarehouse("t1", "worker", entity.RoleEmployee, "central"))
}

func TestCanAccessWarehouse_EmpleadoSinConcesion(t *testing.T) {
	a := NewWarehouseAuthorizer(&fakeAccess{granted: map[string]bool{"worker|central": true}})
	err := a.CanAccessWarehouse("t1", "worker", entity.RoleEmployee, "norte")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestWarehouses_MDVeTodas(t *testing.T) {
	a := NewWarehouseAuthorizer(&fakeAccess{list: []string{"central"}})
	all := []string{"central", "norte", "sur"}
	got, err := a.Warehouses("t1", "owner", entity.RoleMD, all)
	require.NoError(t, err)
	assert.Equal(t, all, got)
}

func TestWarehouses_EmpleadoSoloConcedidas(t *testing.T) {
	a := NewWarehouseAuthorizer(&fakeAccess{list: []string{"central"}})
	got, err := a.Warehouses("t1", "worker", entity.RoleEmployee, []string{"central", "norte"})
	require.NoError(t, err)
	assert.Equal(t, []string{"central"}, got)
}

// ─────────────────────────────────────────────
// PlanGuard
// ─────────────────────────────────────────────

func activePro() *entity.Subscription {
	return &entity.Subscription{TenantID: "t1", Plan: "pro", IsActive: true}
}

func TestPlanGuard_ProActivoSinLimite(t *testing.T) {
	g := NewPlanGuard(
		&fakeSubs{sub: activePro()},
		&fakeSalesLog{fakeCounter{n: 5000}},
		&fakeSalesHistory{fakeCounter{n: 5000}},
	)
	assert.NoError(t, g.Ensure("t1"))
}

func TestPlanGuard_SinSuscripcionEsFree(t *testing.T) {
	g := NewPlanGuard(
		&fakeSubs{},
		&fakeSalesLog{fakeCounter{n: freePlanMaxEntries + 1}},
		&fakeSalesHistory{fakeCounter{}},
	)
	assert.ErrorIs(t, g.Ensure("t1"), domain.ErrQuotaExceeded)
}

func TestPlanGuard_ProInactivoSeLimita(t *testing.T) {
	sub := activePro()
	sub.IsActive = false
	g := NewPlanGuard(
		&fakeSubs{sub: sub},
		&fakeSalesLog{fakeCounter{}},
		&fakeSalesHistory{fakeCounter{n: freePlanMaxEntries + 1}},
	)
	assert.ErrorIs(t, g.Ensure("t1"), domain.ErrQuotaExceeded)
}

func TestPlanGuard_FreeDentroDelLimite(t *testing.T) {
	g := NewPlanGuard(
		&fakeSubs{sub: &entity.Subscription{TenantID: "t1", Plan: "free", IsActive: true}},
		&fakeSalesLog{fakeCounter{n: freePlanMaxEntries}},
		&fakeSalesHistory{fakeCounter{n: freePlanMaxEntries}},
	)
	assert.NoError(t, g.Ensure("t1"), "el tope es estricto, llegar al límite aún pasa")
}

func TestPlanGuard_ErrorDeRepositorioSePropaga(t *testing.T) {
	boom := errors.New("db caída")
	g := NewPlanGuard(&fakeSubs{err: boom}, &fakeSalesLog{}, &fakeSalesHistory{})
	assert.ErrorIs(t, g.Ensure("t1"), boom)
}
