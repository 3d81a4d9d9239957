package authz

import (
	"fmt"

	"github.com/priscom/ledger-api/internal/domain"
	"github.com/priscom/ledger-api/internal/domain/entity"
	"github.com/priscom/ledger-api/internal/domain/repository"
)

// WarehouseAuthorizer resuelve si un actor puede tocar una bodega.
// El MD accede a todas las bodegas de su tenant; los empleados solo a las
// concedidas en warehouse_access.
type WarehouseAuthorizer struct {
	access repository.WarehouseAccessRepository
}

// NewWarehouseAuthorizer construye el autorizador.
func NewWarehouseAuthorizer(access repository.WarehouseAccessRepository) *WarehouseAuthorizer {
	return &WarehouseAuthorizer{access: access}
}

// CanAccessWarehouse devuelve domain.ErrForbidden si el actor no tiene
// acceso concedido a la bodega.
func (a *WarehouseAuthorizer) CanAccessWarehouse(tenantID, username, role, warehouse string) error {
	if role == entity.RoleMD {
		return nil
	}
	ok, err := a.access.HasAccess(tenantID, username, warehouse)
	if err != nil {
		return fmt.Errorf("verificar acceso a bodega: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: sin acceso a la bodega %q", domain.ErrForbidden, warehouse)
	}
	return nil
}

// Warehouses lista las bodegas visibles para el actor.
func (a *WarehouseAuthorizer) Warehouses(tenantID, username, role string, all []string) ([]string, error) {
	if role == entity.RoleMD {
		return all, nil
	}
	return a.access.ListWarehouses(tenantID, username)
}
