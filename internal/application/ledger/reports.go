package ledger

import (
	"context"
	"time"

	"github.com/priscom/ledger-api/internal/domain/entity"
	"github.com/priscom/ledger-api/internal/domain/repository"
)

// Lecturas de reporte: sin bloqueo, sobre estado confirmado.

// DailyLogs devuelve todas las filas de saldo del tenant para una fecha.
func (s *Service) DailyLogs(ctx context.Context, tenantID string, date time.Time) ([]*entity.BalanceRecord, error) {
	return s.balances.ListByDate(tenantID, entity.DateOnly(date))
}

// LowStockItem artículo cuyo cierre más reciente está en o bajo su punto de
// reorden.
type LowStockItem struct {
	ItemName       string `json:"item_name"`
	Warehouse      string `json:"warehouse_name"`
	ClosingBalance int64  `json:"closing_balance"`
	ReorderLevel   int64  `json:"reorder_level"`
}

// LowStock lista los artículos por debajo del punto de reorden.
func (s *Service) LowStock(ctx context.Context, tenantID string) ([]LowStockItem, error) {
	rows, err := s.balances.ListLatest(tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]LowStockItem, 0)
	for _, r := range rows {
		if r.ClosingBalance() <= r.ReorderLevel {
			out = append(out, LowStockItem{
				ItemName:       r.ItemName,
				Warehouse:      r.Warehouse,
				ClosingBalance: r.ClosingBalance(),
				ReorderLevel:   r.ReorderLevel,
			})
		}
	}
	return out, nil
}

// ItemsMap devuelve el catálogo derivado: identidad y metadatos del artículo
// según su fila de saldo más reciente, opcionalmente filtrado por bodega.
func (s *Service) ItemsMap(ctx context.Context, tenantID, warehouse string) ([]*entity.Item, error) {
	rows, err := s.balances.ListLatest(tenantID)
	if err != nil {
		return nil, err
	}
	items := make([]*entity.Item, 0, len(rows))
	for _, r := range rows {
		if warehouse != "" && r.Warehouse != warehouse {
			continue
		}
		items = append(items, &entity.Item{
			ItemID:       r.ItemID,
			Name:         r.ItemName,
			Warehouse:    r.Warehouse,
			Price:        r.Price,
			ReorderLevel: r.ReorderLevel,
			Barcode:      r.Barcode,
		})
	}
	return items, nil
}

// Warehouses lista las bodegas visibles para el actor: todas las del tenant
// para el MD, las concedidas para un empleado.
func (s *Service) Warehouses(ctx context.Context, actor Actor) ([]string, error) {
	rows, err := s.balances.ListLatest(actor.TenantID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	all := make([]string, 0)
	for _, r := range rows {
		if !seen[r.Warehouse] {
			seen[r.Warehouse] = true
			all = append(all, r.Warehouse)
		}
	}
	return s.authz.Warehouses(actor.TenantID, actor.Username, actor.Role, all)
}

// Movements lista el log inmutable de movimientos con filtros opcionales.
func (s *Service) Movements(ctx context.Context, tenantID string, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	return s.movements.List(tenantID, filter)
}
