package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/priscom/ledger-api/internal/domain"
	"github.com/priscom/ledger-api/internal/domain/entity"
)

// CloseSummary resultado de un cierre de día.
type CloseSummary struct {
	UpdatedItems   int `json:"updated_items"`
	MovedSales     int `json:"moved_sales"`
	MovedPurchases int `json:"moved_purchases"`
}

// itemKey agrupa deltas por artículo durante el cierre.
type itemKey struct {
	itemID   int64
	itemName string
}

type itemDelta struct {
	in, out, ret int64
	warehouse    string
}

// CloseDay absorbe en el libro las ventas y compras del día aún no aplicadas
// y migra esas filas fuente al histórico append-only, borrando el log mutable
// en la misma transacción. Idempotente: una fila ya presente en el histórico
// no vuelve a sumarse (marcador de deduplicación), y el upsert del histórico
// es seguro de re-ejecutar. Los empleados solo pueden cerrar el día actual.
func (s *Service) CloseDay(ctx context.Context, actor Actor, date time.Time) (*CloseSummary, error) {
	if err := assertMDOrToday(actor, date); err != nil {
		return nil, err
	}
	if err := s.quota.Ensure(actor.TenantID); err != nil {
		return nil, err
	}
	date = entity.DateOnly(date)

	// El cierre toca muchas claves en una sola operación: tenant en exclusiva.
	unlock := s.locks.lockTenant(actor.TenantID)
	defer unlock()

	summary := &CloseSummary{}
	err := s.runTx(ctx, func(r Repos) error {
		*summary = CloseSummary{}

		sales, err := r.SalesLog.ListByDate(actor.TenantID, date)
		if err != nil {
			return err
		}
		purchases, err := r.PurchasesLog.ListByDate(actor.TenantID, date)
		if err != nil {
			return err
		}

		// Deltas por artículo, saltando filas ya absorbidas en cierres previos.
		deltas := make(map[itemKey]*itemDelta)
		for _, p := range purchases {
			folded, err := r.PurchasesHistory.Exists(actor.TenantID, p.PurchaseID)
			if err != nil {
				return err
			}
			if folded {
				continue
			}
			d := deltaFor(deltas, itemKey{p.ItemID, p.ItemName}, p.Warehouse)
			d.in += p.SuppliedQuantity
		}
		for _, sl := range sales {
			folded, err := r.SalesHistory.Exists(actor.TenantID, sl.SaleID)
			if err != nil {
				return err
			}
			if folded {
				continue
			}
			d := deltaFor(deltas, itemKey{sl.ItemID, sl.ItemName}, sl.Warehouse)
			d.out += sl.Quantity
			d.ret += sl.ReturnQuantity
		}

		for k, d := range deltas {
			itemRow, err := resolveCloseItem(r, actor.TenantID, k)
			if err != nil {
				return err
			}
			warehouse := d.warehouse
			if warehouse == "" {
				warehouse = itemRow.Warehouse
			}
			if _, err := upsertDaily(r, actor.TenantID, itemRow, itemRow.ItemID, warehouse, date, d.in, d.out, d.ret); err != nil {
				return err
			}
			summary.UpdatedItems++
		}

		// Migración al histórico: upsert + delete como par transaccional.
		// Una fila nunca queda en ninguna tabla ni en ambas tras el cierre.
		moved, err := moveSales(r, actor.TenantID, sales)
		if err != nil {
			return err
		}
		summary.MovedSales = moved
		moved, err = movePurchases(r, actor.TenantID, purchases)
		if err != nil {
			return err
		}
		summary.MovedPurchases = moved
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", actor.TenantID).Time("date", date).
		Int("updated_items", summary.UpdatedItems).
		Int("moved_sales", summary.MovedSales).
		Int("moved_purchases", summary.MovedPurchases).
		Msg("cierre de día aplicado")
	return summary, nil
}

// MoveToHistory barre las filas fuente del día al histórico sin volver a
// aplicar deltas al libro.
func (s *Service) MoveToHistory(ctx context.Context, actor Actor, date time.Time) (*CloseSummary, error) {
	if err := assertMDOrToday(actor, date); err != nil {
		return nil, err
	}
	date = entity.DateOnly(date)

	unlock := s.locks.lockTenant(actor.TenantID)
	defer unlock()

	summary := &CloseSummary{}
	err := s.runTx(ctx, func(r Repos) error {
		*summary = CloseSummary{}
		sales, err := r.SalesLog.ListByDate(actor.TenantID, date)
		if err != nil {
			return err
		}
		purchases, err := r.PurchasesLog.ListByDate(actor.TenantID, date)
		if err != nil {
			return err
		}
		if summary.MovedSales, err = moveSales(r, actor.TenantID, sales); err != nil {
			return err
		}
		if summary.MovedPurchases, err = movePurchases(r, actor.TenantID, purchases); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func deltaFor(deltas map[itemKey]*itemDelta, k itemKey, warehouse string) *itemDelta {
	d, ok := deltas[k]
	if !ok {
		d = &itemDelta{warehouse: warehouse}
		deltas[k] = d
	}
	return d
}

// resolveCloseItem localiza la fila de saldo del artículo por id, o por
// nombre cuando la fila fuente no trae id.
func resolveCloseItem(r Repos, tenantID string, k itemKey) (*entity.BalanceRecord, error) {
	if k.itemID != 0 {
		row, err := r.Balances.Latest(tenantID, k.itemID, "")
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, fmt.Errorf("%w: item_id=%d", domain.ErrNotFound, k.itemID)
		}
		return row, nil
	}
	row, err := r.Balances.LatestByName(tenantID, k.itemName)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: artículo %q", domain.ErrNotFound, k.itemName)
	}
	return row, nil
}

func moveSales(r Repos, tenantID string, sales []*entity.Sale) (int, error) {
	moved := 0
	for _, sl := range sales {
		if err := r.SalesHistory.Upsert(sl); err != nil {
			return moved, err
		}
		if err := r.SalesLog.Delete(tenantID, sl.SaleID); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

func movePurchases(r Repos, tenantID string, purchases []*entity.Purchase) (int, error) {
	moved := 0
	for _, p := range purchases {
		if err := r.PurchasesHistory.Upsert(p); err != nil {
			return moved, err
		}
		if err := r.PurchasesLog.Delete(tenantID, p.PurchaseID); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}
