package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/priscom/ledger-api/internal/domain/entity"
	"github.com/priscom/ledger-api/internal/domain/repository"
)

var _ repository.PurchasesLogRepository = (*PurchasesLogRepo)(nil)
var _ repository.PurchasesHistoryRepository = (*PurchasesHistoryRepo)(nil)

const purchaseColumns = `purchase_id, tenant_id, item_id, item_name, warehouse_name,
	supplied_quantity, unit_cost, purchase_date, vendor, recorded_by, created_at`

// PurchasesLogRepo log mutable de compras del día sobre PostgreSQL (usable con pool o tx).
type PurchasesLogRepo struct {
	q Querier
}

// NewPurchasesLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchasesLogRepository(q Querier) *PurchasesLogRepo {
	return &PurchasesLogRepo{q: q}
}

// ListByDate devuelve las compras del tenant para una fecha.
func (r *PurchasesLogRepo) ListByDate(tenantID string, date time.Time) ([]*entity.Purchase, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM purchases_log
		WHERE tenant_id = $1 AND purchase_date = $2
		ORDER BY purchase_id`
	rows, err := r.q.Query(context.Background(), query, tenantID, entity.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.PurchaseID, &p.TenantID, &p.ItemID, &p.ItemName, &p.Warehouse,
			&p.SuppliedQuantity, &p.UnitCost, &p.PurchaseDate, &p.Vendor, &p.RecordedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete elimina una compra del log (tras migrarla al histórico).
func (r *PurchasesLogRepo) Delete(tenantID string, purchaseID int64) error {
	query := `DELETE FROM purchases_log WHERE tenant_id = $1 AND purchase_id = $2`
	if _, err := r.q.Exec(context.Background(), query, tenantID, purchaseID); err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

// PurchasesHistoryRepo histórico append-only de compras sobre PostgreSQL.
type PurchasesHistoryRepo struct {
	q Querier
}

// NewPurchasesHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchasesHistoryRepository(q Querier) *PurchasesHistoryRepo {
	return &PurchasesHistoryRepo{q: q}
}

// Upsert inserta la compra en el histórico; con clave (purchase_id, tenant_id)
// re-ejecutar es seguro.
func (r *PurchasesHistoryRepo) Upsert(p *entity.Purchase) error {
	query := `
		INSERT INTO purchases_history (purchase_id, tenant_id, item_id, item_name, warehouse_name,
			supplied_quantity, unit_cost, purchase_date, vendor, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (purchase_id, tenant_id)
		DO UPDATE SET
			item_id = EXCLUDED.item_id,
			item_name = EXCLUDED.item_name,
			warehouse_name = EXCLUDED.warehouse_name,
			supplied_quantity = EXCLUDED.supplied_quantity,
			unit_cost = EXCLUDED.unit_cost,
			purchase_date = EXCLUDED.purchase_date,
			vendor = EXCLUDED.vendor,
			recorded_by = EXCLUDED.recorded_by`
	_, err := r.q.Exec(context.Background(), query,
		p.PurchaseID, p.TenantID, p.ItemID, p.ItemName, p.Warehouse,
		p.SuppliedQuantity, p.UnitCost, entity.DateOnly(p.PurchaseDate),
		p.Vendor, p.RecordedBy, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert purchase history: %w", err)
	}
	return nil
}

// Exists indica si la compra ya fue migrada al histórico.
func (r *PurchasesHistoryRepo) Exists(tenantID string, purchaseID int64) (bool, error) {
	var one int
	err := r.q.QueryRow(context.Background(),
		`SELECT 1 FROM purchases_history WHERE tenant_id = $1 AND purchase_id = $2`, tenantID, purchaseID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("purchase history exists: %w", err)
	}
	return true, nil
}
