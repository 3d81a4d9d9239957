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

var _ repository.SalesLogRepository = (*SalesLogRepo)(nil)
var _ repository.SalesHistoryRepository = (*SalesHistoryRepo)(nil)

const saleColumns = `sale_id, tenant_id, item_id, item_name, warehouse_name,
	quantity, return_quantity, unit_price, amount, sale_date, recorded_by, created_at`

// SalesLogRepo log mutable de ventas del día sobre PostgreSQL (usable con pool o tx).
type SalesLogRepo struct {
	q Querier
}

// NewSalesLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesLogRepository(q Querier) *SalesLogRepo {
	return &SalesLogRepo{q: q}
}

// ListByDate devuelve las ventas del tenant para una fecha.
func (r *SalesLogRepo) ListByDate(tenantID string, date time.Time) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales_log
		WHERE tenant_id = $1 AND sale_date = $2
		ORDER BY sale_id`
	return scanSales(r.q, query, tenantID, entity.DateOnly(date))
}

// Delete elimina una venta del log (tras migrarla al histórico).
func (r *SalesLogRepo) Delete(tenantID string, saleID int64) error {
	query := `DELETE FROM sales_log WHERE tenant_id = $1 AND sale_id = $2`
	if _, err := r.q.Exec(context.Background(), query, tenantID, saleID); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

// Count devuelve el total de filas del tenant en el log.
func (r *SalesLogRepo) Count(tenantID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM sales_log WHERE tenant_id = $1`, tenantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sales log: %w", err)
	}
	return n, nil
}

// SalesHistoryRepo histórico append-only de ventas sobre PostgreSQL.
type SalesHistoryRepo struct {
	q Querier
}

// NewSalesHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesHistoryRepository(q Querier) *SalesHistoryRepo {
	return &SalesHistoryRepo{q: q}
}

// Upsert inserta la venta en el histórico; con clave (sale_id, tenant_id)
// re-ejecutar es seguro.
func (r *SalesHistoryRepo) Upsert(s *entity.Sale) error {
	query := `
		INSERT INTO sales_history (sale_id, tenant_id, item_id, item_name, warehouse_name,
			quantity, return_quantity, unit_price, amount, sale_date, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (sale_id, tenant_id)
		DO UPDATE SET
			item_id = EXCLUDED.item_id,
			item_name = EXCLUDED.item_name,
			warehouse_name = EXCLUDED.warehouse_name,
			quantity = EXCLUDED.quantity,
			return_quantity = EXCLUDED.return_quantity,
			unit_price = EXCLUDED.unit_price,
			amount = EXCLUDED.amount,
			sale_date = EXCLUDED.sale_date,
			recorded_by = EXCLUDED.recorded_by`
	_, err := r.q.Exec(context.Background(), query,
		s.SaleID, s.TenantID, s.ItemID, s.ItemName, s.Warehouse,
		s.Quantity, s.ReturnQuantity, s.UnitPrice, s.Amount,
		entity.DateOnly(s.SaleDate), s.RecordedBy, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert sale history: %w", err)
	}
	return nil
}

// Exists indica si la venta ya fue migrada al histórico.
func (r *SalesHistoryRepo) Exists(tenantID string, saleID int64) (bool, error) {
	var one int
	err := r.q.QueryRow(context.Background(),
		`SELECT 1 FROM sales_history WHERE tenant_id = $1 AND sale_id = $2`, tenantID, saleID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("sale history exists: %w", err)
	}
	return true, nil
}

// Count devuelve el total de filas del tenant en el histórico.
func (r *SalesHistoryRepo) Count(tenantID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM sales_history WHERE tenant_id = $1`, tenantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sales history: %w", err)
	}
	return n, nil
}

func scanSales(q Querier, query string, args ...any) ([]*entity.Sale, error) {
	rows, err := q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.SaleID, &s.TenantID, &s.ItemID, &s.ItemName, &s.Warehouse,
			&s.Quantity, &s.ReturnQuantity, &s.UnitPrice, &s.Amount,
			&s.SaleDate, &s.RecordedBy, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
