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

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

const balanceColumns = `tenant_id, item_id, item_name, warehouse_name, log_date,
	open_balance, supplied_quantity, stock_out, return_quantity,
	price, reorder_level, barcode, last_updated`

// BalanceRepo implementación del libro de saldos diarios sobre PostgreSQL
// (usable con pool o tx). La columna closing_balance de la tabla es generada
// (GENERATED ALWAYS AS ... STORED); aquí nunca se escribe ni se escanea, el
// dominio la deriva.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get devuelve la fila exacta (tenant, item, bodega, fecha) o nil si no existe.
func (r *BalanceRepo) Get(tenantID string, itemID int64, warehouse string, date time.Time) (*entity.BalanceRecord, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM daily_balances
		WHERE tenant_id = $1 AND item_id = $2 AND warehouse_name = $3 AND log_date = $4`
	return r.scanOne(query, tenantID, itemID, warehouse, entity.DateOnly(date))
}

// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
func (r *BalanceRepo) GetForUpdate(tenantID string, itemID int64, warehouse string, date time.Time) (*entity.BalanceRecord, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM daily_balances
		WHERE tenant_id = $1 AND item_id = $2 AND warehouse_name = $3 AND log_date = $4
		FOR UPDATE`
	return r.scanOne(query, tenantID, itemID, warehouse, entity.DateOnly(date))
}

// PreviousClosing devuelve el saldo de cierre de la fila más reciente con
// fecha estrictamente anterior; 0 si el artículo no tiene historia previa.
func (r *BalanceRepo) PreviousClosing(tenantID string, itemID int64, warehouse string, date time.Time) (int64, error) {
	query := `
		SELECT closing_balance
		FROM daily_balances
		WHERE tenant_id = $1 AND item_id = $2 AND warehouse_name = $3 AND log_date < $4
		ORDER BY log_date DESC
		LIMIT 1`
	var closing int64
	err := r.q.QueryRow(context.Background(), query, tenantID, itemID, warehouse, entity.DateOnly(date)).Scan(&closing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("previous closing: %w", err)
	}
	return closing, nil
}

// LatestOnOrBefore devuelve la fila más reciente con fecha <= date.
// warehouse vacío busca en cualquier bodega del tenant. nil si no hay filas.
func (r *BalanceRepo) LatestOnOrBefore(tenantID string, itemID int64, warehouse string, date time.Time) (*entity.BalanceRecord, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM daily_balances
		WHERE tenant_id = $1 AND item_id = $2 AND log_date <= $3`
	args := []any{tenantID, itemID, entity.DateOnly(date)}
	if warehouse != "" {
		query += " AND warehouse_name = $4"
		args = append(args, warehouse)
	}
	query += " ORDER BY log_date DESC LIMIT 1"
	return r.scanOne(query, args...)
}

// Latest devuelve la fila más reciente del artículo sin cota de fecha.
func (r *BalanceRepo) Latest(tenantID string, itemID int64, warehouse string) (*entity.BalanceRecord, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM daily_balances
		WHERE tenant_id = $1 AND item_id = $2`
	args := []any{tenantID, itemID}
	if warehouse != "" {
		query += " AND warehouse_name = $3"
		args = append(args, warehouse)
	}
	query += " ORDER BY log_date DESC LIMIT 1"
	return r.scanOne(query, args...)
}

// LatestByName resuelve un artículo por nombre en cualquier bodega del tenant.
func (r *BalanceRepo) LatestByName(tenantID, itemName string) (*entity.BalanceRecord, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM daily_balances
		WHERE tenant_id = $1 AND item_name = $2
		ORDER BY log_date DESC
		LIMIT 1`
	return r.scanOne(query, tenantID, itemName)
}

// MaxItemID devuelve el item_id más alto del tenant; 0 si no hay artículos.
func (r *BalanceRepo) MaxItemID(tenantID string) (int64, error) {
	query := `SELECT COALESCE(MAX(item_id), 0) FROM daily_balances WHERE tenant_id = $1`
	var max int64
	if err := r.q.QueryRow(context.Background(), query, tenantID).Scan(&max); err != nil {
		return 0, fmt.Errorf("max item id: %w", err)
	}
	return max, nil
}

// Upsert inserta o actualiza la fila por su clave natural
// (tenant, item, bodega, fecha). closing_balance lo calcula la tabla.
func (r *BalanceRepo) Upsert(rec *entity.BalanceRecord) error {
	query := `
		INSERT INTO daily_balances (tenant_id, item_id, item_name, warehouse_name, log_date,
			open_balance, supplied_quantity, stock_out, return_quantity,
			price, reorder_level, barcode, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		ON CONFLICT (tenant_id, item_id, warehouse_name, log_date)
		DO UPDATE SET
			item_name = EXCLUDED.item_name,
			open_balance = EXCLUDED.open_balance,
			supplied_quantity = EXCLUDED.supplied_quantity,
			stock_out = EXCLUDED.stock_out,
			return_quantity = EXCLUDED.return_quantity,
			price = EXCLUDED.price,
			reorder_level = EXCLUDED.reorder_level,
			barcode = EXCLUDED.barcode,
			last_updated = now()`
	_, err := r.q.Exec(context.Background(), query,
		rec.TenantID, rec.ItemID, rec.ItemName, rec.Warehouse, entity.DateOnly(rec.LogDate),
		rec.OpenBalance, rec.SuppliedQuantity, rec.StockOut, rec.ReturnQuantity,
		rec.Price, rec.ReorderLevel, rec.Barcode,
	)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// ListByDate devuelve todas las filas del tenant para una fecha.
func (r *BalanceRepo) ListByDate(tenantID string, date time.Time) ([]*entity.BalanceRecord, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM daily_balances
		WHERE tenant_id = $1 AND log_date = $2
		ORDER BY item_id, warehouse_name`
	return r.scanMany(query, tenantID, entity.DateOnly(date))
}

// ListLatest devuelve la fila más reciente de cada (artículo, bodega) del tenant.
func (r *BalanceRepo) ListLatest(tenantID string) ([]*entity.BalanceRecord, error) {
	query := `
		SELECT DISTINCT ON (item_id, warehouse_name) ` + balanceColumns + `
		FROM daily_balances
		WHERE tenant_id = $1
		ORDER BY item_id, warehouse_name, log_date DESC`
	return r.scanMany(query, tenantID)
}

func (r *BalanceRepo) scanOne(query string, args ...any) (*entity.BalanceRecord, error) {
	var b entity.BalanceRecord
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&b.TenantID, &b.ItemID, &b.ItemName, &b.Warehouse, &b.LogDate,
		&b.OpenBalance, &b.SuppliedQuantity, &b.StockOut, &b.ReturnQuantity,
		&b.Price, &b.ReorderLevel, &b.Barcode, &b.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

func (r *BalanceRepo) scanMany(query string, args ...any) ([]*entity.BalanceRecord, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.BalanceRecord
	for rows.Next() {
		var b entity.BalanceRecord
		if err := rows.Scan(
			&b.TenantID, &b.ItemID, &b.ItemName, &b.Warehouse, &b.LogDate,
			&b.OpenBalance, &b.SuppliedQuantity, &b.StockOut, &b.ReturnQuantity,
			&b.Price, &b.ReorderLevel, &b.Barcode, &b.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
