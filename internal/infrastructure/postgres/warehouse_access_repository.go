package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/priscom/ledger-api/internal/domain/repository"
)

var _ repository.WarehouseAccessRepository = (*WarehouseAccessRepo)(nil)

// WarehouseAccessRepo permisos por bodega concedidos a empleados, sobre PostgreSQL.
type WarehouseAccessRepo struct {
	pool *pgxpool.Pool
}

// NewWarehouseAccessRepository construye el adaptador de permisos por bodega.
func NewWarehouseAccessRepository(pool *pgxpool.Pool) *WarehouseAccessRepo {
	return &WarehouseAccessRepo{pool: pool}
}

// HasAccess indica si el usuario tiene acceso a la bodega del tenant.
func (r *WarehouseAccessRepo) HasAccess(tenantID, username, warehouse string) (bool, error) {
	query := `
		SELECT 1 FROM warehouse_access
		WHERE tenant_id = $1 AND username = $2 AND warehouse_name = $3`
	var one int
	err := r.pool.QueryRow(context.Background(), query, tenantID, username, warehouse).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("warehouse access: %w", err)
	}
	return true, nil
}

// ListWarehouses devuelve las bodegas a las que el usuario tiene acceso.
func (r *WarehouseAccessRepo) ListWarehouses(tenantID, username string) ([]string, error) {
	query := `
		SELECT warehouse_name FROM warehouse_access
		WHERE tenant_id = $1 AND username = $2
		ORDER BY warehouse_name`
	rows, err := r.pool.Query(context.Background(), query, tenantID, username)
	if err != nil {
		return nil, fmt.Errorf("list warehouse access: %w", err)
	}
	defer rows.Close()
	var list []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan warehouse access: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}
