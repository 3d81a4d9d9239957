package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/priscom/ledger-api/internal/domain/entity"
	"github.com/priscom/ledger-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo log append-only de movimientos de stock sobre PostgreSQL
// (usable con pool o tx). Sin Update ni Delete.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento completado.
func (r *MovementRepo) Create(m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, tenant_id, transfer_type, from_warehouse, to_warehouse,
			item_id, dest_item_id, item_name, dest_item_name, quantity,
			issued_by, received_by, notes, movement_date, created_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.TenantID, m.Kind, m.FromWarehouse, m.ToWarehouse,
		m.ItemID, m.DestItemID, m.ItemName, m.DestItemName, m.Quantity,
		m.IssuedBy, m.ReceivedBy, m.Notes, m.MovementDate, m.CreatedAt, m.Status,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// List devuelve movimientos del tenant aplicando los filtros opcionales,
// más reciente primero.
func (r *MovementRepo) List(tenantID string, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, tenant_id, transfer_type, from_warehouse, to_warehouse,
			item_id, dest_item_id, item_name, dest_item_name, quantity,
			issued_by, received_by, notes, movement_date, created_at, status
		FROM stock_movements WHERE tenant_id = $1`
	args := []any{tenantID}
	pos := 2
	if f.Kind != "" {
		query += fmt.Sprintf(" AND transfer_type = $%d", pos)
		args = append(args, f.Kind)
		pos++
	}
	if f.Warehouse != "" {
		query += fmt.Sprintf(" AND (from_warehouse = $%d OR to_warehouse = $%d)", pos, pos)
		args = append(args, f.Warehouse)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND movement_date >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND movement_date <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY movement_date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Kind, &m.FromWarehouse, &m.ToWarehouse,
			&m.ItemID, &m.DestItemID, &m.ItemName, &m.DestItemName, &m.Quantity,
			&m.IssuedBy, &m.ReceivedBy, &m.Notes, &m.MovementDate, &m.CreatedAt, &m.Status); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
