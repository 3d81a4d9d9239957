package repository

import (
	"time"

	"github.com/priscom/ledger-api/internal/domain/entity"
)

// MovementFilter filtros opcionales para listar movimientos.
type MovementFilter struct {
	Kind      string
	Warehouse string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// MovementRepository define el puerto de persistencia del log de movimientos.
// La tabla es append-only: no hay Update ni Delete.
type MovementRepository interface {
	Create(movement *entity.StockMovement) error
	List(tenantID string, filter MovementFilter) ([]*entity.StockMovement, error)
}
