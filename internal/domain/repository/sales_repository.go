package repository

import (
	"time"

	"github.com/priscom/ledger-api/internal/domain/entity"
)

// SalesLogRepository define el puerto sobre el log mutable de ventas.
type SalesLogRepository interface {
	ListByDate(tenantID string, date time.Time) ([]*entity.Sale, error)
	Delete(tenantID string, saleID int64) error
	// Count devuelve el total de filas del tenant (guard de cuota).
	Count(tenantID string) (int64, error)
}

// SalesHistoryRepository define el puerto sobre el histórico append-only de
// ventas. Upsert con clave (sale_id, tenant_id): seguro de re-ejecutar.
type SalesHistoryRepository interface {
	Upsert(sale *entity.Sale) error
	// Exists indica si la venta ya fue migrada (marcador de "ya aplicada"
	// para la deduplicación del archivador).
	Exists(tenantID string, saleID int64) (bool, error)
	Count(tenantID string) (int64, error)
}
