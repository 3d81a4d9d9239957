package repository

import (
	"time"

	"github.com/priscom/ledger-api/internal/domain/entity"
)

// PurchasesLogRepository define el puerto sobre el log mutable de compras.
type PurchasesLogRepository interface {
	ListByDate(tenantID string, date time.Time) ([]*entity.Purchase, error)
	Delete(tenantID string, purchaseID int64) error
}

// PurchasesHistoryRepository define el puerto sobre el histórico append-only
// de compras. Upsert con clave (purchase_id, tenant_id).
type PurchasesHistoryRepository interface {
	Upsert(purchase *entity.Purchase) error
	Exists(tenantID string, purchaseID int64) (bool, error)
}
