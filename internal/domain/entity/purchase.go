package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase es una fila del log mutable de compras/reabastecimientos
// (purchases_log). Al cierre del día migra a purchases_history.
type Purchase struct {
	PurchaseID       int64
	TenantID         string
	ItemID           int64
	ItemName         string
	Warehouse        string
	SuppliedQuantity int64
	UnitCost         decimal.Decimal
	PurchaseDate     time.Time
	Vendor           string
	RecordedBy       string
	CreatedAt        time.Time
}
