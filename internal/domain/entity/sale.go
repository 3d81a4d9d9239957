package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es una fila del log mutable de ventas (sales_log). Al cierre del día
// migra sin cambios, salvo campos transitorios calculados, a sales_history.
type Sale struct {
	SaleID         int64
	TenantID       string
	ItemID         int64
	ItemName       string
	Warehouse      string
	Quantity       int64
	ReturnQuantity int64
	UnitPrice      decimal.Decimal
	Amount         decimal.Decimal // importe final por línea, reportado por el módulo de ventas
	SaleDate       time.Time
	RecordedBy     string
	CreatedAt      time.Time
}
