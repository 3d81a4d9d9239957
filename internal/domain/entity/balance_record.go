package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceRecord representa el saldo diario de un artículo en una bodega:
// una fila por (tenant_id, item_id, warehouse_name, log_date).
// Los contadores son acumulados del día; el saldo de cierre es derivado,
// nunca una columna escribible.
type BalanceRecord struct {
	TenantID         string
	ItemID           int64
	ItemName         string
	Warehouse        string
	LogDate          time.Time // fecha civil (se persiste como DATE)
	OpenBalance      int64
	SuppliedQuantity int64
	StockOut         int64
	ReturnQuantity   int64
	// Snapshot desnormalizado del catálogo, se copia hacia adelante
	// cuando se crea la fila de un nuevo día.
	Price        decimal.Decimal
	ReorderLevel int64
	Barcode      string
	LastUpdated  time.Time
}

// TotalAvailable devuelve el stock disponible del día antes de salidas:
// apertura + entradas + devoluciones.
func (b *BalanceRecord) TotalAvailable() int64 {
	return b.OpenBalance + b.SuppliedQuantity + b.ReturnQuantity
}

// ClosingBalance calcula el saldo de cierre del día. Siempre se recalcula
// en lectura; ningún componente escribe este valor directamente.
func (b *BalanceRecord) ClosingBalance() int64 {
	return b.TotalAvailable() - b.StockOut
}

// SameDate indica si la fila corresponde a la fecha civil dada.
func (b *BalanceRecord) SameDate(d time.Time) bool {
	y1, m1, d1 := b.LogDate.Date()
	y2, m2, d2 := d.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateOnly normaliza un instante a su fecha civil en UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
