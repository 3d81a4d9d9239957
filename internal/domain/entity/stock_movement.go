package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTransfer = "warehouse_transfer" // traslado entre bodegas
	MovementIssue    = "customer_issue"     // entrega a cliente
	MovementWriteOff = "stockout"           // baja por daño, vencimiento, pérdida
)

// WriteOffPrefix marca las notas de una baja para distinguirla de una venta
// en los reportes.
const WriteOffPrefix = "WRITE-OFF: "

// StockMovement es el registro inmutable de un movimiento completado.
// Nunca se actualiza ni se borra una vez escrito.
type StockMovement struct {
	ID            string
	TenantID      string
	Kind          string // warehouse_transfer, customer_issue, stockout
	FromWarehouse string
	ToWarehouse   string // vacío cuando no hay pierna destino
	ItemID        int64  // artículo origen
	DestItemID    int64  // artículo destino (distinto si hubo transformación)
	ItemName      string
	DestItemName  string
	Quantity      int64
	IssuedBy      string
	ReceivedBy    string
	Notes         string
	MovementDate  time.Time
	CreatedAt     time.Time
	Status        string // "completed"
}
