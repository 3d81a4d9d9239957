package entity

import "github.com/shopspring/decimal"

// Item es la vista de catálogo de un artículo: la identidad y el snapshot de
// metadatos que se deriva de la fila de saldo más reciente del artículo.
type Item struct {
	ItemID       int64           `json:"item_id"`
	Name         string          `json:"item_name"`
	Warehouse    string          `json:"warehouse_name"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel int64           `json:"reorder_level"`
	Barcode      string          `json:"barcode,omitempty"`
}
