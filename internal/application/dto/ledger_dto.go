package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpsertEntryRequest body para POST /api/ledger/entries: deltas del día que
// los módulos de venta/reabastecimiento reportan al libro.
type UpsertEntryRequest struct {
	ItemID        int64     `json:"item_id" validate:"required,gt=0"`
	WarehouseName string    `json:"warehouse_name" validate:"required"`
	LogDate       time.Time `json:"log_date" validate:"required"`
	DeltaIn       int64     `json:"delta_in" validate:"gte=0"`
	DeltaOut      int64     `json:"delta_out" validate:"gte=0"`
	DeltaReturn   int64     `json:"delta_return" validate:"gte=0"`
}

// CreateLogRequest body para dar de alta la primera fila de un artículo.
type CreateLogRequest struct {
	ItemID           int64           `json:"item_id" validate:"gte=0"`
	ItemName         string          `json:"item_name" validate:"required"`
	WarehouseName    string          `json:"warehouse_name" validate:"required"`
	LogDate          time.Time       `json:"log_date" validate:"required"`
	OpenBalance      int64           `json:"open_balance" validate:"gte=0"`
	SuppliedQuantity int64           `json:"supplied_quantity" validate:"gte=0"`
	StockOut         int64           `json:"stock_out" validate:"gte=0"`
	ReturnQuantity   int64           `json:"return_quantity" validate:"gte=0"`
	Price            decimal.Decimal `json:"price"`
	ReorderLevel     int64           `json:"reorder_level" validate:"gte=0"`
	Barcode          string          `json:"barcode"`
}

// BalanceRecordResponse fila de saldo diario con el cierre derivado.
type BalanceRecordResponse struct {
	ItemID           int64           `json:"item_id"`
	ItemName         string          `json:"item_name"`
	WarehouseName    string          `json:"warehouse_name"`
	LogDate          string          `json:"log_date"`
	OpenBalance      int64           `json:"open_balance"`
	SuppliedQuantity int64           `json:"supplied_quantity"`
	StockOut         int64           `json:"stock_out"`
	ReturnQuantity   int64           `json:"return_quantity"`
	ClosingBalance   int64           `json:"closing_balance"`
	Price            decimal.Decimal `json:"price"`
	ReorderLevel     int64           `json:"reorder_level"`
	Barcode          string          `json:"barcode,omitempty"`
}

// CloseDayRequest body para POST /api/ledger/close-day.
type CloseDayRequest struct {
	SelectedDate time.Time `json:"selected_date" validate:"required"`
}

// ManualAdjustRequest body para PATCH /api/ledger/items/:item_id.
// Los campos omitidos no se tocan; los presentes se fijan.
type ManualAdjustRequest struct {
	SuppliedQuantity *int64     `json:"supplied_quantity" validate:"omitempty,gte=0"`
	StockOut         *int64     `json:"stock_out" validate:"omitempty,gte=0"`
	ReturnQuantity   *int64     `json:"return_quantity" validate:"omitempty,gte=0"`
	LogDate          *time.Time `json:"log_date"`
	AccessCode       string     `json:"access_code"`
	Notes            string     `json:"notes"`
}

// ReturnItemRequest body para POST /api/ledger/returns.
type ReturnItemRequest struct {
	ItemID         int64     `json:"item_id" validate:"omitempty,gt=0"`
	ItemName       string    `json:"item_name"`
	WarehouseName  string    `json:"warehouse_name"`
	ReturnQuantity int64     `json:"return_quantity" validate:"required,gt=0"`
	SelectedDate   time.Time `json:"selected_date" validate:"required"`
	AccessCode     string    `json:"access_code" validate:"required"`
}

// AvailabilityResponse resultado del guard de disponibilidad.
type AvailabilityResponse struct {
	ItemID    int64 `json:"item_id"`
	Available int64 `json:"available"`
	Requested int64 `json:"requested"`
}
