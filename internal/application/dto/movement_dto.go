package dto

import "time"

// TransferRequest body para POST /api/movements/transfer.
type TransferRequest struct {
	SourceWarehouse      string    `json:"source_warehouse" validate:"required"`
	DestinationWarehouse string    `json:"destination_warehouse" validate:"required"`
	ItemID               int64     `json:"item_id" validate:"required,gt=0"`
	ItemNameTo           string    `json:"item_name_to"` // destino distinto = transformación
	Quantity             int64     `json:"quantity" validate:"required,gt=0"`
	IssuedBy             string    `json:"issued_by" validate:"required"`
	ReceivedBy           string    `json:"received_by" validate:"required"`
	Notes                string    `json:"notes"`
	MovementDate         time.Time `json:"movement_date"`
}

// IssueRequest body para POST /api/movements/issue.
type IssueRequest struct {
	SourceWarehouse string    `json:"source_warehouse" validate:"required"`
	ItemID          int64     `json:"item_id" validate:"required,gt=0"`
	Quantity        int64     `json:"quantity" validate:"required,gt=0"`
	IssuedBy        string    `json:"issued_by" validate:"required"`
	CustomerName    string    `json:"customer_name"`
	Notes           string    `json:"notes"`
	MovementDate    time.Time `json:"movement_date"`
}

// WriteOffRequest body para POST /api/movements/writeoff. La justificación
// es obligatoria con longitud mínima.
type WriteOffRequest struct {
	SourceWarehouse string    `json:"source_warehouse" validate:"required"`
	ItemID          int64     `json:"item_id" validate:"required,gt=0"`
	Quantity        int64     `json:"quantity" validate:"required,gt=0"`
	IssuedBy        string    `json:"issued_by" validate:"required"`
	Notes           string    `json:"notes" validate:"required,min=5"`
	MovementDate    time.Time `json:"movement_date"`
}

// MovementResponse registro de un movimiento completado.
type MovementResponse struct {
	ID            string `json:"id"`
	Kind          string `json:"transfer_type"`
	FromWarehouse string `json:"from_store"`
	ToWarehouse   string `json:"to_store,omitempty"`
	ItemID        int64  `json:"item_id"`
	DestItemID    int64  `json:"inventory_id"`
	ItemName      string `json:"item_name_from"`
	DestItemName  string `json:"item_name_to"`
	Quantity      int64  `json:"quantity"`
	IssuedBy      string `json:"issued_by"`
	ReceivedBy    string `json:"received_by,omitempty"`
	Notes         string `json:"details,omitempty"`
	MovementDate  string `json:"movement_date"`
	Status        string `json:"status"`
}
