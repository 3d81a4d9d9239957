package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/priscom/ledger-api/internal/application/dto"
	"github.com/priscom/ledger-api/internal/application/ledger"
	"github.com/priscom/ledger-api/internal/domain/entity"
)

// LedgerHandler expone el motor del libro de inventario (protegido).
type LedgerHandler struct {
	svc *ledger.Service
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(svc *ledger.Service) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

// UpsertEntry godoc
// @Summary      Aplicar deltas del día al saldo de un artículo
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertEntryRequest  true  "item_id, warehouse_name, log_date, deltas"
// @Success      200   {object}  dto.BalanceRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ledger/entries [post]
func (h *LedgerHandler) UpsertEntry(c *fiber.Ctx) error {
	var in dto.UpsertEntryRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	rec, err := h.svc.Upsert(c.Context(), GetTenantID(c), in.ItemID, in.WarehouseName, in.LogDate,
		in.DeltaIn, in.DeltaOut, in.DeltaReturn)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBalanceResponse(rec))
}

// CreateLog godoc
// @Summary      Alta de la primera fila de saldo de un artículo
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLogRequest  true  "item_name, warehouse_name, log_date, contadores"
// @Success      201   {object}  dto.BalanceRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      402   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/logs [post]
func (h *LedgerHandler) CreateLog(c *fiber.Ctx) error {
	var in dto.CreateLogRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	rec := &entity.BalanceRecord{
		ItemID:           in.ItemID,
		ItemName:         in.ItemName,
		Warehouse:        in.WarehouseName,
		LogDate:          in.LogDate,
		OpenBalance:      in.OpenBalance,
		SuppliedQuantity: in.SuppliedQuantity,
		StockOut:         in.StockOut,
		ReturnQuantity:   in.ReturnQuantity,
		Price:            in.Price,
		ReorderLevel:     in.ReorderLevel,
		Barcode:          in.Barcode,
	}
	out, err := h.svc.CreateLog(c.Context(), ActorFromCtx(c), rec)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBalanceResponse(out))
}

// DailyLogs godoc
// @Summary      Filas de saldo del tenant para una fecha
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD (default hoy)"
// @Success      200   {array}  dto.BalanceRecordResponse
// @Router       /api/ledger/daily-logs [get]
func (h *LedgerHandler) DailyLogs(c *fiber.Ctx) error {
	date, ok := queryDate(c, "date")
	if !ok {
		return nil
	}
	rows, err := h.svc.DailyLogs(c.Context(), GetTenantID(c), date)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BalanceRecordResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toBalanceResponse(r))
	}
	return c.JSON(fiber.Map{"date": date.Format("2006-01-02"), "logs": out})
}

// LowStock godoc
// @Summary      Artículos en o bajo su punto de reorden
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  ledger.LowStockItem
// @Router       /api/ledger/low-stock [get]
func (h *LedgerHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.svc.LowStock(c.Context(), GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// ItemsMap godoc
// @Summary      Catálogo derivado de artículos
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        warehouse_name  query  string  false  "Filtrar por bodega"
// @Success      200  {array}  entity.Item
// @Router       /api/ledger/items-map [get]
func (h *LedgerHandler) ItemsMap(c *fiber.Ctx) error {
	items, err := h.svc.ItemsMap(c.Context(), GetTenantID(c), c.Query("warehouse_name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// CheckAvailability godoc
// @Summary      Verificar stock disponible antes de una deducción
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        item_id         query  int     true   "ID del artículo"
// @Param        quantity        query  int     true   "Cantidad solicitada"
// @Param        warehouse_name  query  string  false  "Bodega (vacío = cualquiera)"
// @Param        date            query  string  false  "YYYY-MM-DD (default hoy)"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ledger/availability [get]
func (h *LedgerHandler) CheckAvailability(c *fiber.Ctx) error {
	itemID := int64(c.QueryInt("item_id"))
	quantity := int64(c.QueryInt("quantity"))
	date, ok := queryDate(c, "date")
	if !ok {
		return nil
	}
	available, err := h.svc.CheckAvailability(c.Context(), GetTenantID(c), itemID, c.Query("warehouse_name"), date, quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{ItemID: itemID, Available: available, Requested: quantity})
}

// CloseDay godoc
// @Summary      Cierre del día: absorber ventas/compras y migrar al histórico
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CloseDayRequest  true  "selected_date"
// @Success      200   {object}  ledger.CloseSummary
// @Failure      402   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/ledger/close-day [post]
func (h *LedgerHandler) CloseDay(c *fiber.Ctx) error {
	var in dto.CloseDayRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	summary, err := h.svc.CloseDay(c.Context(), ActorFromCtx(c), in.SelectedDate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// MoveToHistory godoc
// @Summary      Migrar ventas/compras del día al histórico sin tocar saldos
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CloseDayRequest  true  "selected_date"
// @Success      200   {object}  ledger.CloseSummary
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/ledger/move-to-history [post]
func (h *LedgerHandler) MoveToHistory(c *fiber.Ctx) error {
	var in dto.CloseDayRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	summary, err := h.svc.MoveToHistory(c.Context(), ActorFromCtx(c), in.SelectedDate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// ManualAdjust godoc
// @Summary      Fijar contadores del día de un artículo (privilegiado)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        item_id  path  int  true  "ID del artículo"
// @Param        body     body  dto.ManualAdjustRequest  true  "contadores presentes se fijan; omitidos no se tocan"
// @Success      200  {object}  dto.BalanceRecordResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/items/{item_id} [patch]
func (h *LedgerHandler) ManualAdjust(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("item_id")
	if err != nil || itemID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id inválido"})
	}
	var in dto.ManualAdjustRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	adj := ledger.AdjustInput{
		ItemID:           int64(itemID),
		SuppliedQuantity: in.SuppliedQuantity,
		StockOut:         in.StockOut,
		ReturnQuantity:   in.ReturnQuantity,
		AccessCode:       in.AccessCode,
		Notes:            in.Notes,
	}
	if in.LogDate != nil {
		adj.Date = *in.LogDate
	}
	rec, err := h.svc.ManualAdjust(c.Context(), ActorFromCtx(c), adj)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBalanceResponse(rec))
}

// ReturnItem godoc
// @Summary      Registrar la devolución de un cliente
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReturnItemRequest  true  "item_id o item_name, return_quantity, selected_date, access_code"
// @Success      200  {object}  dto.BalanceRecordResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/returns [post]
func (h *LedgerHandler) ReturnItem(c *fiber.Ctx) error {
	var in dto.ReturnItemRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	rec, err := h.svc.ReturnItem(c.Context(), ActorFromCtx(c), ledger.ReturnInput{
		ItemID:     in.ItemID,
		ItemName:   in.ItemName,
		Warehouse:  in.WarehouseName,
		Quantity:   in.ReturnQuantity,
		Date:       in.SelectedDate,
		AccessCode: in.AccessCode,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBalanceResponse(rec))
}

// queryDate lee un query param de fecha YYYY-MM-DD; vacío = hoy.
// Devuelve ok=false si ya respondió un 400.
func queryDate(c *fiber.Ctx, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return entity.DateOnly(time.Now()), true
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: name + " debe ser YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}

func toBalanceResponse(r *entity.BalanceRecord) dto.BalanceRecordResponse {
	return dto.BalanceRecordResponse{
		ItemID:           r.ItemID,
		ItemName:         r.ItemName,
		WarehouseName:    r.Warehouse,
		LogDate:          r.LogDate.Format("2006-01-02"),
		OpenBalance:      r.OpenBalance,
		SuppliedQuantity: r.SuppliedQuantity,
		StockOut:         r.StockOut,
		ReturnQuantity:   r.ReturnQuantity,
		ClosingBalance:   r.ClosingBalance(),
		Price:            r.Price,
		ReorderLevel:     r.ReorderLevel,
		Barcode:          r.Barcode,
	}
}
