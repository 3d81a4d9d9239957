package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/priscom/ledger-api/internal/application/dto"
	"github.com/priscom/ledger-api/internal/application/ledger"
	"github.com/priscom/ledger-api/internal/domain/entity"
	"github.com/priscom/ledger-api/internal/domain/repository"
)

// MovementHandler expone traslados, entregas y bajas de stock (protegido).
type MovementHandler struct {
	svc *ledger.Service
}

// NewMovementHandler construye el handler.
func NewMovementHandler(svc *ledger.Service) *MovementHandler {
	return &MovementHandler{svc: svc}
}

// Transfer godoc
// @Summary      Trasladar stock entre bodegas
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "source, destination, item_id, quantity; item_name_to para transformación"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/transfer [post]
func (h *MovementHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	mov, err := h.svc.Transfer(c.Context(), ActorFromCtx(c), ledger.TransferInput{
		SourceWarehouse: in.SourceWarehouse,
		DestWarehouse:   in.DestinationWarehouse,
		ItemID:          in.ItemID,
		DestItemName:    in.ItemNameTo,
		Quantity:        in.Quantity,
		IssuedBy:        in.IssuedBy,
		ReceivedBy:      in.ReceivedBy,
		Notes:           in.Notes,
		MovementDate:    in.MovementDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// Issue godoc
// @Summary      Entregar stock a un cliente
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueRequest  true  "source_warehouse, item_id, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/issue [post]
func (h *MovementHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	mov, err := h.svc.Issue(c.Context(), ActorFromCtx(c), ledger.IssueInput{
		SourceWarehouse: in.SourceWarehouse,
		ItemID:          in.ItemID,
		Quantity:        in.Quantity,
		IssuedBy:        in.IssuedBy,
		CustomerName:    in.CustomerName,
		Notes:           in.Notes,
		MovementDate:    in.MovementDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// WriteOff godoc
// @Summary      Dar de baja stock dañado, vencido o perdido
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WriteOffRequest  true  "source_warehouse, item_id, quantity, notes (justificación)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/writeoff [post]
func (h *MovementHandler) WriteOff(c *fiber.Ctx) error {
	var in dto.WriteOffRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	mov, err := h.svc.WriteOff(c.Context(), ActorFromCtx(c), ledger.WriteOffInput{
		SourceWarehouse: in.SourceWarehouse,
		ItemID:          in.ItemID,
		Quantity:        in.Quantity,
		IssuedBy:        in.IssuedBy,
		Notes:           in.Notes,
		MovementDate:    in.MovementDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// List godoc
// @Summary      Listar movimientos del tenant
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        transfer_type   query  string  false  "warehouse_transfer | customer_issue | stockout"
// @Param        warehouse_name  query  string  false  "Filtrar por bodega (origen o destino)"
// @Param        from            query  string  false  "YYYY-MM-DD"
// @Param        to              query  string  false  "YYYY-MM-DD"
// @Param        limit           query  int     false  "Máximo de filas (default 20, máx 100)"
// @Param        offset          query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	if err := validate.Struct(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	filter := repository.MovementFilter{
		Kind:      c.Query("transfer_type"),
		Warehouse: c.Query("warehouse_name"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	if raw := c.Query("from"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser YYYY-MM-DD"})
		}
		filter.From = &d
	}
	if raw := c.Query("to"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser YYYY-MM-DD"})
		}
		filter.To = &d
	}
	list, err := h.svc.Movements(c.Context(), GetTenantID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(fiber.Map{
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(out)},
		"movements": out,
	})
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		Kind:          m.Kind,
		FromWarehouse: m.FromWarehouse,
		ToWarehouse:   m.ToWarehouse,
		ItemID:        m.ItemID,
		DestItemID:    m.DestItemID,
		ItemName:      m.ItemName,
		DestItemName:  m.DestItemName,
		Quantity:      m.Quantity,
		IssuedBy:      m.IssuedBy,
		ReceivedBy:    m.ReceivedBy,
		Notes:         m.Notes,
		MovementDate:  m.MovementDate.Format(time.RFC3339),
		Status:        m.Status,
	}
}
