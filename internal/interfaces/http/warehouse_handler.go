package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/priscom/ledger-api/internal/application/ledger"
)

// WarehouseHandler lista las bodegas visibles para el actor.
type WarehouseHandler struct {
	svc *ledger.Service
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(svc *ledger.Service) *WarehouseHandler {
	return &WarehouseHandler{svc: svc}
}

// List godoc
// @Summary      Bodegas visibles para el actor
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/warehouses [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	warehouses, err := h.svc.Warehouses(c.Context(), ActorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(warehouses), "warehouses": warehouses})
}
