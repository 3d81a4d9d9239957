package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/priscom/ledger-api/internal/application/auth"
	"github.com/priscom/ledger-api/internal/application/ledger"
	"github.com/priscom/ledger-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	Ledger    *ledger.Service
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token con un rol conocido)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleMD, entity.RoleEmployee))

	// Libro de saldos diarios (protegido)
	ledgerGroup := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.Ledger)
	ledgerGroup.Post("/entries", ledgerHandler.UpsertEntry)
	ledgerGroup.Post("/logs", ledgerHandler.CreateLog)
	ledgerGroup.Get("/daily-logs", ledgerHandler.DailyLogs)
	ledgerGroup.Get("/low-stock", ledgerHandler.LowStock)
	ledgerGroup.Get("/items-map", ledgerHandler.ItemsMap)
	ledgerGroup.Get("/availability", ledgerHandler.CheckAvailability)
	ledgerGroup.Post("/close-day", ledgerHandler.CloseDay)
	ledgerGroup.Post("/move-to-history", ledgerHandler.MoveToHistory)
	ledgerGroup.Patch("/items/:item_id", ledgerHandler.ManualAdjust)
	ledgerGroup.Post("/returns", ledgerHandler.ReturnItem)

	// Movimientos de stock (protegido)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.Ledger)
	movements.Post("/transfer", movementHandler.Transfer)
	movements.Post("/issue", movementHandler.Issue)
	movements.Post("/writeoff", movementHandler.WriteOff)
	movements.Get("/", movementHandler.List)

	// Bodegas visibles (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.Ledger)
	warehouses.Get("/", warehouseHandler.List)
}
