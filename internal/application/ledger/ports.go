package ledger

import (
	"context"

	"github.com/priscom/ledger-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción de BD.
type Repos struct {
	Balances         repository.BalanceRepository
	Movements        repository.MovementRepository
	SalesLog         repository.SalesLogRepository
	SalesHistory     repository.SalesHistoryRepository
	PurchasesLog     repository.PurchasesLogRepository
	PurchasesHistory repository.PurchasesHistoryRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor del libro:
// o todas las mutaciones de una operación son visibles, o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// Authorizer responde si un actor puede tocar una bodega del tenant.
// Lo implementa authz.WarehouseAuthorizer; el rol md accede a todo.
type Authorizer interface {
	CanAccessWarehouse(tenantID, username, role, warehouse string) error
	// Warehouses filtra la lista de bodegas del tenant a las visibles
	// para el actor.
	Warehouses(tenantID, username, role string, all []string) ([]string, error)
}

// QuotaGuard responde si el tenant puede seguir ejecutando operaciones
// mutantes bajo su plan. Devuelve domain.ErrQuotaExceeded al superar el tope.
type QuotaGuard interface {
	Ensure(tenantID string) error
}

// Actor identifica al llamador ya autenticado y acotado a su tenant.
// La autenticación en sí ocurre fuera del motor (middleware HTTP).
type Actor struct {
	TenantID string
	Username string
	Role     string
}
