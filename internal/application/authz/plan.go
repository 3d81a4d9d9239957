package authz

import (
	"fmt"

	"github.com/priscom/ledger-api/internal/domain"
	"github.com/priscom/ledger-api/internal/domain/repository"
)

// freePlanMaxEntries tope de filas de venta (log o histórico) para planes
// free o inactivos.
const freePlanMaxEntries = 10

// PlanGuard bloquea operaciones mutantes cuando el tenant superó el tope de
// su plan. Un tenant sin suscripción se trata como free inactivo.
type PlanGuard struct {
	subs         repository.SubscriptionRepository
	salesLog     repository.SalesLogRepository
	salesHistory repository.SalesHistoryRepository
}

// NewPlanGuard construye el guard de cuota.
func NewPlanGuard(subs repository.SubscriptionRepository, salesLog repository.SalesLogRepository, salesHistory repository.SalesHistoryRepository) *PlanGuard {
	return &PlanGuard{subs: subs, salesLog: salesLog, salesHistory: salesHistory}
}

// Ensure devuelve domain.ErrQuotaExceeded cuando un plan free o inactivo ya
// acumuló más de freePlanMaxEntries filas en cualquiera de las tablas de
// venta.
func (g *PlanGuard) Ensure(tenantID string) error {
	sub, err := g.subs.Latest(tenantID)
	if err != nil {
		return fmt.Errorf("consultar suscripción: %w", err)
	}
	if sub != nil && sub.Plan != "free" && sub.IsActive {
		return nil
	}
	logCount, err := g.salesLog.Count(tenantID)
	if err != nil {
		return fmt.Errorf("contar ventas: %w", err)
	}
	histCount, err := g.salesHistory.Count(tenantID)
	if err != nil {
		return fmt.Errorf("contar histórico de ventas: %w", err)
	}
	if logCount > freePlanMaxEntries || histCount > freePlanMaxEntries {
		return fmt.Errorf("%w: máximo %d registros en el plan gratuito", domain.ErrQuotaExceeded, freePlanMaxEntries)
	}
	return nil
}
