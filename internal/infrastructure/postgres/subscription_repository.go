package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/priscom/ledger-api/internal/domain/entity"
	"github.com/priscom/ledger-api/internal/domain/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo consulta de planes del tenant sobre PostgreSQL.
type SubscriptionRepo struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository construye el adaptador de suscripciones.
func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{pool: pool}
}

// Latest devuelve la suscripción más reciente del tenant o nil si nunca
// contrató un plan.
func (r *SubscriptionRepo) Latest(tenantID string) (*entity.Subscription, error) {
	query := `
		SELECT tenant_id, plan, is_active, expires_at
		FROM subscriptions
		WHERE tenant_id = $1
		ORDER BY expires_at DESC
		LIMIT 1`
	var s entity.Subscription
	err := r.pool.QueryRow(context.Background(), query, tenantID).Scan(
		&s.TenantID, &s.Plan, &s.IsActive, &s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &s, nil
}
