package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/priscom/ledger-api/internal/application/ledger"
	"github.com/priscom/ledger-api/internal/domain"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los conflictos de serialización y deadlocks se
// retraducen a domain.ErrConcurrency para que el motor reintente; un plazo
// de contexto vencido se retraduce a domain.ErrTimeout (el Rollback diferido
// deshace la transacción en ambos casos).
func (r *TxRunner) Run(ctx context.Context, fn func(repos ledger.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := ledger.Repos{
		Balances:         NewBalanceRepository(tx),
		Movements:        NewMovementRepository(tx),
		SalesLog:         NewSalesLogRepository(tx),
		SalesHistory:     NewSalesHistoryRepository(tx),
		PurchasesLog:     NewPurchasesLogRepository(tx),
		PurchasesHistory: NewPurchasesHistoryRepository(tx),
	}

	if err := fn(repos); err != nil {
		return translateTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) || errors.Is(err, context.DeadlineExceeded) {
			return translateTxError(err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// translateTxError mapea errores de la BD o del contexto a los sentinelas
// del dominio que el motor sabe manejar.
func translateTxError(err error) error {
	switch {
	case isSerializationFailure(err):
		return fmt.Errorf("%w: %v", domain.ErrConcurrency, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return err
}
