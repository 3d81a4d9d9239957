package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/priscom/ledger-api/internal/domain"
	"github.com/priscom/ledger-api/internal/domain/entity"
	"github.com/priscom/ledger-api/internal/domain/repository"
	"github.com/priscom/ledger-api/pkg/logger"
)

// Service es el motor del libro de inventario: media toda operación que
// cambia stock físico (reabastecimiento, ventas, traslados, entregas, bajas,
// devoluciones y ajustes manuales) sobre el almacén de saldos diarios.
//
// Toda entrada mutante serializa por clave (tenant, artículo, bodega) y corre
// dentro de una transacción; las lecturas van directo al estado confirmado.
type Service struct {
	tx        TxRunner
	balances  repository.BalanceRepository // lecturas fuera de transacción
	movements repository.MovementRepository
	users     repository.UserRepository
	authz     Authorizer
	quota     QuotaGuard
	locks     *keyLock
	log       *logger.Logger

	retryAttempts int
	retryBackoff  time.Duration
}

// Options parámetros de reintento ante conflictos de concurrencia.
type Options struct {
	RetryAttempts int           // intentos totales ante domain.ErrConcurrency (default 3)
	RetryBackoff  time.Duration // espera inicial entre intentos, se duplica (default 25ms)
}

// NewService construye el motor.
func NewService(
	tx TxRunner,
	balances repository.BalanceRepository,
	movements repository.MovementRepository,
	users repository.UserRepository,
	authz Authorizer,
	quota QuotaGuard,
	log *logger.Logger,
	opts Options,
) *Service {
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 3
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 25 * time.Millisecond
	}
	return &Service{
		tx:            tx,
		balances:      balances,
		movements:     movements,
		users:         users,
		authz:         authz,
		quota:         quota,
		locks:         newKeyLock(),
		log:           log,
		retryAttempts: opts.RetryAttempts,
		retryBackoff:  opts.RetryBackoff,
	}
}

// runTx ejecuta fn en transacción, reintentando con backoff acotado cuando la
// BD reporta conflicto de serialización o deadlock (domain.ErrConcurrency).
// Cualquier otro error se propaga tal cual.
func (s *Service) runTx(ctx context.Context, fn func(r Repos) error) error {
	backoff := s.retryBackoff
	var err error
	for attempt := 1; ; attempt++ {
		err = s.tx.Run(ctx, fn)
		if !errors.Is(err, domain.ErrConcurrency) || attempt >= s.retryAttempts {
			return err
		}
		s.log.Warn().Int("attempt", attempt).Dur("backoff", backoff).
			Msg("conflicto de concurrencia en el libro, reintentando")
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %v", domain.ErrTimeout, ctx.Err())
			}
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

// today devuelve la fecha civil actual en UTC.
func today() time.Time {
	return entity.DateOnly(time.Now())
}

// assertMDOrToday: los empleados solo pueden operar sobre el día actual;
// únicamente el MD puede seleccionar fechas pasadas o futuras.
func assertMDOrToday(actor Actor, date time.Time) error {
	if actor.Role == entity.RoleMD {
		return nil
	}
	if !entity.DateOnly(date).Equal(today()) {
		return domain.ErrForbidden
	}
	return nil
}
