package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/priscom/ledger-api/internal/domain"
	"github.com/priscom/ledger-api/internal/domain/entity"
)

// CheckAvailability verifica el stock disponible de un artículo antes de
// aceptar una deducción tipo venta. warehouse vacío consulta cualquier
// bodega; date en cero usa el día actual, cayendo al cierre del último día
// con datos si hoy no tiene fila.
//
// Es más estricto que el recorte silencioso de Upsert: aquí la
// operación completa se rechaza. Obligatorio antes de toda deducción
// custodiada; devuelve el disponible cuando la verificación pasa.
func (s *Service) CheckAvailability(ctx context.Context, tenantID string, itemID int64, warehouse string, date time.Time, requestedQty int64) (int64, error) {
	if requestedQty <= 0 {
		return 0, fmt.Errorf("%w: cantidad solicitada debe ser positiva", domain.ErrInvalidInput)
	}
	if date.IsZero() {
		date = today()
	}
	available, err := s.availableStock(tenantID, itemID, warehouse, date)
	if err != nil {
		return 0, err
	}
	if available <= 0 {
		return available, fmt.Errorf("%w: item_id=%d", domain.ErrZeroStock, itemID)
	}
	if available < requestedQty {
		return available, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, available, requestedQty)
	}
	return available, nil
}

// availableStock lee el cierre de la fila más reciente <= date. Si el
// artículo no tiene filas hasta esa fecha, cae a su fila más reciente
// (paridad con el sistema de origen). Lectura sin bloqueo sobre estado
// confirmado; tolera un snapshot levemente desfasado.
func (s *Service) availableStock(tenantID string, itemID int64, warehouse string, date time.Time) (int64, error) {
	rec, err := s.balances.LatestOnOrBefore(tenantID, itemID, warehouse, entity.DateOnly(date))
	if err != nil {
		return 0, err
	}
	if rec == nil {
		rec, err = s.balances.Latest(tenantID, itemID, warehouse)
		if err != nil {
			return 0, err
		}
	}
	if rec == nil {
		return 0, fmt.Errorf("%w: item_id=%d", domain.ErrNotFound, itemID)
	}
	return rec.ClosingBalance(), nil
}
