package ledger

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/priscom/ledger-api/internal/domain"
	"github.com/priscom/ledger-api/internal/domain/entity"
)

// AdjustInput corrección manual de los contadores de un día. Los punteros en
// nil dejan el contador como está; los valores presentes se FIJAN, no se
// suman. Existe justamente para corregir números sin pasar por el camino de
// venta custodiado, por eso no aplica guard de disponibilidad.
type AdjustInput struct {
	ItemID           int64
	Date             time.Time
	SuppliedQuantity *int64
	StockOut         *int64
	ReturnQuantity   *int64
	AccessCode       string // requerido cuando el actor no es MD
	Notes            string
}

// ManualAdjust fija contadores del día para un artículo. Privilegiada:
// rol md, o código de acceso del tenant válido.
func (s *Service) ManualAdjust(ctx context.Context, actor Actor, in AdjustInput) (*entity.BalanceRecord, error) {
	if err := s.requirePrivilege(actor, in.AccessCode); err != nil {
		return nil, err
	}
	if negative(in.SuppliedQuantity) || negative(in.StockOut) || negative(in.ReturnQuantity) {
		return nil, fmt.Errorf("%w: los contadores no pueden ser negativos", domain.ErrInvalidInput)
	}
	date := in.Date
	if date.IsZero() {
		date = today()
	}
	date = entity.DateOnly(date)

	itemRow, err := s.balances.Latest(actor.TenantID, in.ItemID, "")
	if err != nil {
		return nil, err
	}
	if itemRow == nil {
		return nil, fmt.Errorf("%w: item_id=%d", domain.ErrNotFound, in.ItemID)
	}

	unlock := s.locks.lockKeys(actor.TenantID, key{actor.TenantID, in.ItemID, itemRow.Warehouse})
	defer unlock()

	var rec *entity.BalanceRecord
	err = s.runTx(ctx, func(r Repos) error {
		existing, err := r.Balances.GetForUpdate(actor.TenantID, in.ItemID, itemRow.Warehouse, date)
		if err != nil {
			return err
		}
		if existing != nil {
			// Solo se tocan los contadores provistos.
			applyIfSet(&existing.SuppliedQuantity, in.SuppliedQuantity)
			applyIfSet(&existing.StockOut, in.StockOut)
			applyIfSet(&existing.ReturnQuantity, in.ReturnQuantity)
			rec = existing
		} else {
			open, err := r.Balances.PreviousClosing(actor.TenantID, in.ItemID, itemRow.Warehouse, date)
			if err != nil {
				return err
			}
			rec = &entity.BalanceRecord{
				TenantID:         actor.TenantID,
				ItemID:           in.ItemID,
				ItemName:         itemRow.ItemName,
				Warehouse:        itemRow.Warehouse,
				LogDate:          date,
				OpenBalance:      open,
				SuppliedQuantity: valueOrZero(in.SuppliedQuantity),
				StockOut:         valueOrZero(in.StockOut),
				ReturnQuantity:   valueOrZero(in.ReturnQuantity),
				Price:            itemRow.Price,
				ReorderLevel:     itemRow.ReorderLevel,
				Barcode:          itemRow.Barcode,
			}
		}
		rec.LastUpdated = time.Now().UTC()
		return r.Balances.Upsert(rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ReturnInput devolución de un cliente hacia una bodega.
type ReturnInput struct {
	ItemID     int64
	ItemName   string // alternativa a ItemID
	Warehouse  string // vacío = bodega de la fila más reciente del artículo
	Quantity   int64
	Date       time.Time
	AccessCode string
}

// ReturnItem registra una devolución: delta positivo sobre return_quantity
// vía el upserter. Siempre aditiva, nunca produce saldos negativos. Gateada
// por el código de acceso del tenant (comparación en tiempo constante).
func (s *Service) ReturnItem(ctx context.Context, actor Actor, in ReturnInput) (*entity.BalanceRecord, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	date := in.Date
	if date.IsZero() {
		date = today()
	}
	if err := assertMDOrToday(actor, date); err != nil {
		return nil, err
	}
	if err := s.quota.Ensure(actor.TenantID); err != nil {
		return nil, err
	}
	if err := s.checkAccessCode(actor.TenantID, in.AccessCode); err != nil {
		return nil, err
	}

	itemRow, err := s.resolveItem(actor.TenantID, in.ItemID, in.ItemName)
	if err != nil {
		return nil, err
	}
	warehouse := in.Warehouse
	if warehouse == "" {
		warehouse = itemRow.Warehouse
	}
	return s.Upsert(ctx, actor.TenantID, itemRow.ItemID, warehouse, date, 0, 0, in.Quantity)
}

// requirePrivilege: md pasa directo; cualquier otro rol debe presentar el
// código de acceso del tenant.
func (s *Service) requirePrivilege(actor Actor, accessCode string) error {
	if actor.Role == entity.RoleMD {
		return nil
	}
	return s.checkAccessCode(actor.TenantID, accessCode)
}

// checkAccessCode compara el código presentado contra el almacenado en
// tiempo constante.
func (s *Service) checkAccessCode(tenantID, presented string) error {
	stored, err := s.users.AccessCode(tenantID)
	if err != nil {
		return err
	}
	if stored == "" || presented == "" {
		return domain.ErrForbidden
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		return domain.ErrForbidden
	}
	return nil
}

// resolveItem localiza la fila más reciente del artículo por id o por nombre.
func (s *Service) resolveItem(tenantID string, itemID int64, itemName string) (*entity.BalanceRecord, error) {
	if itemID != 0 {
		row, err := s.balances.Latest(tenantID, itemID, "")
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, fmt.Errorf("%w: item_id=%d", domain.ErrNotFound, itemID)
		}
		return row, nil
	}
	if itemName == "" {
		return nil, fmt.Errorf("%w: indique item_id o item_name", domain.ErrInvalidInput)
	}
	row, err := s.balances.LatestByName(tenantID, itemName)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: artículo %q", domain.ErrNotFound, itemName)
	}
	return row, nil
}

func negative(v *int64) bool { return v != nil && *v < 0 }

func applyIfSet(dst *int64, v *int64) {
	if v != nil {
		*dst = *v
	}
}

func valueOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
