package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/priscom/ledger-api/internal/domain"
	"github.com/priscom/ledger-api/internal/domain/entity"
)

// Upsert aplica deltas del día (entradas, salidas, devoluciones) al saldo de
// (tenant, item, warehouse, date). Crea la fila perezosamente arrastrando el
// cierre anterior como apertura; si ya existe, suma sobre los acumulados.
//
// Este es el camino NO custodiado: conserva el descarte silencioso de una
// salida imposible (total disponible <= 0) por paridad con el sistema de
// origen. Los llamadores de venta deben pasar antes por CheckAvailability,
// que rechaza la operación completa en lugar de recortar.
func (s *Service) Upsert(ctx context.Context, tenantID string, itemID int64, warehouse string, date time.Time, deltaIn, deltaOut, deltaReturn int64) (*entity.BalanceRecord, error) {
	if deltaIn < 0 || deltaOut < 0 || deltaReturn < 0 {
		return nil, fmt.Errorf("%w: los deltas no pueden ser negativos", domain.ErrInvalidInput)
	}
	date = entity.DateOnly(date)

	// Metadatos del artículo desde su fila más reciente (cualquier bodega).
	itemRow, err := s.balances.Latest(tenantID, itemID, "")
	if err != nil {
		return nil, err
	}
	if itemRow == nil {
		return nil, fmt.Errorf("%w: item_id=%d", domain.ErrNotFound, itemID)
	}

	unlock := s.locks.lockKeys(tenantID, key{tenantID, itemID, warehouse})
	defer unlock()

	var rec *entity.BalanceRecord
	err = s.runTx(ctx, func(r Repos) error {
		var txErr error
		rec, txErr = upsertDaily(r, tenantID, itemRow, itemID, warehouse, date, deltaIn, deltaOut, deltaReturn)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// upsertDaily es el núcleo del upserter; corre dentro de una transacción con
// la fila del día bloqueada (FOR UPDATE). itemRow aporta el snapshot de
// metadatos cuando hay que crear la fila.
func upsertDaily(r Repos, tenantID string, itemRow *entity.BalanceRecord, itemID int64, warehouse string, date time.Time, deltaIn, deltaOut, deltaReturn int64) (*entity.BalanceRecord, error) {
	existing, err := r.Balances.GetForUpdate(tenantID, itemID, warehouse, date)
	if err != nil {
		return nil, err
	}

	var rec *entity.BalanceRecord
	if existing != nil {
		// Nunca sobreescribir: los deltas se suman a los acumulados del día.
		existing.SuppliedQuantity += deltaIn
		existing.StockOut += deltaOut
		existing.ReturnQuantity += deltaReturn
		rec = existing
	} else {
		open, err := r.Balances.PreviousClosing(tenantID, itemID, warehouse, date)
		if err != nil {
			return nil, err
		}
		rec = &entity.BalanceRecord{
			TenantID:         tenantID,
			ItemID:           itemID,
			ItemName:         itemRow.ItemName,
			Warehouse:        warehouse,
			LogDate:          date,
			OpenBalance:      open,
			SuppliedQuantity: deltaIn,
			StockOut:         deltaOut,
			ReturnQuantity:   deltaReturn,
			Price:            itemRow.Price,
			ReorderLevel:     itemRow.ReorderLevel,
			Barcode:          itemRow.Barcode,
		}
	}

	// Descarte silencioso: sin disponible (apertura+entradas+devoluciones <= 0)
	// una salida positiva se pone a cero en vez de dejar cierre negativo.
	// Comportamiento heredado, solo para este camino sin guard.
	if rec.TotalAvailable() <= 0 && deltaOut > 0 {
		rec.StockOut = 0
	}

	rec.LastUpdated = time.Now().UTC()
	if err := r.Balances.Upsert(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateLog da de alta la primera fila de saldo de un artículo (alta de
// catálogo vía reabastecimiento inicial). Falla con ErrDuplicate si ya existe
// una fila para la clave del día.
func (s *Service) CreateLog(ctx context.Context, actor Actor, rec *entity.BalanceRecord) (*entity.BalanceRecord, error) {
	if rec.ItemName == "" || rec.Warehouse == "" {
		return nil, fmt.Errorf("%w: item_name y warehouse_name son obligatorios", domain.ErrInvalidInput)
	}
	if rec.OpenBalance < 0 || rec.SuppliedQuantity < 0 || rec.StockOut < 0 || rec.ReturnQuantity < 0 {
		return nil, fmt.Errorf("%w: cantidades negativas", domain.ErrInvalidInput)
	}
	if err := s.quota.Ensure(actor.TenantID); err != nil {
		return nil, err
	}
	rec.TenantID = actor.TenantID
	rec.LogDate = entity.DateOnly(rec.LogDate)

	// La acuñación de identidad (max(item_id)+1) debe serializar frente a
	// cualquier otra escritura del tenant; con item_id explícito basta la
	// clave propia.
	mint := rec.ItemID == 0
	var unlock func()
	if mint {
		unlock = s.locks.lockTenant(actor.TenantID)
	} else {
		unlock = s.locks.lockKeys(actor.TenantID, key{actor.TenantID, rec.ItemID, rec.Warehouse})
	}
	defer unlock()

	err := s.runTx(ctx, func(r Repos) error {
		if mint {
			maxID, err := r.Balances.MaxItemID(actor.TenantID)
			if err != nil {
				return err
			}
			rec.ItemID = maxID + 1
		} else {
			existing, err := r.Balances.Get(actor.TenantID, rec.ItemID, rec.Warehouse, rec.LogDate)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.ErrDuplicate
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
