package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/priscom/ledger-api/internal/domain"
	"github.com/priscom/ledger-api/internal/domain/entity"
)

// minWriteOffReason longitud mínima de la justificación de una baja.
const minWriteOffReason = 5

// TransferInput traslado de stock entre bodegas. DestItemName distinto del
// nombre origen representa un producto transformado en destino.
type TransferInput struct {
	SourceWarehouse string
	DestWarehouse   string
	ItemID          int64
	DestItemName    string // opcional; vacío = mismo artículo
	Quantity        int64
	IssuedBy        string
	ReceivedBy      string
	Notes           string
	MovementDate    time.Time
}

// IssueInput entrega de stock a un cliente (solo pierna origen).
type IssueInput struct {
	SourceWarehouse string
	ItemID          int64
	Quantity        int64
	IssuedBy        string
	CustomerName    string
	Notes           string
	MovementDate    time.Time
}

// WriteOffInput baja de stock (daño, vencimiento, pérdida). Notes es
// obligatorio con longitud mínima.
type WriteOffInput struct {
	SourceWarehouse string
	ItemID          int64
	Quantity        int64
	IssuedBy        string
	Notes           string
	MovementDate    time.Time
}

// Transfer traslada stock de una bodega a otra: salida en origen, entrada en
// destino bajo la identidad de artículo resuelta, y un registro inmutable de
// movimiento. Todo o nada: si la pierna destino falla, la de origen tampoco
// queda visible.
func (s *Service) Transfer(ctx context.Context, actor Actor, in TransferInput) (*entity.StockMovement, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if in.SourceWarehouse == in.DestWarehouse {
		return nil, domain.ErrDuplicateWarehouse
	}
	if err := s.quota.Ensure(actor.TenantID); err != nil {
		return nil, err
	}
	if err := s.authz.CanAccessWarehouse(actor.TenantID, actor.Username, actor.Role, in.SourceWarehouse); err != nil {
		return nil, err
	}
	if err := s.authz.CanAccessWarehouse(actor.TenantID, actor.Username, actor.Role, in.DestWarehouse); err != nil {
		return nil, err
	}
	date := movementDate(in.MovementDate)

	// La pierna destino escribe bajo la identidad RESUELTA del artículo
	// destino, así que es esa clave la que debe serializar frente a otros
	// escritores. Se resuelve antes de bloquear: un nombre ya existente fija
	// su item_id de forma permanente, por lo que la resolución es estable.
	// Si el nombre no existe todavía, la transacción acuñará una identidad
	// nueva (max(item_id)+1): se toma el tenant completo en exclusiva para
	// serializar la acuñación frente a cualquier otra escritura.
	destKeyID := in.ItemID
	mintsIdentity := false
	if in.DestItemName != "" {
		existing, err := s.balances.LatestByName(actor.TenantID, in.DestItemName)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			destKeyID = existing.ItemID
		} else {
			mintsIdentity = true
		}
	}
	var unlock func()
	if mintsIdentity {
		unlock = s.locks.lockTenant(actor.TenantID)
	} else {
		unlock = s.locks.lockKeys(actor.TenantID,
			key{actor.TenantID, in.ItemID, in.SourceWarehouse},
			key{actor.TenantID, destKeyID, in.DestWarehouse},
		)
	}
	defer unlock()

	var mov *entity.StockMovement
	err := s.runTx(ctx, func(r Repos) error {
		srcRow, err := resolveSourceRow(r, actor.TenantID, in.ItemID, in.SourceWarehouse, date)
		if err != nil {
			return err
		}
		if err := guardSufficient(srcRow, in.Quantity); err != nil {
			return err
		}
		if _, err := upsertDaily(r, actor.TenantID, srcRow, in.ItemID, in.SourceWarehouse, date, 0, in.Quantity, 0); err != nil {
			return err
		}

		destName := in.DestItemName
		if destName == "" {
			destName = srcRow.ItemName
		}
		destID, destMeta, err := resolveDestItem(r, actor.TenantID, srcRow, destName)
		if err != nil {
			return err
		}
		if _, err := upsertDaily(r, actor.TenantID, destMeta, destID, in.DestWarehouse, date, in.Quantity, 0, 0); err != nil {
			return err
		}

		mov = &entity.StockMovement{
			ID:            uuid.New().String(),
			TenantID:      actor.TenantID,
			Kind:          entity.MovementTransfer,
			FromWarehouse: in.SourceWarehouse,
			ToWarehouse:   in.DestWarehouse,
			ItemID:        in.ItemID,
			DestItemID:    destID,
			ItemName:      srcRow.ItemName,
			DestItemName:  destName,
			Quantity:      in.Quantity,
			IssuedBy:      in.IssuedBy,
			ReceivedBy:    in.ReceivedBy,
			Notes:         in.Notes,
			MovementDate:  time.Now().UTC(),
			CreatedAt:     time.Now().UTC(),
			Status:        "completed",
		}
		return r.Movements.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// Issue entrega stock a un cliente: una sola pierna de salida en origen.
func (s *Service) Issue(ctx context.Context, actor Actor, in IssueInput) (*entity.StockMovement, error) {
	notes := in.Notes
	if in.CustomerName != "" {
		notes = strings.TrimSpace(fmt.Sprintf("Customer: %s. %s", in.CustomerName, in.Notes))
	}
	return s.singleLegOut(ctx, actor, entity.MovementIssue, in.SourceWarehouse, in.ItemID, in.Quantity, in.IssuedBy, notes, in.MovementDate)
}

// WriteOff da de baja stock dañado, vencido o perdido. La justificación es
// obligatoria y el registro queda marcado para distinguirlo de una venta.
func (s *Service) WriteOff(ctx context.Context, actor Actor, in WriteOffInput) (*entity.StockMovement, error) {
	if len(strings.TrimSpace(in.Notes)) < minWriteOffReason {
		return nil, fmt.Errorf("%w: la baja requiere una justificación de al menos %d caracteres", domain.ErrInvalidInput, minWriteOffReason)
	}
	return s.singleLegOut(ctx, actor, entity.MovementWriteOff, in.SourceWarehouse, in.ItemID, in.Quantity, in.IssuedBy, entity.WriteOffPrefix+in.Notes, in.MovementDate)
}

func (s *Service) singleLegOut(ctx context.Context, actor Actor, kind, warehouse string, itemID, quantity int64, issuedBy, notes string, date time.Time) (*entity.StockMovement, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if err := s.quota.Ensure(actor.TenantID); err != nil {
		return nil, err
	}
	if err := s.authz.CanAccessWarehouse(actor.TenantID, actor.Username, actor.Role, warehouse); err != nil {
		return nil, err
	}
	date = movementDate(date)

	unlock := s.locks.lockKeys(actor.TenantID, key{actor.TenantID, itemID, warehouse})
	defer unlock()

	var mov *entity.StockMovement
	err := s.runTx(ctx, func(r Repos) error {
		srcRow, err := resolveSourceRow(r, actor.TenantID, itemID, warehouse, date)
		if err != nil {
			return err
		}
		if err := guardSufficient(srcRow, quantity); err != nil {
			return err
		}
		if _, err := upsertDaily(r, actor.TenantID, srcRow, itemID, warehouse, date, 0, quantity, 0); err != nil {
			return err
		}
		mov = &entity.StockMovement{
			ID:            uuid.New().String(),
			TenantID:      actor.TenantID,
			Kind:          kind,
			FromWarehouse: warehouse,
			ItemID:        itemID,
			DestItemID:    itemID,
			ItemName:      srcRow.ItemName,
			DestItemName:  srcRow.ItemName,
			Quantity:      quantity,
			IssuedBy:      issuedBy,
			Notes:         notes,
			MovementDate:  time.Now().UTC(),
			CreatedAt:     time.Now().UTC(),
			Status:        "completed",
		}
		return r.Movements.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// resolveSourceRow localiza el saldo vigente del artículo en la bodega origen
// a la fecha del movimiento, cayendo a su fila más reciente.
func resolveSourceRow(r Repos, tenantID string, itemID int64, warehouse string, date time.Time) (*entity.BalanceRecord, error) {
	row, err := r.Balances.LatestOnOrBefore(tenantID, itemID, warehouse, date)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row, err = r.Balances.Latest(tenantID, itemID, warehouse)
		if err != nil {
			return nil, err
		}
	}
	if row == nil {
		return nil, fmt.Errorf("%w: item_id=%d en bodega %q", domain.ErrNotFound, itemID, warehouse)
	}
	return row, nil
}

// guardSufficient aplica la política del guard dentro de la transacción:
// sin disponible falla con ErrZeroStock, disponible menor al solicitado con
// ErrInsufficientStock. Los llamadores custodiados nunca llegan al recorte
// silencioso del upserter.
func guardSufficient(row *entity.BalanceRecord, required int64) error {
	available := row.ClosingBalance()
	if available <= 0 {
		return fmt.Errorf("%w: %q en bodega %q", domain.ErrZeroStock, row.ItemName, row.Warehouse)
	}
	if available < required {
		return fmt.Errorf("%w: disponible %d en %q, solicitado %d", domain.ErrInsufficientStock, available, row.Warehouse, required)
	}
	return nil
}

// resolveDestItem determina la identidad del artículo en destino:
// reutiliza el item_id si el nombre ya existe en cualquier bodega del tenant;
// si es una transformación a un nombre nuevo, acuña max(item_id)+1; si no,
// conserva la identidad origen.
func resolveDestItem(r Repos, tenantID string, srcRow *entity.BalanceRecord, destName string) (int64, *entity.BalanceRecord, error) {
	existing, err := r.Balances.LatestByName(tenantID, destName)
	if err != nil {
		return 0, nil, err
	}
	if existing != nil {
		meta := *existing
		meta.ItemName = destName
		return existing.ItemID, &meta, nil
	}
	meta := *srcRow
	meta.ItemName = destName
	if destName != srcRow.ItemName {
		maxID, err := r.Balances.MaxItemID(tenantID)
		if err != nil {
			return 0, nil, err
		}
		return maxID + 1, &meta, nil
	}
	return srcRow.ItemID, &meta, nil
}

func movementDate(d time.Time) time.Time {
	if d.IsZero() {
		return today()
	}
	return entity.DateOnly(d)
}
