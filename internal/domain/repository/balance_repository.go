package repository

import (
	"time"

	"github.com/priscom/ledger-api/internal/domain/entity"
)

// BalanceRepository define el puerto de persistencia del libro de saldos
// diarios. Todos los escritores del motor pasan por Upsert; nadie escribe el
// saldo de cierre directamente (columna generada en la tabla).
type BalanceRepository interface {
	// Get devuelve la fila exacta (tenant, item, bodega, fecha) o nil si no existe.
	Get(tenantID string, itemID int64, warehouse string, date time.Time) (*entity.BalanceRecord, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(tenantID string, itemID int64, warehouse string, date time.Time) (*entity.BalanceRecord, error)
	// PreviousClosing devuelve el saldo de cierre de la fila más reciente con
	// fecha estrictamente anterior; 0 si no hay filas previas.
	PreviousClosing(tenantID string, itemID int64, warehouse string, date time.Time) (int64, error)
	// LatestOnOrBefore devuelve la fila más reciente con fecha <= date.
	// warehouse vacío busca en cualquier bodega del tenant. nil si no hay filas.
	LatestOnOrBefore(tenantID string, itemID int64, warehouse string, date time.Time) (*entity.BalanceRecord, error)
	// Latest devuelve la fila más reciente del artículo sin cota de fecha.
	Latest(tenantID string, itemID int64, warehouse string) (*entity.BalanceRecord, error)
	// LatestByName resuelve un artículo por nombre en cualquier bodega del
	// tenant (fila más reciente). nil si el nombre no existe.
	LatestByName(tenantID, itemName string) (*entity.BalanceRecord, error)
	// MaxItemID devuelve el item_id más alto del tenant; 0 si no hay artículos.
	MaxItemID(tenantID string) (int64, error)
	// Upsert inserta o actualiza la fila por su clave natural.
	Upsert(record *entity.BalanceRecord) error
	// ListByDate devuelve todas las filas del tenant para una fecha.
	ListByDate(tenantID string, date time.Time) ([]*entity.BalanceRecord, error)
	// ListLatest devuelve la fila más reciente de cada artículo del tenant
	// (para reportes de stock bajo y mapa de artículos).
	ListLatest(tenantID string) ([]*entity.BalanceRecord, error)
}
