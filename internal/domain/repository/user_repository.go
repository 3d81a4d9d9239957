package repository

import "github.com/priscom/ledger-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
	// AccessCode devuelve el código de acceso almacenado del tenant
	// (cadena vacía si no tiene uno configurado).
	AccessCode(tenantID string) (string, error)
	Update(user *entity.User) error
}

// SubscriptionRepository define el puerto para consultar el plan del tenant.
type SubscriptionRepository interface {
	// Latest devuelve la suscripción más reciente del tenant o nil si nunca
	// contrató un plan (se trata como free inactivo).
	Latest(tenantID string) (*entity.Subscription, error)
}

// WarehouseAccessRepository define el puerto de los permisos por bodega que
// un MD concede a sus empleados.
type WarehouseAccessRepository interface {
	HasAccess(tenantID, username, warehouse string) (bool, error)
	ListWarehouses(tenantID, username string) ([]string, error)
}
