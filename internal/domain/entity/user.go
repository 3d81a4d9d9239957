package entity

import "time"

// Roles válidos para User. "md" es el dueño de la cuenta (tenant);
// los empleados operan bajo el mismo tenant con acceso por bodega.
const (
	RoleMD       = "md"
	RoleEmployee = "employee"
)

// User representa un usuario del sistema. El TenantID de un empleado es el
// ID del usuario MD bajo el cual opera.
type User struct {
	ID           string
	TenantID     string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // md, employee
	AccessCode   string // código de acceso del tenant para operaciones privilegiadas
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Subscription es el plan vigente del tenant. Los planes free o inactivos
// quedan sujetos al límite de operaciones del guard de cuota.
type Subscription struct {
	TenantID  string
	Plan      string // free, pro
	IsActive  bool
	ExpiresAt time.Time
}
