package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrZeroStock          = errors.New("artículo sin stock disponible")
	ErrDuplicateWarehouse = errors.New("bodega origen y destino deben ser distintas")
	ErrQuotaExceeded      = errors.New("límite del plan gratuito alcanzado")
	ErrConcurrency        = errors.New("conflicto de concurrencia, reintente la operación")
	ErrTimeout            = errors.New("la operación excedió el tiempo límite")
)
