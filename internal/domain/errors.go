package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Alcance y autorización.
	ErrUnknownRole = errors.New("rol desconocido")

	// Pagos por período.
	ErrInvalidPeriod       = errors.New("período inválido")
	ErrFarmerNotFound      = errors.New("productor no encontrado")
	ErrDuplicatePayment    = errors.New("el productor ya tiene un pago registrado para el período")
	ErrNotPayable          = errors.New("el productor no tiene entregas en el período")
	ErrCenterInactive      = errors.New("el centro de acopio está inactivo")
	ErrFarmerCodeExhausted = errors.New("no se pudo asignar un código de productor único")
)
