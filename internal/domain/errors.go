package domain

import (
	"errors"
	"strings"
)

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
	ErrSessionExpired     = errors.New("sesión expirada o inexistente")
)

// Errores del pipeline de envío a FBR.
var (
	ErrValidationFailed   = errors.New("la factura no pasó la validación")
	ErrGatewayUnreachable = errors.New("no se pudo contactar al gateway de FBR")
	ErrGatewayRejected    = errors.New("FBR rechazó la factura")
	ErrPersistenceFailed  = errors.New("FBR aceptó la factura pero no se pudo registrar localmente")
)

// FieldError error de validación asociado a un campo del borrador.
// Field usa la ruta JSON del campo, p. ej. "buyer.ntn" o "line_items[0].hs_code".
type FieldError struct {
	Field   string
	Message string
}

// ValidationError agrupa los errores de campo; errors.Is(err, ErrValidationFailed) es true.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidationFailed.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
