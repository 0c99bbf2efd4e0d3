package billing

import (
	"fmt"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	infrafbr "github.com/jhoicas/fbr-invoicing/internal/infrastructure/fbr"
)

// RejectedError FBR respondió con un statusCode distinto de "00".
type RejectedError struct {
	Message  string
	Response *infrafbr.InvoiceResponse
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrGatewayRejected.Error(), e.Message)
}

func (e *RejectedError) Unwrap() error { return domain.ErrGatewayRejected }

// ItemStatuses estados por línea devueltos por FBR.
func (e *RejectedError) ItemStatuses() []infrafbr.ItemStatus {
	if e.Response == nil {
		return nil
	}
	return e.Response.ValidationResponse.InvoiceStatuses
}

// PersistenceError FBR aceptó la factura InvoiceNumber pero la transacción local falló.
// errors.Is responde tanto a ErrPersistenceFailed como a la causa.
type PersistenceError struct {
	InvoiceNumber string
	Journaled     bool
	Err           error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s (factura FBR %s): %v", domain.ErrPersistenceFailed.Error(), e.InvoiceNumber, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{domain.ErrPersistenceFailed, e.Err} }
