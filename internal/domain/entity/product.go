package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto o servicio del usuario; precarga líneas de factura.
type Product struct {
	ID          string
	UserID      string
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	HSCode      string
	Rate        string
	UoM         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
