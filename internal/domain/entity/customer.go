package entity

import "time"

// Customer cliente del usuario; se usa para precargar el comprador de una factura.
type Customer struct {
	ID               string
	UserID           string
	Name             string
	Email            string
	Address          string
	NTN              string
	Province         string
	RegistrationType string // Registered | Unregistered
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
