package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequest body para POST/PUT /api/customers.
type CustomerRequest struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email,omitempty"`
	Address          string `json:"address" validate:"required"`
	NTN              string `json:"ntn,omitempty"`
	Province         string `json:"province" validate:"required"`
	RegistrationType string `json:"registration_type" validate:"omitempty,oneof=Registered Unregistered"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email,omitempty"`
	Address          string    `json:"address"`
	NTN              string    `json:"ntn,omitempty"`
	Province         string    `json:"province"`
	RegistrationType string    `json:"registration_type"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProductRequest body para POST/PUT /api/products.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"min=0"`
	HSCode      string          `json:"hs_code" validate:"required"`
	Rate        string          `json:"rate"`
	UoM         string          `json:"uom"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	HSCode      string          `json:"hs_code"`
	Rate        string          `json:"rate"`
	UoM         string          `json:"uom"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
