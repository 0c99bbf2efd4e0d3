// Package fbr contiene catálogos y utilidades alineados a la especificación
// técnica de Digital Invoicing de FBR (Pakistán).
package fbr

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ── Tipos de documento ──────────────────────────────────────────────────────

const (
	InvoiceTypeSale      = "Sale Invoice"
	InvoiceTypeDebitNote = "Debit Note"
)

// ValidInvoiceTypes tipos de documento aceptados por el gateway.
var ValidInvoiceTypes = map[string]bool{
	InvoiceTypeSale:      true,
	InvoiceTypeDebitNote: true,
}

// ── Tipo de registro del comprador ──────────────────────────────────────────

const (
	RegistrationRegistered   = "Registered"
	RegistrationUnregistered = "Unregistered"
)

// ValidRegistrationTypes tipos de registro del comprador.
var ValidRegistrationTypes = map[string]bool{
	RegistrationRegistered:   true,
	RegistrationUnregistered: true,
}

// ── Tipos de venta (saleType) ───────────────────────────────────────────────

const (
	SaleTypeStandard        = "Goods at standard rate (default)"
	SaleTypeReduced         = "Goods at Reduced Rate"
	SaleTypeThirdSchedule   = "3rd Schedule Goods"
	SaleTypeExempt          = "Exempt goods"
	SaleTypeZeroRated       = "Goods at zero-rate"
	SaleTypeServices        = "Services"
	SaleTypeServicesFED     = "Services (FED in ST Mode)"
	SaleTypeSteelMelting    = "Steel melting and re-rolling"
	SaleTypeCottonGinners   = "Cotton ginners"
	SaleTypeTelecom         = "Telecommunication services"
	SaleTypePetroleum       = "Petroleum Products"
	SaleTypeElectricitySale = "Electricity Supply to Retailers"
)

// SaleTypes catálogo de referencia; el gateway es la autoridad final.
var SaleTypes = []string{
	SaleTypeStandard, SaleTypeReduced, SaleTypeThirdSchedule, SaleTypeExempt,
	SaleTypeZeroRated, SaleTypeServices, SaleTypeServicesFED, SaleTypeSteelMelting,
	SaleTypeCottonGinners, SaleTypeTelecom, SaleTypePetroleum, SaleTypeElectricitySale,
}

// Valores por defecto para una línea nueva.
const (
	DefaultRate     = "18%"
	DefaultUoM      = "pcs"
	DefaultSaleType = SaleTypeStandard
)

// ── Provincias ──────────────────────────────────────────────────────────────

const (
	ProvincePunjab      = "Punjab"
	ProvinceSindh       = "Sindh"
	ProvinceKPK         = "Khyber Pakhtunkhwa"
	ProvinceBalochistan = "Balochistan"
	ProvinceICT         = "Islamabad Capital Territory"
	ProvinceGB          = "Gilgit Baltistan"
	ProvinceAJK         = "Azad Jammu And Kashmir"
)

// Provinces provincias reconocidas por FBR.
var Provinces = map[string]bool{
	ProvincePunjab: true, ProvinceSindh: true, ProvinceKPK: true, ProvinceBalochistan: true,
	ProvinceICT: true, ProvinceGB: true, ProvinceAJK: true,
}

var provinceAliases = map[string]string{
	"kpk":          ProvinceKPK,
	"kp":           ProvinceKPK,
	"nwfp":         ProvinceKPK,
	"ict":          ProvinceICT,
	"islamabad":    ProvinceICT,
	"federal":      ProvinceICT,
	"capital":      ProvinceICT,
	"gb":           ProvinceGB,
	"gilgit":       ProvinceGB,
	"ajk":          ProvinceAJK,
	"azad kashmir": ProvinceAJK,
}

var titleCaser = cases.Title(language.English)

// CanonicalProvince normaliza el nombre de provincia ("PUNJAB", "kpk", "Federal")
// al nombre canónico del catálogo. Si no lo reconoce devuelve el texto en Title Case.
func CanonicalProvince(s string) string {
	s = strings.Join(strings.Fields(strings.ReplaceAll(s, "-", " ")), " ")
	if s == "" {
		return ""
	}
	if alias, ok := provinceAliases[strings.ToLower(s)]; ok {
		return alias
	}
	return titleCaser.String(s)
}

// IsKnownProvince indica si la provincia (ya normalizada o no) está en el catálogo.
func IsKnownProvince(s string) bool {
	return Provinces[CanonicalProvince(s)]
}

// ── Códigos de respuesta del gateway ────────────────────────────────────────

const (
	StatusCodeValid   = "00"
	StatusCodeInvalid = "01"
	StatusValid       = "Valid"
	StatusInvalid     = "Invalid"
)
