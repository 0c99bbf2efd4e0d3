package fbr

import fbrcat "github.com/jhoicas/fbr-invoicing/pkg/fbr"

// InvoiceRequest cuerpo JSON de postinvoicedata / validateinvoicedata.
type InvoiceRequest struct {
	InvoiceType           string        `json:"invoiceType"`
	InvoiceDate           string        `json:"invoiceDate"` // YYYY-MM-DD
	SellerNTNCNIC         string        `json:"sellerNTNCNIC"`
	SellerBusinessName    string        `json:"sellerBusinessName"`
	SellerProvince        string        `json:"sellerProvince"`
	SellerAddress         string        `json:"sellerAddress"`
	BuyerNTNCNIC          string        `json:"buyerNTNCNIC,omitempty"`
	BuyerBusinessName     string        `json:"buyerBusinessName"`
	BuyerProvince         string        `json:"buyerProvince"`
	BuyerAddress          string        `json:"buyerAddress"`
	BuyerRegistrationType string        `json:"buyerRegistrationType"`
	InvoiceRefNo          string        `json:"invoiceRefNo,omitempty"`
	ScenarioID            string        `json:"scenarioId,omitempty"`
	Items                 []InvoiceItem `json:"items"`
}

// InvoiceItem línea en el formato del gateway. Los montos viajan como números JSON.
type InvoiceItem struct {
	HSCode                          string  `json:"hsCode"`
	ProductDescription              string  `json:"productDescription"`
	Rate                            string  `json:"rate"`
	UoM                             string  `json:"uoM"`
	Quantity                        float64 `json:"quantity"`
	TotalValues                     float64 `json:"totalValues"`
	ValueSalesExcludingST           float64 `json:"valueSalesExcludingST"`
	FixedNotifiedValueOrRetailPrice float64 `json:"fixedNotifiedValueOrRetailPrice"`
	SalesTaxApplicable              float64 `json:"salesTaxApplicable"`
	SalesTaxWithheldAtSource        float64 `json:"salesTaxWithheldAtSource"`
	ExtraTax                        float64 `json:"extraTax,omitempty"`
	FurtherTax                      float64 `json:"furtherTax,omitempty"`
	SroScheduleNo                   string  `json:"sroScheduleNo,omitempty"`
	FedPayable                      float64 `json:"fedPayable,omitempty"`
	Discount                        float64 `json:"discount,omitempty"`
	SaleType                        string  `json:"saleType"`
	SroItemSerialNo                 string  `json:"sroItemSerialNo,omitempty"`
}

// InvoiceResponse respuesta del gateway.
type InvoiceResponse struct {
	InvoiceNumber      string             `json:"invoiceNumber,omitempty"`
	Dated              string             `json:"dated"`
	ValidationResponse ValidationResponse `json:"validationResponse"`
	// Mock marca respuestas simuladas (sin token configurado); el gateway nunca lo envía.
	Mock bool `json:"mock,omitempty"`
}

// ValidationResponse resultado de validación a nivel factura.
type ValidationResponse struct {
	StatusCode      string       `json:"statusCode"`
	Status          string       `json:"status"`
	Error           string       `json:"error"`
	ErrorCode       *string      `json:"errorCode,omitempty"`
	InvoiceStatuses []ItemStatus `json:"invoiceStatuses"`
}

// ItemStatus resultado por línea.
type ItemStatus struct {
	ItemSNo    string  `json:"itemSNo"`
	StatusCode string  `json:"statusCode"`
	Status     string  `json:"status"`
	InvoiceNo  *string `json:"invoiceNo"`
	ErrorCode  *string `json:"errorCode"`
	Error      string  `json:"error"`
}

// Accepted es true solo si la cabecera y todas las líneas traen statusCode "00".
func (r *InvoiceResponse) Accepted() bool {
	if r == nil || r.ValidationResponse.StatusCode != fbrcat.StatusCodeValid {
		return false
	}
	for _, st := range r.ValidationResponse.InvoiceStatuses {
		if st.StatusCode != fbrcat.StatusCodeValid {
			return false
		}
	}
	return true
}

// RejectionMessage texto legible del rechazo: el error de cabecera o el primero por línea.
func (r *InvoiceResponse) RejectionMessage() string {
	if r == nil {
		return ""
	}
	if r.ValidationResponse.Error != "" {
		return r.ValidationResponse.Error
	}
	for _, st := range r.ValidationResponse.InvoiceStatuses {
		if st.StatusCode != fbrcat.StatusCodeValid && st.Error != "" {
			return "línea " + st.ItemSNo + ": " + st.Error
		}
	}
	return r.ValidationResponse.Status
}
