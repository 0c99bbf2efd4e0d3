package dto

// PageRequest paginación por número de página (page empieza en 1).
type PageRequest struct {
	Page  int `query:"page" validate:"min=1"`
	Limit int `query:"limit" validate:"min=1,max=100"`
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
	Details any          `json:"details,omitempty"`
}

// FieldError error de validación por campo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
