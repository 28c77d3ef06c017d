package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StockDeltaResponse ajuste de stock ya aplicado.
type StockDeltaResponse struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

// StockErrorResponse cuerpo de toda reserva fallida: 409 por stock, 404 si el producto
// no existe, 500 si falló el catálogo. Committed lista lo que quedó descontado antes
// de la línea que falló.
type StockErrorResponse struct {
	Code        string               `json:"code"`
	Message     string               `json:"message"`
	LineIndex   int                  `json:"line_index"`
	ProductID   string               `json:"product_id"`
	ProductName string               `json:"product_name"`
	Requested   int                  `json:"requested"`
	Available   int                  `json:"available"`
	Committed   []StockDeltaResponse `json:"committed"`
}

// MessageResponse confirmación simple.
type MessageResponse struct {
	Message string `json:"message"`
}
