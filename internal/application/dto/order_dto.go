package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest línea pedida: producto y cantidad positiva.
type LineItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// CreateOrderRequest entrada para crear un pedido.
type CreateOrderRequest struct {
	ClientID string            `json:"client_id" validate:"required"`
	Items    []LineItemRequest `json:"items" validate:"required,min=1"`
}

// UpdateOrderRequest parche de pedido; los campos nil no cambian.
type UpdateOrderRequest struct {
	ClientID *string           `json:"client_id"`
	Items    []LineItemRequest `json:"items"`
	Status   *string           `json:"status" validate:"omitempty,oneof=PENDIENTE COMPLETADO CANCELADO"`
}

// LineItemResponse línea con el nombre y precio capturados al confirmar.
type LineItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID        string             `json:"id"`
	SellerID  string             `json:"seller_id"`
	ClientID  string             `json:"client_id"`
	Items     []LineItemResponse `json:"items"`
	Status    string             `json:"status"`
	Total     decimal.Decimal    `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// OrderListResponse pedidos del vendedor autenticado.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
}
