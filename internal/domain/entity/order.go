package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// OrderStatus estado de un pedido. Conjunto cerrado.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDIENTE"
	OrderStatusCompleted OrderStatus = "COMPLETADO"
	OrderStatusCancelled OrderStatus = "CANCELADO"
)

// ParseOrderStatus convierte texto libre en un OrderStatus válido (sin distinguir mayúsculas).
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("%w: estado de pedido desconocido %q", domain.ErrInvalidInput, s)
	}
}

// LineItem línea de un pedido. Name y UnitPrice se capturan al descontar el stock.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal precio unitario por cantidad.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Order pedido de un vendedor para uno de sus clientes.
type Order struct {
	ID        string
	SellerID  string
	ClientID  string
	Items     []LineItem
	Status    OrderStatus
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecalculateTotal suma los subtotales de las líneas.
func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	o.Total = total
}
