package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain/inventory"
)

// Tipos de evento de pedidos.
const (
	EventOrderCreated  = "OrderCreated"
	EventOrderUpdated  = "OrderUpdated"
	EventOrderDeleted  = "OrderDeleted"
	EventStockRejected = "StockRejected"
)

// OrderEvent sobre publicado tras una mutación de pedido o un rechazo por stock.
type OrderEvent struct {
	Type       string                 `json:"type"`
	OrderID    string                 `json:"order_id,omitempty"`
	SellerID   string                 `json:"seller_id"`
	ClientID   string                 `json:"client_id,omitempty"`
	Status     string                 `json:"status,omitempty"`
	Total      decimal.Decimal        `json:"total"`
	ProductID  string                 `json:"product_id,omitempty"`
	Committed  []inventory.StockDelta `json:"committed,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// EventPublisher puerto de salida para eventos de pedidos (Kafka o no-op).
type EventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

// NopPublisher descarta los eventos.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }
