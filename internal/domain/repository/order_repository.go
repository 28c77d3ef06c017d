package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order.
// Las lecturas por dueño filtran en la consulta, no después.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// Update persiste el pedido solo si su updated_at sigue siendo prevUpdatedAt;
	// si otro escritor lo cambió antes devuelve domain.ErrConflict.
	Update(ctx context.Context, order *entity.Order, prevUpdatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	ListBySeller(ctx context.Context, sellerID string) ([]*entity.Order, error)
	ListBySellerAndStatus(ctx context.Context, sellerID string, status entity.OrderStatus) ([]*entity.Order, error)
}
