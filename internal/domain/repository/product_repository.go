package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	// Update modifica nombre y precio; nunca escribe el stock.
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	SearchByName(ctx context.Context, term string, limit int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
	// AdjustStock suma delta al stock de forma condicional y serializada por producto.
	// domain.ErrInsufficientStock si el resultado sería negativo (sin efecto parcial);
	// domain.ErrNotFound si el producto no existe.
	AdjustStock(ctx context.Context, id string, delta int) (*entity.Product, error)
}
