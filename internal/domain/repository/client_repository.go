package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByEmail(ctx context.Context, email string) (*entity.Client, error)
	ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Client, error)
	// Update no modifica SellerID.
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id string) error
}
