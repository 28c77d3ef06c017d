package order

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/identity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// ReceiptGenerator puerto de salida que dibuja el comprobante de un pedido.
type ReceiptGenerator interface {
	GenerateOrderReceipt(ctx context.Context, o *entity.Order, client *entity.Client, seller *entity.Seller) ([]byte, error)
}

// ReceiptUseCase genera el comprobante PDF de un pedido del llamador.
type ReceiptUseCase struct {
	orders    *UseCase
	clients   repository.ClientRepository
	sellers   repository.SellerRepository
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(orders *UseCase, clients repository.ClientRepository, sellers repository.SellerRepository, generator ReceiptGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{orders: orders, clients: clients, sellers: sellers, generator: generator}
}

// Download devuelve los bytes del PDF y el nombre de archivo sugerido.
//   - domain.ErrNotFound  si el pedido no existe.
//   - domain.ErrForbidden si el pedido es de otro vendedor.
func (uc *ReceiptUseCase) Download(ctx context.Context, orderID string) (pdfBytes []byte, filename string, err error) {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return nil, "", domain.ErrUnauthorized
	}
	o, err := uc.orders.ownedOrder(ctx, caller, orderID)
	if err != nil {
		return nil, "", err
	}
	client, err := uc.clients.GetByID(ctx, o.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if client == nil {
		client = &entity.Client{ID: o.ClientID}
	}
	seller, err := uc.sellers.GetByID(ctx, o.SellerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener vendedor: %w", err)
	}
	if seller == nil {
		seller = &entity.Seller{ID: o.SellerID, Name: caller.Name, Email: caller.Email}
	}

	pdfBytes, err = uc.generator.GenerateOrderReceipt(ctx, o, client, seller)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}
	return pdfBytes, fmt.Sprintf("pedido-%s.pdf", o.ID), nil
}
