package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ReportRepository agrega totales de pedidos en un estado dado.
// Devuelve sumas sin ordenar; el ranking es responsabilidad del caso de uso.
type ReportRepository interface {
	ClientTotals(ctx context.Context, status entity.OrderStatus) ([]entity.ClientTotal, error)
	SellerTotals(ctx context.Context, status entity.OrderStatus) ([]entity.SellerTotal, error)
}
