package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportStore)(nil)

// ReportStore agrega en Go sobre los stores en memoria.
// Pedidos cuyo cliente o vendedor ya no existe se agrupan igual, sin datos de contacto.
type ReportStore struct {
	orders  *OrderStore
	clients *ClientStore
	sellers *SellerStore
}

func NewReportStore(orders *OrderStore, clients *ClientStore, sellers *SellerStore) *ReportStore {
	return &ReportStore{orders: orders, clients: clients, sellers: sellers}
}

func (s *ReportStore) sumBy(status entity.OrderStatus, key func(entity.Order) string) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	s.orders.mu.RLock()
	defer s.orders.mu.RUnlock()
	for _, o := range s.orders.rows {
		if o.Status != status {
			continue
		}
		k := key(o)
		sums[k] = sums[k].Add(o.Total)
	}
	return sums
}

func (s *ReportStore) ClientTotals(ctx context.Context, status entity.OrderStatus) ([]entity.ClientTotal, error) {
	sums := s.sumBy(status, func(o entity.Order) string { return o.ClientID })
	out := make([]entity.ClientTotal, 0, len(sums))
	for id, total := range sums {
		row := entity.ClientTotal{ClientID: id, Total: total}
		if c, _ := s.clients.GetByID(ctx, id); c != nil {
			row.Name, row.LastName, row.Company, row.Email = c.Name, c.LastName, c.Company, c.Email
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *ReportStore) SellerTotals(ctx context.Context, status entity.OrderStatus) ([]entity.SellerTotal, error) {
	sums := s.sumBy(status, func(o entity.Order) string { return o.SellerID })
	out := make([]entity.SellerTotal, 0, len(sums))
	for id, total := range sums {
		row := entity.SellerTotal{SellerID: id, Total: total}
		if v, _ := s.sellers.GetByID(ctx, id); v != nil {
			row.Name, row.LastName, row.Email = v.Name, v.LastName, v.Email
		}
		out = append(out, row)
	}
	return out, nil
}
