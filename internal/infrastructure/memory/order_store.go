package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderStore)(nil)

// OrderStore pedidos en memoria. Las líneas se copian al entrar y al salir.
type OrderStore struct {
	mu   sync.RWMutex
	rows map[string]entity.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{rows: make(map[string]entity.Order)}
}

func cloneOrder(o entity.Order) *entity.Order {
	o.Items = append([]entity.LineItem(nil), o.Items...)
	return &o
}

func (s *OrderStore) Create(_ context.Context, o *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[o.ID]; ok {
		return domain.ErrDuplicate
	}
	s.rows[o.ID] = *cloneOrder(*o)
	return nil
}

func (s *OrderStore) GetByID(_ context.Context, id string) (*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

// Update reemplaza el pedido; el dueño original no cambia.
func (s *OrderStore) Update(_ context.Context, o *entity.Order, prevUpdatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if !cur.UpdatedAt.Equal(prevUpdatedAt) {
		return domain.ErrConflict
	}
	upd := *cloneOrder(*o)
	upd.SellerID = cur.SellerID
	upd.CreatedAt = cur.CreatedAt
	s.rows[o.ID] = upd
	return nil
}

func (s *OrderStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *OrderStore) ListBySeller(_ context.Context, sellerID string) ([]*entity.Order, error) {
	return s.filter(func(o entity.Order) bool { return o.SellerID == sellerID }), nil
}

func (s *OrderStore) ListBySellerAndStatus(_ context.Context, sellerID string, status entity.OrderStatus) ([]*entity.Order, error) {
	return s.filter(func(o entity.Order) bool { return o.SellerID == sellerID && o.Status == status }), nil
}

func (s *OrderStore) filter(keep func(entity.Order) bool) []*entity.Order {
	s.mu.RLock()
	var out []*entity.Order
	for _, o := range s.rows {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
