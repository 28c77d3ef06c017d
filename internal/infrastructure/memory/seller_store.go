package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.SellerRepository = (*SellerStore)(nil)

// SellerStore vendedores en memoria.
type SellerStore struct {
	mu   sync.RWMutex
	rows map[string]entity.Seller
}

func NewSellerStore() *SellerStore {
	return &SellerStore{rows: make(map[string]entity.Seller)}
}

func (s *SellerStore) Create(_ context.Context, v *entity.Seller) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.rows {
		if strings.EqualFold(other.Email, v.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	if _, ok := s.rows[v.ID]; ok {
		return domain.ErrDuplicate
	}
	s.rows[v.ID] = *v
	return nil
}

func (s *SellerStore) GetByID(_ context.Context, id string) (*entity.Seller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (s *SellerStore) GetByEmail(_ context.Context, email string) (*entity.Seller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.rows {
		if strings.EqualFold(v.Email, email) {
			v := v
			return &v, nil
		}
	}
	return nil, nil
}
