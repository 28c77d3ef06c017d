package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientStore)(nil)

// ClientStore clientes en memoria.
type ClientStore struct {
	mu   sync.RWMutex
	rows map[string]entity.Client
}

func NewClientStore() *ClientStore {
	return &ClientStore{rows: make(map[string]entity.Client)}
}

func (s *ClientStore) Create(_ context.Context, c *entity.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[c.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range s.rows {
		if strings.EqualFold(other.Email, c.Email) {
			return domain.ErrDuplicate
		}
	}
	s.rows[c.ID] = *c
	return nil
}

func (s *ClientStore) GetByID(_ context.Context, id string) (*entity.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *ClientStore) GetByEmail(_ context.Context, email string) (*entity.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.rows {
		if strings.EqualFold(c.Email, email) {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (s *ClientStore) ListBySeller(_ context.Context, sellerID string, limit, offset int) ([]*entity.Client, error) {
	s.mu.RLock()
	var out []*entity.Client
	for _, c := range s.rows {
		if c.SellerID == sellerID {
			c := c
			out = append(out, &c)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, limit, offset), nil
}

// Update conserva el SellerID original.
func (s *ClientStore) Update(_ context.Context, c *entity.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, other := range s.rows {
		if id != c.ID && strings.EqualFold(other.Email, c.Email) {
			return domain.ErrDuplicate
		}
	}
	upd := *c
	upd.SellerID = cur.SellerID
	upd.CreatedAt = cur.CreatedAt
	s.rows[c.ID] = upd
	return nil
}

func (s *ClientStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}
