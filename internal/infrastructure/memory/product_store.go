package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/keylock"
)

var _ repository.ProductRepository = (*ProductStore)(nil)

// ProductStore catálogo en memoria. El mapa se protege con un RWMutex y
// cada lectura-cálculo-escritura de stock con un lock por producto.
type ProductStore struct {
	mu    sync.RWMutex
	rows  map[string]entity.Product
	locks *keylock.Map
}

// NewProductStore crea un catálogo vacío.
func NewProductStore() *ProductStore {
	return &ProductStore{rows: make(map[string]entity.Product), locks: keylock.New()}
}

func (s *ProductStore) Create(_ context.Context, p *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range s.rows {
		if strings.EqualFold(existing.Name, p.Name) {
			return domain.ErrDuplicate
		}
	}
	s.rows[p.ID] = *p
	return nil
}

func (s *ProductStore) GetByID(_ context.Context, id string) (*entity.Product, error) {
	unlock := s.locks.Lock(id)
	defer unlock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *ProductStore) GetByName(_ context.Context, name string) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.rows {
		if strings.EqualFold(p.Name, name) {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

// Update cambia nombre y precio; el stock guardado se conserva.
func (s *ProductStore) Update(_ context.Context, p *entity.Product) error {
	unlock := s.locks.Lock(p.ID)
	defer unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, other := range s.rows {
		if id != p.ID && strings.EqualFold(other.Name, p.Name) {
			return domain.ErrDuplicate
		}
	}
	cur.Name = p.Name
	cur.Price = p.Price
	cur.UpdatedAt = p.UpdatedAt
	s.rows[p.ID] = cur
	return nil
}

func (s *ProductStore) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	s.mu.RLock()
	all := make([]*entity.Product, 0, len(s.rows))
	for _, p := range s.rows {
		p := p
		all = append(all, &p)
	}
	s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), nil
}

func (s *ProductStore) SearchByName(_ context.Context, term string, limit int) ([]*entity.Product, error) {
	term = strings.ToLower(term)
	s.mu.RLock()
	var out []*entity.Product
	for _, p := range s.rows {
		if strings.Contains(strings.ToLower(p.Name), term) {
			p := p
			out = append(out, &p)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, 0), nil
}

func (s *ProductStore) Delete(_ context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

// AdjustStock lee, valida y escribe el stock con el lock del producto tomado.
// Otros productos siguen disponibles mientras tanto.
func (s *ProductStore) AdjustStock(_ context.Context, id string, delta int) (*entity.Product, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.RLock()
	p, ok := s.rows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return nil, domain.ErrInsufficientStock
	}
	p.Stock += delta
	p.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	s.rows[id] = p
	s.mu.Unlock()
	return &p, nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
