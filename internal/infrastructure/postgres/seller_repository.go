package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.SellerRepository = (*SellerRepo)(nil)

// SellerRepo implementación del puerto SellerRepository sobre PostgreSQL.
type SellerRepo struct {
	q Querier
}

// NewSellerRepository construye el adaptador.
func NewSellerRepository(q Querier) *SellerRepo {
	return &SellerRepo{q: q}
}

// Create persiste un nuevo vendedor. Email repetido → ErrEmailAlreadyExists.
func (r *SellerRepo) Create(ctx context.Context, s *entity.Seller) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sellers (id, name, last_name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Name, s.LastName, s.Email, s.PasswordHash, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert seller: %w", err)
	}
	return nil
}

// GetByID obtiene un vendedor por ID.
func (r *SellerRepo) GetByID(ctx context.Context, id string) (*entity.Seller, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByEmail obtiene un vendedor por email.
func (r *SellerRepo) GetByEmail(ctx context.Context, email string) (*entity.Seller, error) {
	return r.getOne(ctx, `WHERE lower(email) = lower($1)`, email)
}

func (r *SellerRepo) getOne(ctx context.Context, where string, arg any) (*entity.Seller, error) {
	var s entity.Seller
	err := r.q.QueryRow(ctx,
		`SELECT id, name, last_name, email, password_hash, created_at FROM sellers `+where, arg,
	).Scan(&s.ID, &s.Name, &s.LastName, &s.Email, &s.PasswordHash, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get seller: %w", err)
	}
	return &s, nil
}
