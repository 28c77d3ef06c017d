package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo sumas por cliente y por vendedor con GROUP BY. El orden final lo decide el caso de uso.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// ClientTotals total por cliente de los pedidos en status.
func (r *ReportRepo) ClientTotals(ctx context.Context, status entity.OrderStatus) ([]entity.ClientTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT o.client_id,
		       COALESCE(c.name, ''), COALESCE(c.last_name, ''), COALESCE(c.company, ''), COALESCE(c.email, ''),
		       SUM(o.total)
		FROM orders o
		LEFT JOIN clients c ON c.id = o.client_id
		WHERE o.status = $1
		GROUP BY o.client_id, c.name, c.last_name, c.company, c.email`, string(status))
	if err != nil {
		return nil, fmt.Errorf("client totals: %w", err)
	}
	defer rows.Close()
	var out []entity.ClientTotal
	for rows.Next() {
		var t entity.ClientTotal
		if err := rows.Scan(&t.ClientID, &t.Name, &t.LastName, &t.Company, &t.Email, &t.Total); err != nil {
			return nil, fmt.Errorf("scan client total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SellerTotals total por vendedor de los pedidos en status.
func (r *ReportRepo) SellerTotals(ctx context.Context, status entity.OrderStatus) ([]entity.SellerTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT o.seller_id,
		       COALESCE(s.name, ''), COALESCE(s.last_name, ''), COALESCE(s.email, ''),
		       SUM(o.total)
		FROM orders o
		LEFT JOIN sellers s ON s.id = o.seller_id
		WHERE o.status = $1
		GROUP BY o.seller_id, s.name, s.last_name, s.email`, string(status))
	if err != nil {
		return nil, fmt.Errorf("seller totals: %w", err)
	}
	defer rows.Close()
	var out []entity.SellerTotal
	for rows.Next() {
		var t entity.SellerTotal
		if err := rows.Scan(&t.SellerID, &t.Name, &t.LastName, &t.Email, &t.Total); err != nil {
			return nil, fmt.Errorf("scan seller total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
