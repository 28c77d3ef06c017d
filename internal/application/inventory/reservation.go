package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/inventory"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// ReconcileMode política de ajuste de stock al cambiar las líneas de un pedido.
type ReconcileMode string

const (
	// ReconcileNetDelta ajusta solo la diferencia por producto entre líneas viejas y nuevas.
	ReconcileNetDelta ReconcileMode = "net"
	// ReconcileLegacy vuelve a consumir las cantidades nuevas completas sin devolver las anteriores.
	ReconcileLegacy ReconcileMode = "legacy"
)

// ParseReconcileMode valida el modo configurado.
func ParseReconcileMode(s string) (ReconcileMode, error) {
	switch m := ReconcileMode(s); m {
	case ReconcileNetDelta, ReconcileLegacy:
		return m, nil
	case "":
		return ReconcileNetDelta, nil
	default:
		return "", fmt.Errorf("%w: modo de reconciliación %q", domain.ErrInvalidInput, s)
	}
}

// Reservation resultado de una reserva: líneas con nombre y precio capturados
// y los ajustes de stock efectivamente aplicados.
type Reservation struct {
	Items     []entity.LineItem
	Committed []inventory.StockDelta
}

// ReservationError falla de una reserva en la línea Index.
// Committed lista los ajustes ya aplicados antes de la falla; no se revierten solos.
type ReservationError struct {
	Index       int // -1 si la falla fue al devolver stock de un producto retirado del pedido
	ProductID   string
	ProductName string
	Requested   int
	Available   int
	Committed   []inventory.StockDelta
	Err         error
}

func (e *ReservationError) Error() string {
	if errors.Is(e.Err, domain.ErrInsufficientStock) {
		return fmt.Sprintf("stock insuficiente para %q (línea %d): solicitado %d, disponible %d",
			e.ProductName, e.Index, e.Requested, e.Available)
	}
	if errors.Is(e.Err, domain.ErrNotFound) {
		return fmt.Sprintf("producto %s no encontrado (línea %d)", e.ProductID, e.Index)
	}
	return fmt.Sprintf("reserva línea %d producto %s: %v", e.Index, e.ProductID, e.Err)
}

func (e *ReservationError) Unwrap() error { return e.Err }

// ReservationService valida y descuenta stock línea por línea contra el catálogo.
// No hay atomicidad entre productos: cada línea se confirma antes de pasar a la siguiente.
type ReservationService struct {
	products repository.ProductRepository
}

// NewReservationService construye el servicio.
func NewReservationService(products repository.ProductRepository) *ReservationService {
	return &ReservationService{products: products}
}

// ValidateItems rechaza pedidos vacíos, líneas sin producto o con cantidad no positiva.
func ValidateItems(items []entity.LineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: el pedido no tiene líneas", domain.ErrInvalidInput)
	}
	for i, it := range items {
		if it.ProductID == "" {
			return fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: línea %d con cantidad %d", domain.ErrInvalidInput, i, it.Quantity)
		}
	}
	return nil
}

// Reserve recorre las líneas en el orden recibido: busca el producto, compara con el stock
// actual y descuenta de inmediato. La primera línea que falla aborta; las anteriores quedan
// descontadas y se informan en ReservationError.Committed.
func (s *ReservationService) Reserve(ctx context.Context, items []entity.LineItem) (*Reservation, error) {
	if err := ValidateItems(items); err != nil {
		return nil, err
	}
	res := &Reservation{Items: make([]entity.LineItem, 0, len(items))}
	for i, it := range items {
		p, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, s.fail(res, i, it, nil, err)
		}
		if p == nil {
			return nil, s.fail(res, i, it, nil, domain.ErrNotFound)
		}
		if it.Quantity > p.Stock {
			return nil, s.fail(res, i, it, p, domain.ErrInsufficientStock)
		}
		updated, err := s.products.AdjustStock(ctx, it.ProductID, -it.Quantity)
		if err != nil {
			// otra reserva ganó la carrera entre la lectura y el ajuste
			return nil, s.fail(res, i, it, s.current(ctx, it.ProductID, p), err)
		}
		res.Committed = append(res.Committed, inventory.StockDelta{ProductID: it.ProductID, Delta: -it.Quantity})
		res.Items = append(res.Items, entity.LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Name:      updated.Name,
			UnitPrice: updated.Price,
		})
	}
	return res, nil
}

// Reconcile ajusta el stock al reemplazar las líneas old por next según mode.
func (s *ReservationService) Reconcile(ctx context.Context, old, next []entity.LineItem, mode ReconcileMode) (*Reservation, error) {
	if mode == ReconcileLegacy {
		return s.Reserve(ctx, next)
	}
	if err := ValidateItems(next); err != nil {
		return nil, err
	}

	lineOf := make(map[string]int, len(next))
	for i, it := range next {
		if _, ok := lineOf[it.ProductID]; !ok {
			lineOf[it.ProductID] = i
		}
	}
	priced := make(map[string]*entity.Product)
	res := &Reservation{}
	for _, d := range inventory.NetDelta(old, next) {
		idx, ok := lineOf[d.ProductID]
		if !ok {
			idx = -1
		}
		updated, err := s.products.AdjustStock(ctx, d.ProductID, d.Delta)
		if err != nil {
			// en una devolución Requested es la cantidad que no se pudo reponer
			line := entity.LineItem{ProductID: d.ProductID, Quantity: abs(d.Delta)}
			return nil, s.fail(res, idx, line, s.current(ctx, d.ProductID, nil), err)
		}
		res.Committed = append(res.Committed, d)
		priced[d.ProductID] = updated
	}

	snap := make(map[string]entity.LineItem, len(old))
	for _, it := range old {
		snap[it.ProductID] = it
	}
	res.Items = make([]entity.LineItem, 0, len(next))
	for _, it := range next {
		line := entity.LineItem{ProductID: it.ProductID, Quantity: it.Quantity}
		switch p, prev := priced[it.ProductID], snap[it.ProductID]; {
		case p != nil:
			line.Name, line.UnitPrice = p.Name, p.Price
		case prev.ProductID != "":
			// cantidad sin cambios: se conserva el precio con el que se confirmó
			line.Name, line.UnitPrice = prev.Name, prev.UnitPrice
		default:
			p, err := s.products.GetByID(ctx, it.ProductID)
			if err != nil {
				return nil, err
			}
			if p != nil {
				line.Name, line.UnitPrice = p.Name, p.Price
			}
		}
		res.Items = append(res.Items, line)
	}
	return res, nil
}

// Release aplica los ajustes inversos de committed (compensación).
// Sigue con el resto si alguno falla y devuelve todos los errores juntos.
func (s *ReservationService) Release(ctx context.Context, committed []inventory.StockDelta) error {
	var errs []error
	for _, d := range inventory.Inverse(committed) {
		if _, err := s.products.AdjustStock(ctx, d.ProductID, d.Delta); err != nil {
			errs = append(errs, fmt.Errorf("devolver %d de %s: %w", d.Delta, d.ProductID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *ReservationService) current(ctx context.Context, id string, fallback *entity.Product) *entity.Product {
	if p, err := s.products.GetByID(ctx, id); err == nil && p != nil {
		return p
	}
	return fallback
}

func (s *ReservationService) fail(res *Reservation, idx int, it entity.LineItem, p *entity.Product, err error) error {
	rerr := &ReservationError{
		Index:     idx,
		ProductID: it.ProductID,
		Requested: it.Quantity,
		Committed: append([]inventory.StockDelta(nil), res.Committed...),
		Err:       err,
	}
	if p != nil {
		rerr.ProductName = p.Name
		rerr.Available = p.Stock
	}
	return rerr
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
