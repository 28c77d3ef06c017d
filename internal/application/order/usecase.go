package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/access"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Pedidos-api/internal/domain/inventory"
	"github.com/jhoicas/Pedidos-api/internal/domain/identity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/keylock"
)

// DeletedMessage confirmación devuelta al eliminar un pedido.
const DeletedMessage = "Pedido eliminado"

// Options políticas configurables del motor de pedidos.
type Options struct {
	ReconcileMode       inventory.ReconcileMode
	CompensateOnFailure bool
}

// Deps dependencias del caso de uso.
type Deps struct {
	Orders       repository.OrderRepository
	Clients      repository.ClientRepository
	Reservations *inventory.ReservationService
	Events       ports.EventPublisher
	Cache        ports.ReportCache
	Logger       zerolog.Logger
}

// UseCase orquesta guard → reserva de stock → persistencia para los pedidos del vendedor autenticado.
type UseCase struct {
	orders       repository.OrderRepository
	clients      repository.ClientRepository
	reservations *inventory.ReservationService
	events       ports.EventPublisher
	cache        ports.ReportCache
	log          zerolog.Logger
	opts         Options
	locks        *keylock.Map
}

// NewUseCase construye el caso de uso. Events y Cache nil se reemplazan por no-op.
func NewUseCase(d Deps, opts Options) *UseCase {
	if d.Events == nil {
		d.Events = ports.NopPublisher{}
	}
	if d.Cache == nil {
		d.Cache = ports.NopCache{}
	}
	if opts.ReconcileMode == "" {
		opts.ReconcileMode = inventory.ReconcileNetDelta
	}
	return &UseCase{
		orders:       d.Orders,
		clients:      d.Clients,
		reservations: d.Reservations,
		events:       d.Events,
		cache:        d.Cache,
		log:          d.Logger,
		opts:         opts,
		locks:        keylock.New(),
	}
}

// Create crea un pedido para un cliente del llamador. El stock se descuenta línea por línea;
// si una línea falla, las anteriores quedan descontadas salvo que CompensateOnFailure esté activo.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if in.ClientID == "" {
		return nil, fmt.Errorf("%w: client_id requerido", domain.ErrInvalidInput)
	}
	items := toLineItems(in.Items)
	if err := inventory.ValidateItems(items); err != nil {
		return nil, err
	}
	if _, err := uc.ownedClient(ctx, caller, in.ClientID); err != nil {
		return nil, err
	}

	res, err := uc.reservations.Reserve(ctx, items)
	if err != nil {
		uc.reservationFailed(ctx, caller, "", err)
		return nil, err
	}

	now := stamp()
	o := &entity.Order{
		ID:        uuid.New().String(),
		SellerID:  caller.SellerID,
		ClientID:  in.ClientID,
		Items:     res.Items,
		Status:    entity.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	o.RecalculateTotal()
	if err := uc.orders.Create(ctx, o); err != nil {
		uc.compensate(ctx, o.ID, res.Committed)
		return nil, fmt.Errorf("crear pedido: %w", err)
	}
	uc.afterWrite(ctx, ports.EventOrderCreated, o)
	return toOrderResponse(o), nil
}

// Update aplica el parche. El estado se valida antes de tocar stock; si cambian las líneas
// se reconcilia según ReconcileMode y se recalcula el total.
// Lectura, reconciliación y escritura van bajo el lock del pedido; entre procesos la
// escritura exige que updated_at no haya cambiado y, si cambió, devuelve el stock ajustado
// y responde ErrConflict.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	unlock := uc.locks.Lock(id)
	defer unlock()

	o, err := uc.ownedOrder(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	prevUpdatedAt := o.UpdatedAt

	var status entity.OrderStatus
	if in.Status != nil {
		if status, err = entity.ParseOrderStatus(*in.Status); err != nil {
			return nil, err
		}
	}
	var next []entity.LineItem
	if in.Items != nil {
		next = toLineItems(in.Items)
		if err := inventory.ValidateItems(next); err != nil {
			return nil, err
		}
	}
	if in.ClientID != nil && *in.ClientID != o.ClientID {
		if _, err := uc.ownedClient(ctx, caller, *in.ClientID); err != nil {
			return nil, err
		}
		o.ClientID = *in.ClientID
	}

	var committed []domaininv.StockDelta
	if in.Items != nil {
		res, err := uc.reservations.Reconcile(ctx, o.Items, next, uc.opts.ReconcileMode)
		if err != nil {
			uc.reservationFailed(ctx, caller, o.ID, err)
			return nil, err
		}
		committed = res.Committed
		o.Items = res.Items
		o.RecalculateTotal()
	}
	if status != "" {
		o.Status = status
	}
	o.UpdatedAt = stamp()
	if !o.UpdatedAt.After(prevUpdatedAt) {
		o.UpdatedAt = prevUpdatedAt.Add(time.Microsecond)
	}

	if err := uc.orders.Update(ctx, o, prevUpdatedAt); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			uc.lostRace(ctx, o.ID, committed)
			return nil, err
		}
		uc.compensate(ctx, o.ID, committed)
		return nil, fmt.Errorf("actualizar pedido: %w", err)
	}
	uc.afterWrite(ctx, ports.EventOrderUpdated, o)
	return toOrderResponse(o), nil
}

// Delete elimina el pedido sin devolver stock.
func (uc *UseCase) Delete(ctx context.Context, id string) (string, error) {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	unlock := uc.locks.Lock(id)
	defer unlock()

	o, err := uc.ownedOrder(ctx, caller, id)
	if err != nil {
		return "", err
	}
	if err := uc.orders.Delete(ctx, id); err != nil {
		return "", fmt.Errorf("eliminar pedido: %w", err)
	}
	uc.afterWrite(ctx, ports.EventOrderDeleted, o)
	return DeletedMessage, nil
}

// Get devuelve un pedido del llamador.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	o, err := uc.ownedOrder(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// ListMine pedidos del llamador; el filtro por dueño lo hace el repositorio.
func (uc *UseCase) ListMine(ctx context.Context) (*dto.OrderListResponse, error) {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	list, err := uc.orders.ListBySeller(ctx, caller.SellerID)
	if err != nil {
		return nil, err
	}
	return toOrderList(list), nil
}

// ListMineByStatus pedidos del llamador en un estado.
func (uc *UseCase) ListMineByStatus(ctx context.Context, status string) (*dto.OrderListResponse, error) {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	st, err := entity.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	list, err := uc.orders.ListBySellerAndStatus(ctx, caller.SellerID, st)
	if err != nil {
		return nil, err
	}
	return toOrderList(list), nil
}

func (uc *UseCase) ownedOrder(ctx context.Context, caller identity.Caller, id string) (*entity.Order, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener pedido: %w", err)
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if err := access.Authorize(caller, o.SellerID); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *UseCase) ownedClient(ctx context.Context, caller identity.Caller, id string) (*entity.Client, error) {
	c, err := uc.clients.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if err := access.Authorize(caller, c.SellerID); err != nil {
		return nil, err
	}
	return c, nil
}

// reservationFailed publica StockRejected y, si está configurado, devuelve lo ya descontado.
func (uc *UseCase) reservationFailed(ctx context.Context, caller identity.Caller, orderID string, err error) {
	var rerr *inventory.ReservationError
	if !errors.As(err, &rerr) {
		return
	}
	uc.compensate(ctx, orderID, rerr.Committed)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		return
	}
	ev := ports.OrderEvent{
		Type:       ports.EventStockRejected,
		OrderID:    orderID,
		SellerID:   caller.SellerID,
		ProductID:  rerr.ProductID,
		Committed:  rerr.Committed,
		OccurredAt: time.Now().UTC(),
	}
	if perr := uc.events.Publish(ctx, ev); perr != nil {
		uc.log.Warn().Err(perr).Str("product_id", rerr.ProductID).Msg("publicar rechazo de stock")
	}
}

func (uc *UseCase) compensate(ctx context.Context, orderID string, committed []domaininv.StockDelta) {
	if len(committed) == 0 {
		return
	}
	if !uc.opts.CompensateOnFailure {
		uc.log.Warn().Str("order_id", orderID).Int("lineas", len(committed)).
			Msg("reserva fallida deja stock descontado")
		return
	}
	if err := uc.reservations.Release(ctx, committed); err != nil {
		uc.log.Error().Err(err).Str("order_id", orderID).Msg("compensar stock")
		return
	}
	uc.log.Info().Str("order_id", orderID).Int("lineas", len(committed)).Msg("stock compensado")
}

// lostRace devuelve el stock ajustado por una edición cuyo pedido cambió antes de persistirse.
// Siempre se revierte: las líneas guardadas son las del otro escritor.
func (uc *UseCase) lostRace(ctx context.Context, orderID string, committed []domaininv.StockDelta) {
	if len(committed) == 0 {
		return
	}
	if err := uc.reservations.Release(ctx, committed); err != nil {
		uc.log.Error().Err(err).Str("order_id", orderID).Msg("revertir stock de edición en conflicto")
		return
	}
	uc.log.Warn().Str("order_id", orderID).Msg("edición de pedido en conflicto, stock revertido")
}

// stamp hora actual con la precisión de timestamptz para que la comparación de versión
// coincida con lo que devuelve PostgreSQL.
func stamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// afterWrite publica el evento e invalida la caché de reportes. Sus fallas solo se registran:
// la escritura ya quedó confirmada.
func (uc *UseCase) afterWrite(ctx context.Context, eventType string, o *entity.Order) {
	ev := ports.OrderEvent{
		Type:       eventType,
		OrderID:    o.ID,
		SellerID:   o.SellerID,
		ClientID:   o.ClientID,
		Status:     string(o.Status),
		Total:      o.Total,
		OccurredAt: time.Now().UTC(),
	}
	if err := uc.events.Publish(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Str("order_id", o.ID).Str("event", eventType).Msg("publicar evento de pedido")
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("invalidar caché de reportes")
	}
}

func toLineItems(in []dto.LineItemRequest) []entity.LineItem {
	out := make([]entity.LineItem, 0, len(in))
	for _, it := range in {
		out = append(out, entity.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.LineItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.LineItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		})
	}
	return &dto.OrderResponse{
		ID:        o.ID,
		SellerID:  o.SellerID,
		ClientID:  o.ClientID,
		Items:     items,
		Status:    string(o.Status),
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toOrderList(list []*entity.Order) *dto.OrderListResponse {
	out := &dto.OrderListResponse{Items: make([]dto.OrderResponse, 0, len(list))}
	for _, o := range list {
		out.Items = append(out.Items, *toOrderResponse(o))
	}
	return out
}
