package order_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/identity"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev ports.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type countingCache struct {
	ports.NopCache
	invalidations int
}

func (c *countingCache) Invalidate(context.Context) error {
	c.invalidations++
	return nil
}

type fixture struct {
	uc       *order.UseCase
	products *memory.ProductStore
	clients  *memory.ClientStore
	orders   *memory.OrderStore
	events   *recordingPublisher
	cache    *countingCache
}

func newFixture(t *testing.T, opts order.Options) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		products: memory.NewProductStore(),
		clients:  memory.NewClientStore(),
		orders:   memory.NewOrderStore(),
		events:   &recordingPublisher{},
		cache:    &countingCache{},
	}
	for id, stock := range map[string]int{"P": 5, "Q": 10} {
		require.NoError(t, f.products.Create(ctx, &entity.Product{
			ID: id, Name: "Producto " + id, Price: decimal.NewFromInt(100), Stock: stock,
		}))
	}
	require.NoError(t, f.clients.Create(ctx, &entity.Client{ID: "C1", SellerID: "S1", Name: "Cliente", Email: "c1@x.co"}))
	require.NoError(t, f.clients.Create(ctx, &entity.Client{ID: "C2", SellerID: "S1", Name: "Otro", Email: "c2@x.co"}))
	f.uc = order.NewUseCase(order.Deps{
		Orders:       f.orders,
		Clients:      f.clients,
		Reservations: inventory.NewReservationService(f.products),
		Events:       f.events,
		Cache:        f.cache,
		Logger:       zerolog.Nop(),
	}, opts)
	return f
}

func as(seller string) context.Context {
	return identity.WithCaller(context.Background(), identity.Caller{SellerID: seller})
}

func items(pairs ...any) []dto.LineItemRequest {
	var out []dto.LineItemRequest
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, dto.LineItemRequest{ProductID: pairs[i].(string), Quantity: pairs[i+1].(int)})
	}
	return out
}

func (f *fixture) stock(t *testing.T, id string) int {
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestCreate_EscenarioStock(t *testing.T) {
	f := newFixture(t, order.Options{})
	ctx := as("S1")

	a, err := f.uc.Create(ctx, dto.CreateOrderRequest{ClientID: "C1", Items: items("P", 3)})
	require.NoError(t, err)
	assert.Equal(t, "PENDIENTE", a.Status)
	assert.Equal(t, "S1", a.SellerID)
	assert.True(t, decimal.NewFromInt(300).Equal(a.Total))
	assert.Equal(t, "Producto P", a.Items[0].Name)
	assert.Equal(t, 2, f.stock(t, "P"))

	_, err = f.uc.Create(ctx, dto.CreateOrderRequest{ClientID: "C1", Items: items("P", 3)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, f.stock(t, "P"))

	_, err = f.uc.Create(ctx, dto.CreateOrderRequest{ClientID: "C1", Items: items("P", 2)})
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(t, "P"))

	assert.Equal(t, []string{ports.EventOrderCreated, ports.EventStockRejected, ports.EventOrderCreated}, f.events.types())
	assert.Equal(t, 2, f.cache.invalidations)
}

func TestCreate_ClienteDeOtroVendedor(t *testing.T) {
	f := newFixture(t, order.Options{})

	_, err := f.uc.Create(as("S2"), dto.CreateOrderRequest{ClientID: "C1", Items: items("P", 1)})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 5, f.stock(t, "P"), "sin autorización no se toca stock")

	_, err = f.uc.Create(as("S1"), dto.CreateOrderRequest{ClientID: "nope", Items: items("P", 1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Create(context.Background(), dto.CreateOrderRequest{ClientID: "C1", Items: items("P", 1)})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreate_LineasInvalidas(t *testing.T) {
	f := newFixture(t, order.Options{})
	_, err := f.uc.Create(as("S1"), dto.CreateOrderRequest{ClientID: "C1", Items: items("Q", 2, "P", 0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 10, f.stock(t, "Q"))
}

func TestCreate_FallaParcialSinCompensacion(t *testing.T) {
	f := newFixture(t, order.Options{})
	_, err := f.uc.Create(as("S1"), dto.CreateOrderRequest{ClientID: "C1", Items: items("Q", 4, "P", 6)})

	var rerr *inventory.ReservationError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, 1, rerr.Index)
	assert.Equal(t, 6, f.stock(t, "Q"), "la línea previa queda descontada")
	list, _ := f.orders.ListBySeller(context.Background(), "S1")
	assert.Empty(t, list, "el pedido no se crea")
}

func TestCreate_FallaParcialConCompensacion(t *testing.T) {
	f := newFixture(t, order.Options{CompensateOnFailure: true})
	_, err := f.uc.Create(as("S1"), dto.CreateOrderRequest{ClientID: "C1", Items: items("Q", 4, "P", 6)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.stock(t, "Q"))
}

func TestUpdate_NetDeltaYEstado(t *testing.T) {
	f := newFixture(t, order.Options{})
	ctx := as("S1")
	o, err := f.uc.Create(ctx, dto.CreateOrderRequest{ClientID: "C1", Items: items("P", 3)})
	require.NoError(t, err)

	done := "completado"
	upd, err := f.uc.Update(ctx, o.ID, dto.UpdateOrderRequest{Items: items("P", 1), Status: &done})
	require.NoError(t, err)
	assert.Equal(t, 4, f.stock(t, "P"))
	assert.Equal(t, "COMPLETADO", upd.Status)
	assert.True(t, decimal.NewFromInt(100).Equal(upd.Total))

	upd, err = f.uc.Update(ctx, o.ID, dto.UpdateOrderRequest{Items: items("P", 5)})
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(t, "P"))
	assert.True(t, decimal.NewFromInt(500).Equal(upd.Total))
}

func TestUpdate_Legacy(t *testing.T) {
	f := newFixture(t, order.Options{ReconcileMode: inventory.ReconcileLegacy})
	ctx := as("S1")
	o, err := f.uc.Create(ctx, dto.CreateOrderRequest{ClientID: "C1", Items: items("Q", 3)})
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, o.ID, dto.UpdateOrderRequest{Items: items("Q", 3)})
	require.NoError(t, err)
	assert.Equal(t, 4, f.stock(t, "Q"))
}

func TestUpdate_ValidaciónAntesDeStock(t *testing.T) {
	f := newFixture(t, order.Options{})
	ctx := as("S1")
	o, err := f.uc.Create(ctx, dto.CreateOrderRequest{ClientID: "C1", Items: items("Q", 1)})
	require.NoError(t, err)

	bad := "ENVIADO"
	_, err = f.uc.Update(ctx, o.ID, dto.UpdateOrderRequest{Items: items("Q", 5), Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 9, f.stock(t, "Q"))

	_, err = f.uc.Update(as("S2"), o.ID, dto.UpdateOrderRequest{Items: items("Q", 5)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	other := "C3"
	require.NoError(t, f.clients.Create(context.Background(), &entity.Client{ID: other, SellerID: "S2", Email: "c3@x.co"}))
	_, err = f.uc.Update(ctx, o.ID, dto.UpdateOrderRequest{ClientID: &other})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	mine := "C2"
	upd, err := f.uc.Update(ctx, o.ID, dto.UpdateOrderRequest{ClientID: &mine})
	require.NoError(t, err)
	assert.Equal(t, "C2", upd.ClientID)
	assert.Equal(t, 9, f.stock(t, "Q"))
}

func TestDelete(t *testing.T) {
	f := newFixture(t, order.Options{})
	ctx := as("S1")

	_, err := f.uc.Delete(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.events.types(), "sin mutación no hay evento")
	assert.Zero(t, f.cache.invalidations)

	o, err := f.uc.Create(ctx, dto.CreateOrderRequest{ClientID: "C1", Items: items("P", 2)})
	require.NoError(t, err)

	_, err = f.uc.Delete(as("S2"), o.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	msg, err := f.uc.Delete(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pedido eliminado", msg)
	assert.Equal(t, 3, f.stock(t, "P"), "eliminar no devuelve stock")

	_, err = f.uc.Get(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListados(t *testing.T) {
	f := newFixture(t, order.Options{})
	ctx := as("S1")
	o1, err := f.uc.Create(ctx, dto.CreateOrderRequest{ClientID: "C1", Items: items("Q", 1)})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = f.uc.Create(ctx, dto.CreateOrderRequest{ClientID: "C2", Items: items("Q", 1)})
	require.NoError(t, err)
	done := "COMPLETADO"
	_, err = f.uc.Update(ctx, o1.ID, dto.UpdateOrderRequest{Status: &done})
	require.NoError(t, err)

	all, err := f.uc.ListMine(ctx)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	completed, err := f.uc.ListMineByStatus(ctx, "COMPLETADO")
	require.NoError(t, err)
	require.Len(t, completed.Items, 1)
	assert.Equal(t, o1.ID, completed.Items[0].ID)

	others, err := f.uc.ListMine(as("S2"))
	require.NoError(t, err)
	assert.Empty(t, others.Items)

	_, err = f.uc.ListMineByStatus(ctx, "PENDING")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_FallaDePublicacionNoFallaPeticion(t *testing.T) {
	f := newFixture(t, order.Options{})
	f.events.err = errors.New("broker caído")

	_, err := f.uc.Create(as("S1"), dto.CreateOrderRequest{ClientID: "C1", Items: items("Q", 1)})
	assert.NoError(t, err)
	assert.Equal(t, 9, f.stock(t, "Q"))
}

// slowProducts alarga la ventana entre la lectura del pedido y su escritura.
type slowProducts struct {
	*memory.ProductStore
}

func (s slowProducts) AdjustStock(ctx context.Context, id string, delta int) (*entity.Product, error) {
	time.Sleep(5 * time.Millisecond)
	return s.ProductStore.AdjustStock(ctx, id, delta)
}

func TestUpdate_ConcurrenteMismoPedidoNoDuplicaAjuste(t *testing.T) {
	f := newFixture(t, order.Options{})
	f.uc = order.NewUseCase(order.Deps{
		Orders:       f.orders,
		Clients:      f.clients,
		Reservations: inventory.NewReservationService(slowProducts{f.products}),
		Logger:       zerolog.Nop(),
	}, order.Options{})
	ctx := as("S1")

	o, err := f.uc.Create(ctx, dto.CreateOrderRequest{ClientID: "C1", Items: items("Q", 2)})
	require.NoError(t, err)
	require.Equal(t, 8, f.stock(t, "Q"))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Update(ctx, o.ID, dto.UpdateOrderRequest{Items: items("Q", 3)})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 7, f.stock(t, "Q"), "el segundo ve ya Q×3 y no ajusta")
	got, err := f.uc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(300).Equal(got.Total))
}

// racingOrders simula otra instancia que edita el pedido justo antes de la escritura.
type racingOrders struct {
	*memory.OrderStore
	raced bool
}

func (r *racingOrders) Update(ctx context.Context, o *entity.Order, prev time.Time) error {
	if !r.raced {
		r.raced = true
		cur, err := r.OrderStore.GetByID(ctx, o.ID)
		if err != nil {
			return err
		}
		cur.Status = entity.OrderStatusCancelled
		cur.UpdatedAt = prev.Add(time.Second)
		if err := r.OrderStore.Update(ctx, cur, prev); err != nil {
			return err
		}
	}
	return r.OrderStore.Update(ctx, o, prev)
}

func TestUpdate_ConflictoDevuelveStockAjustado(t *testing.T) {
	f := newFixture(t, order.Options{})
	racing := &racingOrders{OrderStore: f.orders}
	f.uc = order.NewUseCase(order.Deps{
		Orders:       racing,
		Clients:      f.clients,
		Reservations: inventory.NewReservationService(f.products),
		Events:       f.events,
		Logger:       zerolog.Nop(),
	}, order.Options{})
	ctx := as("S1")

	o, err := f.uc.Create(ctx, dto.CreateOrderRequest{ClientID: "C1", Items: items("Q", 2)})
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, o.ID, dto.UpdateOrderRequest{Items: items("Q", 5)})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 8, f.stock(t, "Q"), "la diferencia consumida se devuelve")

	got, err := f.uc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELADO", got.Status)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, []string{ports.EventOrderCreated}, f.events.types())
}
