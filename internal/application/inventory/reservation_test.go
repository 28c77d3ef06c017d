package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Pedidos-api/internal/domain/inventory"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/memory"
)

func newCatalog(t *testing.T, stock map[string]int) *memory.ProductStore {
	t.Helper()
	s := memory.NewProductStore()
	for id, n := range stock {
		require.NoError(t, s.Create(context.Background(), &entity.Product{
			ID: id, Name: "Producto " + id, Price: decimal.NewFromInt(2), Stock: n,
		}))
	}
	return s
}

func stockOf(t *testing.T, s *memory.ProductStore, id string) int {
	t.Helper()
	p, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func line(id string, qty int) entity.LineItem { return entity.LineItem{ProductID: id, Quantity: qty} }

func TestReserve_EscenarioSecuencial(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t, map[string]int{"P": 5})
	svc := inventory.NewReservationService(cat)

	res, err := svc.Reserve(ctx, []entity.LineItem{line("P", 3)})
	require.NoError(t, err)
	assert.Equal(t, 2, stockOf(t, cat, "P"))
	assert.Equal(t, "Producto P", res.Items[0].Name)
	assert.True(t, decimal.NewFromInt(2).Equal(res.Items[0].UnitPrice))

	_, err = svc.Reserve(ctx, []entity.LineItem{line("P", 3)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, stockOf(t, cat, "P"))

	_, err = svc.Reserve(ctx, []entity.LineItem{line("P", 2)})
	require.NoError(t, err)
	assert.Equal(t, 0, stockOf(t, cat, "P"))
}

func TestReserve_FallaParcialReportaLoConfirmado(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t, map[string]int{"A": 10, "B": 1, "C": 10})
	svc := inventory.NewReservationService(cat)

	_, err := svc.Reserve(ctx, []entity.LineItem{line("A", 4), line("B", 2), line("C", 1)})
	require.Error(t, err)

	var rerr *inventory.ReservationError
	require.True(t, errors.As(err, &rerr))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, rerr.Index)
	assert.Equal(t, "Producto B", rerr.ProductName)
	assert.Equal(t, 2, rerr.Requested)
	assert.Equal(t, 1, rerr.Available)
	assert.Equal(t, []domaininv.StockDelta{{ProductID: "A", Delta: -4}}, rerr.Committed)
	assert.Contains(t, err.Error(), "Producto B")

	assert.Equal(t, 6, stockOf(t, cat, "A"), "las líneas previas quedan descontadas")
	assert.Equal(t, 1, stockOf(t, cat, "B"))
	assert.Equal(t, 10, stockOf(t, cat, "C"), "las líneas posteriores no se tocan")

	require.NoError(t, svc.Release(ctx, rerr.Committed))
	assert.Equal(t, 10, stockOf(t, cat, "A"))
}

func TestReserve_ProductoInexistente(t *testing.T) {
	cat := newCatalog(t, map[string]int{"A": 1})
	svc := inventory.NewReservationService(cat)

	_, err := svc.Reserve(context.Background(), []entity.LineItem{line("A", 1), line("X", 1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	var rerr *inventory.ReservationError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, 1, rerr.Index)
	assert.Len(t, rerr.Committed, 1)
}

func TestReserve_ValidaAntesDeDescontar(t *testing.T) {
	cat := newCatalog(t, map[string]int{"A": 5})
	svc := inventory.NewReservationService(cat)

	for name, items := range map[string][]entity.LineItem{
		"vacío":             nil,
		"cantidad cero":     {line("A", 1), line("A", 0)},
		"cantidad negativa": {line("A", -2)},
		"sin producto":      {line("A", 1), line("", 1)},
	} {
		_, err := svc.Reserve(context.Background(), items)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
	assert.Equal(t, 5, stockOf(t, cat, "A"))
}

func TestReserve_ConcurrenteExactoAlStock(t *testing.T) {
	for round := 0; round < 50; round++ {
		cat := newCatalog(t, map[string]int{"P": 5})
		svc := inventory.NewReservationService(cat)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.Reserve(context.Background(), []entity.LineItem{line("P", 5)})
			}(i)
		}
		wg.Wait()

		failed := 0
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
				failed++
			}
		}
		assert.Equal(t, 1, failed, "exactamente una reserva gana")
		assert.Equal(t, 0, stockOf(t, cat, "P"))
	}
}

func TestReconcile_NetDelta(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t, map[string]int{"P": 10, "Q": 10})
	svc := inventory.NewReservationService(cat)

	created, err := svc.Reserve(ctx, []entity.LineItem{line("P", 3)})
	require.NoError(t, err)
	assert.Equal(t, 7, stockOf(t, cat, "P"))

	res, err := svc.Reconcile(ctx, created.Items, []entity.LineItem{line("P", 1)}, inventory.ReconcileNetDelta)
	require.NoError(t, err)
	assert.Equal(t, 9, stockOf(t, cat, "P"), "reducir devuelve 2 unidades")
	assert.Equal(t, "Producto P", res.Items[0].Name)

	res, err = svc.Reconcile(ctx, res.Items, []entity.LineItem{line("P", 5)}, inventory.ReconcileNetDelta)
	require.NoError(t, err)
	assert.Equal(t, 5, stockOf(t, cat, "P"), "aumentar consume solo la diferencia")

	res, err = svc.Reconcile(ctx, res.Items, []entity.LineItem{line("Q", 2)}, inventory.ReconcileNetDelta)
	require.NoError(t, err)
	assert.Equal(t, 10, stockOf(t, cat, "P"), "producto retirado vuelve completo")
	assert.Equal(t, 8, stockOf(t, cat, "Q"))
	assert.Equal(t, []domaininv.StockDelta{{ProductID: "Q", Delta: -2}, {ProductID: "P", Delta: 5}}, res.Committed)
}

func TestReconcile_NetDeltaSinCambiosConservaPrecio(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t, map[string]int{"P": 10})
	svc := inventory.NewReservationService(cat)

	old := []entity.LineItem{{ProductID: "P", Quantity: 2, Name: "Viejo", UnitPrice: decimal.NewFromInt(1)}}
	res, err := svc.Reconcile(ctx, old, []entity.LineItem{line("P", 2)}, inventory.ReconcileNetDelta)
	require.NoError(t, err)
	assert.Empty(t, res.Committed)
	assert.Equal(t, 10, stockOf(t, cat, "P"))
	assert.Equal(t, "Viejo", res.Items[0].Name)
	assert.True(t, decimal.NewFromInt(1).Equal(res.Items[0].UnitPrice))
}

func TestReconcile_NetDeltaInsuficiente(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t, map[string]int{"P": 1})
	svc := inventory.NewReservationService(cat)

	_, err := svc.Reconcile(ctx, []entity.LineItem{line("P", 3)}, []entity.LineItem{line("P", 5)}, inventory.ReconcileNetDelta)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var rerr *inventory.ReservationError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, 0, rerr.Index)
	assert.Equal(t, 2, rerr.Requested)
	assert.Equal(t, 1, stockOf(t, cat, "P"))
}

func TestReconcile_DevolucionFallidaReportaCantidadPositiva(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t, map[string]int{"P": 10, "Q": 10})
	svc := inventory.NewReservationService(cat)
	require.NoError(t, cat.Delete(ctx, "Q"))

	old := []entity.LineItem{line("P", 2), line("Q", 4)}
	_, err := svc.Reconcile(ctx, old, []entity.LineItem{line("P", 3)}, inventory.ReconcileNetDelta)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var rerr *inventory.ReservationError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, -1, rerr.Index)
	assert.Equal(t, "Q", rerr.ProductID)
	assert.Equal(t, 4, rerr.Requested)
	assert.Equal(t, []domaininv.StockDelta{{ProductID: "P", Delta: -1}}, rerr.Committed)
	assert.Equal(t, 9, stockOf(t, cat, "P"))
}

func TestReconcile_LegacyDobleConsumo(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t, map[string]int{"P": 10})
	svc := inventory.NewReservationService(cat)

	created, err := svc.Reserve(ctx, []entity.LineItem{line("P", 3)})
	require.NoError(t, err)
	_, err = svc.Reconcile(ctx, created.Items, []entity.LineItem{line("P", 3)}, inventory.ReconcileLegacy)
	require.NoError(t, err)
	assert.Equal(t, 4, stockOf(t, cat, "P"), "el modo legacy vuelve a consumir la cantidad completa")
}

func TestParseReconcileMode(t *testing.T) {
	m, err := inventory.ParseReconcileMode("")
	require.NoError(t, err)
	assert.Equal(t, inventory.ReconcileNetDelta, m)

	m, err = inventory.ParseReconcileMode("legacy")
	require.NoError(t, err)
	assert.Equal(t, inventory.ReconcileLegacy, m)

	_, err = inventory.ParseReconcileMode("diff")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
