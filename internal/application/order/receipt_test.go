package order_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/memory"
)

type fakeReceipt struct {
	gotClient *entity.Client
	gotSeller *entity.Seller
}

func (g *fakeReceipt) GenerateOrderReceipt(_ context.Context, _ *entity.Order, c *entity.Client, s *entity.Seller) ([]byte, error) {
	g.gotClient, g.gotSeller = c, s
	return []byte("%PDF-fake"), nil
}

func TestReceipt_Download(t *testing.T) {
	f := newFixture(t, order.Options{})
	sellers := memory.NewSellerStore()
	require.NoError(t, sellers.Create(context.Background(), &entity.Seller{ID: "S1", Name: "Luis", Email: "l@x.co"}))
	gen := &fakeReceipt{}
	rc := order.NewReceiptUseCase(f.uc, f.clients, sellers, gen)

	o, err := f.uc.Create(as("S1"), dto.CreateOrderRequest{ClientID: "C1", Items: items("Q", 2)})
	require.NoError(t, err)

	b, name, err := rc.Download(as("S1"), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(b))
	assert.Equal(t, "pedido-"+o.ID+".pdf", name)
	assert.Equal(t, "C1", gen.gotClient.ID)
	assert.Equal(t, "Luis", gen.gotSeller.Name)

	_, _, err = rc.Download(as("S2"), o.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, _, err = rc.Download(as("S1"), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
