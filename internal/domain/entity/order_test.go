package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

func TestParseOrderStatus(t *testing.T) {
	st, err := entity.ParseOrderStatus(" completado ")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, st)

	for _, bad := range []string{"", "PENDING", "ENVIADO"} {
		_, err := entity.ParseOrderStatus(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, bad)
	}
}

func TestOrder_RecalculateTotal(t *testing.T) {
	o := &entity.Order{Items: []entity.LineItem{
		{ProductID: "a", Quantity: 3, UnitPrice: decimal.RequireFromString("2.50")},
		{ProductID: "b", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
	}}
	o.RecalculateTotal()
	assert.True(t, decimal.RequireFromString("17.50").Equal(o.Total), o.Total.String())
}
