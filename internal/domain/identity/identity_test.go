package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Pedidos-api/internal/domain/identity"
)

func TestCallerFrom(t *testing.T) {
	_, ok := identity.CallerFrom(context.Background())
	assert.False(t, ok)

	_, ok = identity.CallerFrom(identity.WithCaller(context.Background(), identity.Caller{}))
	assert.False(t, ok, "identidad vacía no cuenta como autenticada")

	ctx := identity.WithCaller(context.Background(), identity.Caller{SellerID: "s1", Email: "a@b.co"})
	c, ok := identity.CallerFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, "s1", c.SellerID)
}
