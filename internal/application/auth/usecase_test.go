package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/auth"
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/identity"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/Pedidos-api/pkg/jwt"
)

const secret = "auth-test-secret"

func newAuth() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewSellerStore(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"})
}

func TestRegisterYLogin(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()

	s, err := uc.Register(ctx, dto.RegisterRequest{Name: "Ana", LastName: "Gómez", Email: " Ana@X.co ", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@x.co", s.Email)

	_, err = uc.Register(ctx, dto.RegisterRequest{Name: "Otra", Email: "ana@x.co", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@x.co", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@x.co", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrSellerNotFound)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@x.co", Password: "secreta123"})
	require.NoError(t, err)
	claims, err := pkgjwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, claims.SellerID)
	assert.Equal(t, "Ana Gómez", claims.Name)

	me, err := uc.Me(identity.WithCaller(ctx, identity.Caller{SellerID: s.ID}))
	require.NoError(t, err)
	assert.Equal(t, s.ID, me.ID)
	_, err = uc.Me(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_Validación(t *testing.T) {
	_, err := newAuth().Register(context.Background(), dto.RegisterRequest{Name: "Ana", Email: "a@x.co", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
