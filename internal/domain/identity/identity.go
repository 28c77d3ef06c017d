// Package identity transporta la identidad ya verificada del llamador en el context.
// El núcleo nunca verifica credenciales: confía en lo que el middleware adjunta.
package identity

import "context"

// Caller vendedor autenticado que origina la petición.
type Caller struct {
	SellerID string
	Email    string
	Name     string
}

type ctxKey struct{}

// WithCaller devuelve un context hijo con el llamador adjunto.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// CallerFrom extrae el llamador; ok es false si no hay identidad o está vacía.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(ctxKey{}).(Caller)
	if !ok || c.SellerID == "" {
		return Caller{}, false
	}
	return c, true
}
