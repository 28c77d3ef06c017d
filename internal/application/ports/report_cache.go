package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss la clave no está en la caché.
var ErrCacheMiss = errors.New("cache miss")

// ReportCache caché de reportes (Redis). Los valores van serializados por el caso de uso.
// Las claves que usa el caso de uso llevan la generación vigente al empezar el cálculo.
type ReportCache interface {
	// Generation número que Invalidate incrementa.
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate avanza la generación y descarta los reportes; se llama tras cada mutación de pedidos.
	Invalidate(ctx context.Context) error
}

// NopCache caché desactivada: siempre ErrCacheMiss.
type NopCache struct{}

func (NopCache) Generation(context.Context) (int64, error) { return 0, nil }
func (NopCache) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }
func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopCache) Invalidate(context.Context) error { return nil }
