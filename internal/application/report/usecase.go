package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// Límites por defecto de los rankings.
const (
	DefaultTopClients = 10
	DefaultTopSellers = 3
	MaxLimit          = 100
)

// UseCase rankings globales sobre pedidos COMPLETADO. Sin control de acceso.
// Los resultados se cachean y los cálculos concurrentes de la misma clave se colapsan en uno.
type UseCase struct {
	repo  repository.ReportRepository
	cache ports.ReportCache
	ttl   time.Duration
	group singleflight.Group
	log   zerolog.Logger
}

// NewUseCase construye el caso de uso. cache nil desactiva la caché.
func NewUseCase(repo repository.ReportRepository, cache ports.ReportCache, ttl time.Duration, log zerolog.Logger) *UseCase {
	if cache == nil {
		cache = ports.NopCache{}
	}
	return &UseCase{repo: repo, cache: cache, ttl: ttl, log: log}
}

// TopClients clientes con mayor total en pedidos completados. limit <= 0 usa DefaultTopClients.
func (uc *UseCase) TopClients(ctx context.Context, limit int) ([]dto.TopClientResponse, error) {
	limit = clamp(limit, DefaultTopClients)
	return cached(ctx, uc, fmt.Sprintf("top-clients:%d", limit), func() ([]dto.TopClientResponse, error) {
		rows, err := uc.repo.ClientTotals(ctx, entity.OrderStatusCompleted)
		if err != nil {
			return nil, fmt.Errorf("totales por cliente: %w", err)
		}
		ranked := RankClients(rows, limit)
		out := make([]dto.TopClientResponse, 0, len(ranked))
		for _, r := range ranked {
			out = append(out, dto.TopClientResponse{
				ClientID: r.ClientID, Name: r.Name, LastName: r.LastName,
				Company: r.Company, Email: r.Email, Total: r.Total,
			})
		}
		return out, nil
	})
}

// TopSellers vendedores con mayor total en pedidos completados. limit <= 0 usa DefaultTopSellers.
func (uc *UseCase) TopSellers(ctx context.Context, limit int) ([]dto.TopSellerResponse, error) {
	limit = clamp(limit, DefaultTopSellers)
	return cached(ctx, uc, fmt.Sprintf("top-sellers:%d", limit), func() ([]dto.TopSellerResponse, error) {
		rows, err := uc.repo.SellerTotals(ctx, entity.OrderStatusCompleted)
		if err != nil {
			return nil, fmt.Errorf("totales por vendedor: %w", err)
		}
		ranked := RankSellers(rows, limit)
		out := make([]dto.TopSellerResponse, 0, len(ranked))
		for _, r := range ranked {
			out = append(out, dto.TopSellerResponse{
				SellerID: r.SellerID, Name: r.Name, LastName: r.LastName, Email: r.Email, Total: r.Total,
			})
		}
		return out, nil
	})
}

// RankClients ordena por total descendente, desempata por ID ascendente y recorta a limit.
func RankClients(rows []entity.ClientTotal, limit int) []entity.ClientTotal {
	out := append([]entity.ClientTotal(nil), rows...)
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].ClientID < out[j].ClientID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RankSellers igual que RankClients agrupando por vendedor.
func RankSellers(rows []entity.SellerTotal, limit int) []entity.SellerTotal {
	out := append([]entity.SellerTotal(nil), rows...)
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].SellerID < out[j].SellerID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// cached lee o calcula key dentro de la generación actual de la caché. Un cálculo que
// empezó antes de una invalidación guarda bajo la generación vieja, que ya nadie lee.
func cached[T any](ctx context.Context, uc *UseCase, key string, compute func() ([]T, error)) ([]T, error) {
	gen, err := uc.cache.Generation(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("leer generación de caché, se calcula sin caché")
		v, err, _ := uc.group.Do("nocache:"+key, func() (interface{}, error) { return compute() })
		if err != nil {
			return nil, err
		}
		return v.([]T), nil
	}
	key = fmt.Sprintf("g%d:%s", gen, key)

	if raw, err := uc.cache.Get(ctx, key); err == nil {
		var out []T
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
		uc.log.Warn().Str("key", key).Msg("reporte en caché ilegible, se recalcula")
	} else if !errors.Is(err, ports.ErrCacheMiss) {
		uc.log.Warn().Err(err).Str("key", key).Msg("leer caché de reportes")
	}

	v, err, _ := uc.group.Do(key, func() (interface{}, error) {
		out, err := compute()
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(out); err == nil {
			if err := uc.cache.Set(ctx, key, raw, uc.ttl); err != nil {
				uc.log.Warn().Err(err).Str("key", key).Msg("guardar reporte en caché")
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]T), nil
}

func clamp(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
