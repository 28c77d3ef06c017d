// @title           Pedidos API
// @version         1.0
// @description     Pedidos de vendedores con reserva de stock por línea, clientes, catálogo y reportes.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/jhoicas/Pedidos-api/docs"
	"github.com/jhoicas/Pedidos-api/internal/application/auth"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/application/report"
	"github.com/jhoicas/Pedidos-api/internal/application/usecase"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	infrakafka "github.com/jhoicas/Pedidos-api/internal/infrastructure/kafka"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Pedidos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Pedidos-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Pedidos-api/internal/interfaces/http"
	"github.com/jhoicas/Pedidos-api/pkg/config"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// stores repositorios según STORE_DRIVER.
type stores struct {
	products repository.ProductRepository
	clients  repository.ClientRepository
	sellers  repository.SellerRepository
	orders   repository.OrderRepository
	reports  repository.ReportRepository
}

func memoryStores() stores {
	orders := memory.NewOrderStore()
	clients := memory.NewClientStore()
	sellers := memory.NewSellerStore()
	return stores{
		products: memory.NewProductStore(),
		clients:  clients,
		sellers:  sellers,
		orders:   orders,
		reports:  memory.NewReportStore(orders, clients, sellers),
	}
}

func postgresStores(pool *pgxpool.Pool) stores {
	return stores{
		products: postgres.NewProductRepository(pool),
		clients:  postgres.NewClientRepository(pool),
		sellers:  postgres.NewSellerRepository(pool),
		orders:   postgres.NewOrderRepository(pool),
		reports:  postgres.NewReportRepository(pool),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var repos stores
	switch cfg.App.StoreDriver {
	case "memory":
		repos = memoryStores()
	default:
		if cfg.DB.Migrate {
			if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repos = postgresStores(pool)
	}

	// Caché de reportes: sin REDIS_ADDR no se cachea.
	var cache ports.ReportCache = ports.NopCache{}
	if cfg.Redis.Addr != "" {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		cache = infraredis.NewReportCache(rdb)
	}

	// Eventos de pedidos: sin KAFKA_BROKERS no se publica.
	var events ports.EventPublisher = ports.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub := infrakafka.NewPublisher(
			infrakafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic),
			cfg.App.Name, 256, log.Component("kafka"),
		)
		defer func() {
			if err := pub.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar publicador kafka")
			}
		}()
		events = pub
	}

	reconcileMode, err := inventory.ParseReconcileMode(cfg.Orders.ReconcileMode)
	if err != nil {
		log.Fatal().Err(err).Msg("ORDERS_RECONCILE_MODE")
	}

	orderUC := order.NewUseCase(order.Deps{
		Orders:       repos.orders,
		Clients:      repos.clients,
		Reservations: inventory.NewReservationService(repos.products),
		Events:       events,
		Cache:        cache,
		Logger:       log.Component("orders"),
	}, order.Options{
		ReconcileMode:       reconcileMode,
		CompensateOnFailure: cfg.Orders.CompensateOnFailure,
	})
	receiptUC := order.NewReceiptUseCase(orderUC, repos.clients, repos.sellers, infrapdf.NewReceiptGenerator())
	reportUC := report.NewUseCase(repos.reports, cache, cfg.Redis.TTL, log.Component("reports"))
	authUC := auth.NewAuthUseCase(repos.sellers, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Pedidos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ProductUC: usecase.NewProductUseCase(repos.products),
		ClientUC:  usecase.NewClientUseCase(repos.clients),
		OrderUC:   orderUC,
		ReceiptUC: receiptUC,
		ReportUC:  reportUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
