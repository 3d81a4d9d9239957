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
	"github.com/priscom/ledger-api/internal/application/auth"
	"github.com/priscom/ledger-api/internal/application/authz"
	"github.com/priscom/ledger-api/internal/application/ledger"
	"github.com/priscom/ledger-api/internal/infrastructure/postgres"
	httpRouter "github.com/priscom/ledger-api/internal/interfaces/http"
	"github.com/priscom/ledger-api/pkg/config"
	"github.com/priscom/ledger-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	subsRepo := postgres.NewSubscriptionRepository(pool)
	accessRepo := postgres.NewWarehouseAccessRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	salesLogRepo := postgres.NewSalesLogRepository(pool)
	salesHistoryRepo := postgres.NewSalesHistoryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	warehouseAuthz := authz.NewWarehouseAuthorizer(accessRepo)
	planGuard := authz.NewPlanGuard(subsRepo, salesLogRepo, salesHistoryRepo)

	ledgerSvc := ledger.NewService(
		txRunner, balanceRepo, movementRepo, userRepo,
		warehouseAuthz, planGuard, log,
		ledger.Options{
			RetryAttempts: cfg.Ledger.RetryAttempts,
			RetryBackoff:  time.Duration(cfg.Ledger.RetryBackoffMS) * time.Millisecond,
		},
	)

	authUC := auth.NewAuthUseCase(userRepo, subsRepo, auth.JWTConfig{
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

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		Ledger:    ledgerSvc,
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
