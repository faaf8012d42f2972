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

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/batches"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/settlements"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/wholesale"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/infrastructure/notify"
	infraparams "github.com/Samuel-Tabares/trabix-management-app-sub001/internal/infrastructure/params"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/infrastructure/postgres"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/infrastructure/scheduler"
	httpRouter "github.com/Samuel-Tabares/trabix-management-app-sub001/internal/interfaces/http"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/pkg/config"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
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

	txRunner := postgres.NewTxRunner(pool)
	hierarchy := postgres.NewHierarchyAdapter(pool)
	debt := postgres.NewEquipmentDebtAdapter(pool)

	paramsProvider := infraparams.NewViperProvider(log)
	notifier := notify.NewLogNotifier(log.WithComponent("notifier"))

	settlementUC := settlements.NewUseCase(txRunner, notifier, hierarchy, debt, paramsProvider)
	lifecycleUC := batches.NewLifecycleUseCase(txRunner, notifier, paramsProvider, settlementUC)
	wholesaleUC := wholesale.NewUseCase(txRunner, notifier, hierarchy, paramsProvider)

	sched := scheduler.New(cfg.Cron, lifecycleUC, settlementUC, debt, log.WithComponent("scheduler"))
	sched.Start()
	defer sched.Stop()

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
		Title:    "Trabix Management API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LifecycleUC:  lifecycleUC,
		SettlementUC: settlementUC,
		WholesaleUC:  wholesaleUC,
		JWTSecret:    cfg.JWT.Secret,
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
