package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nagacare/health-admin-api/internal/application/auth"
	"github.com/nagacare/health-admin-api/internal/application/inventory"
	"github.com/nagacare/health-admin-api/internal/application/resident"
	"github.com/nagacare/health-admin-api/internal/application/session"
	infrapdf "github.com/nagacare/health-admin-api/internal/infrastructure/pdf"
	"github.com/nagacare/health-admin-api/internal/infrastructure/postgres"
	infraredis "github.com/nagacare/health-admin-api/internal/infrastructure/redis"
	httpRouter "github.com/nagacare/health-admin-api/internal/interfaces/http"
	"github.com/nagacare/health-admin-api/pkg/config"
	"github.com/nagacare/health-admin-api/pkg/logger"
	"github.com/nagacare/health-admin-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to Redis")
	}
	defer rdb.Close()

	userRepo := postgres.NewUserRepository(pool)
	medRepo := postgres.NewMedicationRepository(pool)
	distRepo := postgres.NewDistributionRepository(pool)
	residentRepo := postgres.NewResidentRepository(pool)
	scanRepo := postgres.NewScanLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	sessions := session.NewProvider(infraredis.NewSessionStore(rdb), session.Config{
		Secret: cfg.Session.Secret,
		Issuer: cfg.Session.Issuer,
		TTL:    cfg.Session.TTL,
	}, log.Component("session"))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	authUC := auth.NewAuthUseCase(userRepo, sessions, log.Component("auth"))
	medicationUC := inventory.NewMedicationUseCase(txRunner, medRepo, distRepo, userRepo, infrapdf.NewMarotoPDFGenerator(""), log.Component("inventory"))
	distributeUC := inventory.NewDistributeUseCase(txRunner, log.Component("distribution"))
	scanUC := resident.NewScanUseCase(residentRepo, scanRepo, log.Component("scanner"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.App.DocsPath,
		Path:     "docs",
		Title:    "NagaCare API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		Sessions:     sessions,
		MedicationUC: medicationUC,
		DistributeUC: distributeUC,
		ScanUC:       scanUC,
		Metrics:      appMetrics,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.App.Env != "development",
		},
		Log: log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
